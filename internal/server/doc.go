// Package server serves a positioned galaxy over HTTP.
//
// The server holds one laid-out graph and its traversal index. Read-only
// endpoints expose the graph, its SVG rendering and per-node chains;
// session endpoints drive an interaction engine per viewer so that thin
// clients (a terminal, a static page) can ask for highlight snapshots
// instead of reimplementing the traversal.
//
// # Routes
//
//	GET    /healthz
//	GET    /api/galaxy                    positioned graph JSON
//	GET    /galaxy.svg                    interactive SVG (?fog=1&labels=1&session=<id>)
//	GET    /api/nodes/{id}                one node
//	GET    /api/nodes/{id}/chain          upstream, downstream, chain and overclock sets
//	POST   /api/sessions                  create a session
//	GET    /api/sessions/{sid}            current snapshot
//	POST   /api/sessions/{sid}/hover      {"id": "..."}
//	POST   /api/sessions/{sid}/select     {"id": "..."}
//	POST   /api/sessions/{sid}/fog        {"on": true}
//	POST   /api/sessions/{sid}/clear
//	DELETE /api/sessions/{sid}
//
// Node ids are path segments: a "/" inside an id, as in the placeholder
// id "systems/dark-0", must be sent escaped as "systems%2Fdark-0".
//
// Errors are JSON objects with "error" and "code" fields. An unknown node
// id in hover or select clears that input rather than failing.
package server
