// Package graph provides the serialization format for skill galaxies.
//
// This package defines the canonical wire format for galaxy data, used for
// JSON files, API responses, caching, and MongoDB storage (every type carries
// both json and bson tags).
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Galaxy], [Cluster], [Node], [Edge]: serialization types (this package)
//   - pkg/core/galaxy.Graph: internal graph representation
//
// Use [FromGalaxy]/[ToGalaxy] to convert between them.
//
// # Format
//
//	{
//	  "root": "me",
//	  "positioned": true,
//	  "clusters": [{"id": "systems", "angle": 0, "radius": 320}],
//	  "nodes": [{"id": "os", "kind": "course", "cluster": "systems",
//	             "x": 301.2, "y": -40.5, "meta": {"grade": "A+"}}],
//	  "edges": [{"from": "algo", "to": "os", "kind": "prerequisite"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGalaxyFile("galaxy.json")   // File → Graph
//	graph.WriteGalaxyFile(g, "out.json")          // Graph → File
//	data, _ := graph.MarshalGalaxy(g)             // Graph → []byte
//	gx, _ := graph.UnmarshalGalaxy(data)          // []byte → Galaxy
//
// # Node Metadata
//
// Kind-specific fields are flattened into meta. Recognized keys:
//
//	code, institution, grade   course details
//	track, year, semester      courses and project-like nodes
//	url, venue, portal         project-like nodes
//	slug, solved, expected     algorithm topics
//	topic                      placeholders
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
