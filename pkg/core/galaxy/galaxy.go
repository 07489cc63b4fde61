package galaxy

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. IDs are unique across all clusters and kinds.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownCluster is returned by [Graph.AddNode] when a non-root node
	// references a cluster that was never registered with [Graph.AddCluster].
	ErrUnknownCluster = errors.New("unknown cluster")

	// ErrDuplicateCluster is returned by [Graph.AddCluster] for a repeated cluster ID.
	ErrDuplicateCluster = errors.New("duplicate cluster ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownNode is returned by [Graph.Place] for an ID not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrAlreadyPlaced is returned by [Graph.Place] when a node's position was
	// already committed. Positions are written exactly once.
	ErrAlreadyPlaced = errors.New("node position already committed")
)

// CoreCluster is the virtual cluster that owns the root node at the origin.
const CoreCluster = "core"

// Graph is the typed skill graph: clusters, nodes and validated edges.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent mutation. Once layout has committed every
// position the graph is treated as read-only and may be shared by readers.
type Graph struct {
	clusters map[string]*Cluster
	nodes    map[string]*Node
	order    []string // node insertion order
	edges    []Edge
	incoming map[string][]int // nodeID -> indices into edges where node is Target
	outgoing map[string][]int // nodeID -> indices into edges where node is Source
	edgeSet  map[Edge]struct{}
}

// New creates an empty graph with the virtual core cluster registered.
func New() *Graph {
	g := &Graph{
		clusters: make(map[string]*Cluster),
		nodes:    make(map[string]*Node),
		incoming: make(map[string][]int),
		outgoing: make(map[string][]int),
		edgeSet:  make(map[Edge]struct{}),
	}
	g.clusters[CoreCluster] = &Cluster{ID: CoreCluster, Label: "Core"}
	return g
}

// AddCluster registers a cluster. Clusters are immutable once added.
func (g *Graph) AddCluster(c Cluster) error {
	if c.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.clusters[c.ID]; ok {
		return ErrDuplicateCluster
	}
	c.Placeholders = slices.Clone(c.Placeholders)
	g.clusters[c.ID] = &c
	return nil
}

// Cluster returns the cluster with the given ID.
func (g *Graph) Cluster(id string) (Cluster, bool) {
	c, ok := g.clusters[id]
	if !ok {
		return Cluster{}, false
	}
	return *c, true
}

// Clusters returns all authored clusters sorted by ID. The virtual core
// cluster is not included.
func (g *Graph) Clusters() []Cluster {
	ids := slices.Sorted(maps.Keys(g.clusters))
	out := make([]Cluster, 0, len(ids))
	for _, id := range ids {
		if id == CoreCluster {
			continue
		}
		out = append(out, *g.clusters[id])
	}
	return out
}

// AddNode adds a node. The root node is forced into the core cluster; every
// other node must reference a registered cluster.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Kind == KindRoot {
		n.Cluster = CoreCluster
	} else if _, ok := g.clusters[n.Cluster]; !ok || n.Cluster == CoreCluster {
		return ErrUnknownCluster
	}
	n.Prerequisites = slices.Clone(n.Prerequisites)
	n.Related = slices.Clone(n.Related)
	n.placed = false
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding the same
// (Source, Target, Kind) triple twice is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if _, dup := g.edgeSet[e]; dup {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], idx)
	g.incoming[e.Target] = append(g.incoming[e.Target], idx)
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID and true, or nil and false.
// The returned pointer refers to the graph's node; callers must not change
// its ID or position directly (use [Graph.Place]).
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodesInCluster returns the nodes owned by a cluster in insertion order.
func (g *Graph) NodesInCluster(cluster string) []*Node {
	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Cluster == cluster {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// In returns the edges whose Target is id (what id draws on).
func (g *Graph) In(id string) []Edge {
	idx := g.incoming[id]
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}

// Out returns the edges whose Source is id (what builds on id).
func (g *Graph) Out(id string) []Edge {
	idx := g.outgoing[id]
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}

// Root returns the root node, if one was added.
func (g *Graph) Root() (*Node, bool) {
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == KindRoot {
			return n, true
		}
	}
	return nil, false
}

// Place commits a node's position. It returns ErrAlreadyPlaced if the node
// was placed before, leaving the existing position untouched.
func (g *Graph) Place(id string, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if n.placed {
		return ErrAlreadyPlaced
	}
	n.X, n.Y = x, y
	n.placed = true
	return nil
}

// Placed reports whether every node has a committed position.
func (g *Graph) Placed() bool {
	for _, n := range g.nodes {
		if !n.placed {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box of all placed nodes,
// including their radii. An empty or unplaced graph yields zeros.
func (g *Graph) Bounds() (minX, minY, maxX, maxY float64) {
	first := true
	for _, n := range g.nodes {
		if !n.placed {
			continue
		}
		l, r := n.X-n.Radius, n.X+n.Radius
		t, b := n.Y-n.Radius, n.Y+n.Radius
		if first {
			minX, minY, maxX, maxY = l, t, r, b
			first = false
			continue
		}
		minX, minY = min(minX, l), min(minY, t)
		maxX, maxY = max(maxX, r), max(maxY, b)
	}
	return minX, minY, maxX, maxY
}
