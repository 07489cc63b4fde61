package interact

import "github.com/matzehuels/skillgalaxy/pkg/core/galaxy"

// NodeClass is the visual treatment of a node under a [State].
type NodeClass string

const (
	NodeNormal      NodeClass = "normal"
	NodeHighlighted NodeClass = "highlighted"
	NodeDimmed      NodeClass = "dimmed"
	NodeFogged      NodeClass = "fogged"
)

// EdgeClass is the visual treatment of an edge under a [State].
type EdgeClass string

const (
	EdgeNormal EdgeClass = "normal"
	EdgeActive EdgeClass = "active"
	EdgeDimmed EdgeClass = "dimmed"
)

// State is a snapshot of the interaction. The zero value is idle.
type State struct {
	Hovered  string `json:"hovered,omitempty"`
	Selected string `json:"selected,omitempty"`

	// Focus is Selected if set, else Hovered.
	Focus string `json:"focus,omitempty"`

	Chain      Set `json:"chain"`
	Upstream   Set `json:"upstream"`
	Downstream Set `json:"downstream"`
	Overclock  Set `json:"overclock"`

	// FogCluster is the cluster of the focused node.
	FogCluster string `json:"fog_cluster,omitempty"`
	Fog        bool   `json:"fog"`
}

// Idle reports whether nothing is focused.
func (s State) Idle() bool { return s.Focus == "" }

// NodeClass classifies n. With fog on, nodes outside the chain and outside
// the focused cluster are fogged; the root is never fogged.
func (s State) NodeClass(n *galaxy.Node) NodeClass {
	switch {
	case s.Idle():
		return NodeNormal
	case n.ID == s.Focus:
		return NodeNormal
	case s.Chain.Has(n.ID):
		return NodeHighlighted
	case s.Fog && n.Kind != galaxy.KindRoot && n.Cluster != s.FogCluster:
		return NodeFogged
	}
	return NodeDimmed
}

// EdgeClass classifies e: active when both endpoints are in the chain.
func (s State) EdgeClass(e galaxy.Edge) EdgeClass {
	switch {
	case s.Idle():
		return EdgeNormal
	case s.Chain.Has(e.Source) && s.Chain.Has(e.Target):
		return EdgeActive
	}
	return EdgeDimmed
}

// Classes returns the class of every node in g, keyed by ID.
func (s State) Classes(g *galaxy.Graph) map[string]NodeClass {
	out := make(map[string]NodeClass, g.NodeCount())
	for _, n := range g.Nodes() {
		out[n.ID] = s.NodeClass(n)
	}
	return out
}
