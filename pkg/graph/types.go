package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visual styles for rendering.
const (
	StyleGalaxy   = "galaxy"
	StyleSimple   = "simple"
	StyleNodeLink = "nodelink" // static Graphviz drawing at the computed positions
)

// Metadata keys for variant details.
const (
	metaCode        = "code"
	metaInstitution = "institution"
	metaTrack       = "track"
	metaGrade       = "grade"
	metaYear        = "year"
	metaSemester    = "semester"
	metaURL         = "url"
	metaVenue       = "venue"
	metaPortal      = "portal"
	metaSlug        = "slug"
	metaSolved      = "solved"
	metaExpected    = "expected"
	metaTopic       = "topic"
)

// =============================================================================
// Galaxy
// =============================================================================

// Galaxy is the canonical serialization format for a skill graph, with or
// without committed positions.
type Galaxy struct {
	Root       string    `json:"root,omitempty" bson:"root,omitempty"`
	Positioned bool      `json:"positioned" bson:"positioned"`
	Clusters   []Cluster `json:"clusters" bson:"clusters"`
	Nodes      []Node    `json:"nodes" bson:"nodes"`
	Edges      []Edge    `json:"edges" bson:"edges"`

	// Layout describes how positions were computed. Nil for unpositioned
	// graphs.
	Layout *LayoutInfo `json:"layout,omitempty" bson:"layout,omitempty"`
}

// LayoutInfo records the layout parameters and outcome.
type LayoutInfo struct {
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
	Scale      float64 `json:"scale" bson:"scale"`
	Seed       uint64  `json:"seed" bson:"seed"`
	Iterations int     `json:"iterations" bson:"iterations"`
	Quality    float64 `json:"quality" bson:"quality"`
}

// Cluster is a serialized cluster. Angle is in radians.
type Cluster struct {
	ID           string   `json:"id" bson:"id"`
	Label        string   `json:"label,omitempty" bson:"label,omitempty"`
	Primary      string   `json:"primary,omitempty" bson:"primary,omitempty"`
	Secondary    string   `json:"secondary,omitempty" bson:"secondary,omitempty"`
	Angle        float64  `json:"angle" bson:"angle"`
	Radius       float64  `json:"radius" bson:"radius"`
	Placeholders []string `json:"placeholders,omitempty" bson:"placeholders,omitempty"`
}

// Node is a serialized node.
type Node struct {
	ID            string         `json:"id" bson:"id"`
	Label         string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Cluster       string         `json:"cluster" bson:"cluster"`
	Kind          string         `json:"kind" bson:"kind"`
	Mastery       float64        `json:"mastery" bson:"mastery"`
	Brightness    float64        `json:"brightness" bson:"brightness"`
	Radius        float64        `json:"radius" bson:"radius"`
	Tier          string         `json:"tier" bson:"tier"`
	Layer         string         `json:"layer" bson:"layer"`
	X             float64        `json:"x" bson:"x"`
	Y             float64        `json:"y" bson:"y"`
	Prerequisites []string       `json:"prerequisites,omitempty" bson:"prerequisites,omitempty"`
	Related       []string       `json:"related,omitempty" bson:"related,omitempty"`
	Meta          map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a serialized directed edge.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Kind string `json:"kind" bson:"kind"`
}

// =============================================================================
// galaxy.Graph ↔ Galaxy Conversion
// =============================================================================

// FromGalaxy converts a graph to its serialization format. Nodes and edges
// keep insertion order.
func FromGalaxy(g *galaxy.Graph) Galaxy {
	out := Galaxy{
		Positioned: g.NodeCount() > 0 && g.Placed(),
		Clusters:   make([]Cluster, 0),
		Nodes:      make([]Node, 0, g.NodeCount()),
		Edges:      make([]Edge, 0, g.EdgeCount()),
	}
	if root, ok := g.Root(); ok {
		out.Root = root.ID
	}
	for _, c := range g.Clusters() {
		out.Clusters = append(out.Clusters, Cluster{
			ID:           c.ID,
			Label:        c.Label,
			Primary:      c.Primary,
			Secondary:    c.Secondary,
			Angle:        c.Angle,
			Radius:       c.Radius,
			Placeholders: c.Placeholders,
		})
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, nodeFromGalaxy(n))
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.Source, To: e.Target, Kind: string(e.Kind)})
	}
	return out
}

// ToGalaxy converts a Galaxy back into a graph. Positions are committed
// when gx.Positioned is set.
func ToGalaxy(gx Galaxy) (*galaxy.Graph, error) {
	g := galaxy.New()
	for _, c := range gx.Clusters {
		err := g.AddCluster(galaxy.Cluster{
			ID:           c.ID,
			Label:        c.Label,
			Primary:      c.Primary,
			Secondary:    c.Secondary,
			Angle:        c.Angle,
			Radius:       c.Radius,
			Placeholders: c.Placeholders,
		})
		if err != nil {
			return nil, fmt.Errorf("add cluster %s: %w", c.ID, err)
		}
	}
	for _, nj := range gx.Nodes {
		if err := g.AddNode(nodeToGalaxy(nj)); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range gx.Edges {
		e := galaxy.Edge{Source: ej.From, Target: ej.To, Kind: galaxy.EdgeKind(ej.Kind)}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}
	if gx.Positioned {
		for _, nj := range gx.Nodes {
			if err := g.Place(nj.ID, nj.X, nj.Y); err != nil {
				return nil, fmt.Errorf("place %s: %w", nj.ID, err)
			}
		}
	}
	return g, nil
}

// UnmarshalGalaxy deserializes JSON bytes to a Galaxy.
func UnmarshalGalaxy(data []byte) (Galaxy, error) {
	var gx Galaxy
	if err := json.Unmarshal(data, &gx); err != nil {
		return Galaxy{}, err
	}
	return gx, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// nodeFromGalaxy is the single point of conversion for galaxy.Node → Node.
func nodeFromGalaxy(n *galaxy.Node) Node {
	node := Node{
		ID:            n.ID,
		Cluster:       n.Cluster,
		Kind:          string(n.Kind),
		Mastery:       n.Mastery,
		Brightness:    n.Brightness,
		Radius:        n.Radius,
		Tier:          string(n.Tier),
		Layer:         string(n.Layer),
		X:             n.X,
		Y:             n.Y,
		Prerequisites: n.Prerequisites,
		Related:       n.Related,
	}
	if n.Name != n.ID {
		node.Label = n.Name
	}

	m := map[string]any{}
	switch d := n.Detail.(type) {
	case galaxy.CourseDetail:
		putString(m, metaCode, d.Code)
		putString(m, metaInstitution, d.Institution)
		putString(m, metaTrack, d.Track)
		putString(m, metaGrade, d.Grade)
		putInt(m, metaYear, d.Year)
		putInt(m, metaSemester, d.Semester)
	case galaxy.WorkDetail:
		putString(m, metaTrack, d.Track)
		putString(m, metaURL, d.URL)
		putString(m, metaVenue, d.Venue)
		putInt(m, metaYear, d.Year)
		putInt(m, metaSemester, d.Semester)
		if d.Portal {
			m[metaPortal] = true
		}
	case galaxy.TopicDetail:
		putString(m, metaSlug, d.Slug)
		m[metaSolved] = d.Solved
		m[metaExpected] = d.Expected
	case galaxy.PlaceholderDetail:
		putString(m, metaTopic, d.Topic)
	}
	if len(m) > 0 {
		node.Meta = m
	}
	return node
}

func nodeToGalaxy(nj Node) galaxy.Node {
	n := galaxy.Node{
		ID:            nj.ID,
		Name:          nj.DisplayLabel(),
		Cluster:       nj.Cluster,
		Kind:          galaxy.Kind(nj.Kind),
		Mastery:       nj.Mastery,
		Brightness:    nj.Brightness,
		Radius:        nj.Radius,
		Tier:          galaxy.Tier(nj.Tier),
		Layer:         galaxy.Layer(nj.Layer),
		Prerequisites: nj.Prerequisites,
		Related:       nj.Related,
	}
	m := nj.Meta
	switch {
	case n.Kind == galaxy.KindCourse:
		n.Detail = galaxy.CourseDetail{
			Code:        metaString(m, metaCode),
			Institution: metaString(m, metaInstitution),
			Track:       metaString(m, metaTrack),
			Grade:       metaString(m, metaGrade),
			Year:        metaInt(m, metaYear),
			Semester:    metaInt(m, metaSemester),
		}
	case n.Kind.IsWork():
		portal, _ := m[metaPortal].(bool)
		n.Detail = galaxy.WorkDetail{
			Track:    metaString(m, metaTrack),
			URL:      metaString(m, metaURL),
			Venue:    metaString(m, metaVenue),
			Year:     metaInt(m, metaYear),
			Semester: metaInt(m, metaSemester),
			Portal:   portal,
		}
	case n.Kind == galaxy.KindTopic:
		n.Detail = galaxy.TopicDetail{
			Slug:     metaString(m, metaSlug),
			Solved:   metaInt(m, metaSolved),
			Expected: metaInt(m, metaExpected),
		}
	case n.Kind == galaxy.KindPlaceholder:
		n.Detail = galaxy.PlaceholderDetail{Topic: metaString(m, metaTopic)}
	}
	return n
}

func putString(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}

func putInt(m map[string]any, k string, v int) {
	if v != 0 {
		m[k] = v
	}
}

func metaString(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

// metaInt reads an integer that may have been decoded as any numeric type
// (JSON yields float64, BSON int32 or int64).
func metaInt(m map[string]any, k string) int {
	switch v := m[k].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
