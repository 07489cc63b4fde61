package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
	"github.com/matzehuels/skillgalaxy/pkg/core/render"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

const (
	padding     = 48.0
	haloPadding = 18.0
	haloMin     = 40.0
	titleHeight = 28.0
)

// Option configures [RenderSVG].
type Option func(*renderer)

type renderer struct {
	style  Style
	fog    bool
	labels bool
	state  *interact.State
	title  string
}

// WithStyle sets the visual style (default [Galaxy]).
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// WithFog starts the document with fog enabled.
func WithFog(on bool) Option { return func(r *renderer) { r.fog = on } }

// WithLabels labels every node. Without it only the root, cluster hubs and
// portals are labeled.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithState bakes an interaction snapshot into the markup.
func WithState(s interact.State) Option { return func(r *renderer) { r.state = &s } }

// WithTitle adds a heading above the galaxy.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// RenderSVG renders a positioned graph. It fails if any node is unplaced.
func RenderSVG(g *galaxy.Graph, opts ...Option) ([]byte, error) {
	r := renderer{style: Galaxy{}}
	for _, opt := range opts {
		opt(&r)
	}
	if !g.Placed() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph has unplaced nodes; run layout first")
	}

	idx := interact.NewIndex(g)
	state := interact.State{Fog: r.fog}
	if r.state != nil {
		state = *r.state
		state.Fog = r.fog
	}

	colors := render.ClusterColors(g)
	halos := buildHalos(g, colors)
	stars := buildStars(g, colors, state)
	links := buildLinks(g, state)

	minX, minY, maxX, maxY := bounds(stars, halos)
	minX, minY = minX-padding, minY-padding
	maxX, maxY = maxX+padding, maxY+padding
	if r.title != "" {
		minY -= titleHeight
	}
	w, h := maxX-minX, maxY-minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)

	buf.WriteString("  <defs>\n")
	r.style.RenderDefs(&buf, halos)
	buf.WriteString("  </defs>\n")

	fmt.Fprintf(&buf, `  <rect id="backdrop" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		minX, minY, w, h, r.style.Background())
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f" font-family="%s" font-size="16" fill="%s">%s</text>`+"\n",
			minX+padding/2, minY+titleHeight, fontFamily, titleColor(r.style), EscapeXML(r.title))
	}

	buf.WriteString("  <g class=\"halos\">\n")
	for _, hl := range halos {
		r.style.RenderHalo(&buf, hl)
	}
	buf.WriteString("  </g>\n  <g class=\"edges\">\n")
	for _, l := range links {
		r.style.RenderEdge(&buf, l)
	}
	buf.WriteString("  </g>\n  <g class=\"stars\">\n")
	for _, s := range stars {
		r.style.RenderStar(&buf, s)
	}
	buf.WriteString("  </g>\n  <g class=\"labels\">\n")
	for _, s := range stars {
		if r.labelled(g, s.ID) {
			r.style.RenderLabel(&buf, labelStar(s))
		}
	}
	buf.WriteString("  </g>\n  <g id=\"particles\"></g>\n")

	if err := renderScene(&buf, g, idx, state); err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", r.style.CSS())
	fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *renderer) labelled(g *galaxy.Graph, id string) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}
	if n.Kind.IsPinned() || n.Portal() {
		return true
	}
	return r.labels && n.Kind != galaxy.KindPlaceholder
}

// labelStar keeps only the state classes a label shares with its star.
func labelStar(s Star) Star {
	switch s.Class {
	case "dim", "fog":
	default:
		s.Class = ""
	}
	return s
}

func titleColor(s Style) string {
	if _, ok := s.(Simple); ok {
		return "#222222"
	}
	return "#e6e9f5"
}

// =============================================================================
// Scene construction
// =============================================================================

func buildHalos(g *galaxy.Graph, colors map[string][2]string) []Halo {
	clusters := g.Clusters()
	halos := make([]Halo, 0, len(clusters))
	for _, c := range clusters {
		hub, ok := g.Node(c.ID)
		if !ok || hub.Kind != galaxy.KindCluster {
			continue
		}
		r := haloMin
		for _, n := range g.NodesInCluster(c.ID) {
			r = max(r, math.Hypot(n.X-hub.X, n.Y-hub.Y)+n.Radius+haloPadding)
		}
		halos = append(halos, Halo{
			Cluster: c.ID,
			Label:   c.Label,
			X:       hub.X,
			Y:       hub.Y,
			R:       r,
			Color:   colors[c.ID][0],
			Index:   len(halos),
		})
	}
	return halos
}

func buildStars(g *galaxy.Graph, colors map[string][2]string, s interact.State) []Star {
	nodes := g.Nodes()
	stars := make([]Star, 0, len(nodes))
	for _, n := range nodes {
		label := n.Name
		if label == "" {
			label = n.ID
		}
		c := colors[n.Cluster]
		st := Star{
			ID:         n.ID,
			Label:      label,
			Cluster:    n.Cluster,
			Kind:       string(n.Kind),
			Tier:       string(n.Tier),
			X:          n.X,
			Y:          n.Y,
			R:          n.Radius,
			Brightness: n.Brightness,
			Fill:       c[0],
			Stroke:     c[1],
			Class:      nodeClass(s.NodeClass(n)),
		}
		if w, ok := n.Detail.(galaxy.WorkDetail); ok {
			st.URL = w.URL
		}
		stars = append(stars, st)
	}
	return stars
}

func buildLinks(g *galaxy.Graph, s interact.State) []Link {
	edges := g.Edges()
	links := make([]Link, 0, len(edges))
	for _, e := range edges {
		src, okS := g.Node(e.Source)
		dst, okD := g.Node(e.Target)
		if !okS || !okD {
			continue
		}
		links = append(links, Link{
			Source: e.Source,
			Target: e.Target,
			Kind:   string(e.Kind),
			X1:     src.X,
			Y1:     src.Y,
			X2:     dst.X,
			Y2:     dst.Y,
			Class:  edgeClass(s.EdgeClass(e)),
		})
	}
	return links
}

func nodeClass(c interact.NodeClass) string {
	switch c {
	case interact.NodeHighlighted:
		return "highlight"
	case interact.NodeDimmed:
		return "dim"
	case interact.NodeFogged:
		return "fog"
	}
	return ""
}

func edgeClass(c interact.EdgeClass) string {
	switch c {
	case interact.EdgeActive:
		return "active"
	case interact.EdgeDimmed:
		return "dim"
	}
	return ""
}

func bounds(stars []Star, halos []Halo) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y, r float64) {
		minX, minY = min(minX, x-r), min(minY, y-r)
		maxX, maxY = max(maxX, x+r), max(maxY, y+r)
	}
	for _, s := range stars {
		grow(s.X, s.Y, s.R)
	}
	for _, h := range halos {
		grow(h.X, h.Y, h.R)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

// =============================================================================
// Embedded scene
// =============================================================================

type scene struct {
	Root      string               `json:"root"`
	Selected  string               `json:"selected,omitempty"`
	Fog       bool                 `json:"fog"`
	Particles int                  `json:"particles"`
	Period    float64              `json:"period"`
	Nodes     map[string]sceneNode `json:"nodes"`
}

type sceneNode struct {
	Cluster   string       `json:"cluster"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Chain     interact.Set `json:"chain"`
	Overclock interact.Set `json:"overclock,omitempty"`
}

func renderScene(buf *bytes.Buffer, g *galaxy.Graph, idx *interact.Index, s interact.State) error {
	sc := scene{
		Selected:  s.Focus,
		Fog:       s.Fog,
		Particles: interact.ParticlesPerEdge,
		Period:    interact.Period.Seconds(),
		Nodes:     make(map[string]sceneNode, g.NodeCount()),
	}
	if root, ok := g.Root(); ok {
		sc.Root = root.ID
	}
	for _, n := range g.Nodes() {
		sc.Nodes[n.ID] = sceneNode{
			Cluster:   n.Cluster,
			X:         math.Round(n.X*10) / 10,
			Y:         math.Round(n.Y*10) / 10,
			Chain:     idx.CollectChain(n.ID),
			Overclock: idx.CollectOverclockTargets(n.ID),
		}
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	// json.Marshal escapes '<' and '>', so the payload cannot close the CDATA section.
	fmt.Fprintf(buf, "  <script type=\"application/json\" id=\"galaxy-data\"><![CDATA[%s]]></script>\n", data)
	return nil
}
