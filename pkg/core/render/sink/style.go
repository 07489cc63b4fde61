package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
)

// Style defines the visual appearance of a galaxy.
type Style interface {
	// Name is the identifier used in configuration.
	Name() string
	// Background is the backdrop fill.
	Background() string
	// RenderDefs writes SVG <defs> content (filters, gradients).
	RenderDefs(buf *bytes.Buffer, halos []Halo)
	// RenderHalo writes the glow behind a cluster.
	RenderHalo(buf *bytes.Buffer, h Halo)
	// RenderEdge writes one edge.
	RenderEdge(buf *bytes.Buffer, l Link)
	// RenderStar writes one node.
	RenderStar(buf *bytes.Buffer, s Star)
	// RenderLabel writes a node's label.
	RenderLabel(buf *bytes.Buffer, s Star)
	// CSS returns the style's rules for the interaction classes.
	CSS() string
}

// Star contains all data needed to render a node.
type Star struct {
	ID, Label    string
	Cluster      string
	Kind, Tier   string
	X, Y, R      float64
	Brightness   float64
	Fill, Stroke string
	URL          string
	Class        string // extra classes, e.g. "highlight"
}

// Link contains positioning data for an edge.
type Link struct {
	Source, Target string
	Kind           string
	X1, Y1, X2, Y2 float64
	Class          string
}

// Halo is the soft disc behind a cluster.
type Halo struct {
	Cluster, Label string
	X, Y, R        float64
	Color          string
	Index          int // position in the halos passed to RenderDefs
}

// StyleByName resolves a style name. The empty name is the galaxy style.
func StyleByName(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", graph.StyleGalaxy:
		return Galaxy{}, nil
	case graph.StyleSimple:
		return Simple{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)", name, graph.StyleGalaxy, graph.StyleSimple)
}

// EscapeXML escapes s for use in text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func starClass(s Star) string {
	c := fmt.Sprintf("star kind-%s tier-%s", s.Kind, s.Tier)
	if s.Class != "" {
		c += " " + s.Class
	}
	return c
}

func linkClass(l Link) string {
	c := "edge edge-" + l.Kind
	if l.Class != "" {
		c += " " + l.Class
	}
	return c
}

func labelClass(s Star) string {
	if s.Class != "" {
		return "label " + s.Class
	}
	return "label"
}

// wrapURL wraps fn's output in a link when url is set.
func wrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `    <a href="%s" target="_blank">`+"\n", EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("    </a>\n")
	}
}

const fontFamily = `'Inter', 'Helvetica Neue', Arial, sans-serif`

// interactionCSS is shared by every style.
const interactionCSS = `
    .star, .edge, .label { transition: opacity 0.25s ease; }
    .star { cursor: pointer; }
    .star.dim, .label.dim { opacity: 0.15; }
    .star.fog, .label.fog { opacity: 0.03; }
    .edge.dim { opacity: 0.05; }
    .edge.active { opacity: 1; }
    .particle { pointer-events: none; }`

// =============================================================================
// Galaxy
// =============================================================================

// Galaxy is the dark, glowing default style.
type Galaxy struct{}

func (Galaxy) Name() string       { return graph.StyleGalaxy }
func (Galaxy) Background() string { return "#05060f" }

func (Galaxy) RenderDefs(buf *bytes.Buffer, halos []Halo) {
	buf.WriteString(`    <filter id="glow" x="-100%" y="-100%" width="300%" height="300%">
      <feGaussianBlur stdDeviation="3" result="blur"/>
      <feMerge><feMergeNode in="blur"/><feMergeNode in="SourceGraphic"/></feMerge>
    </filter>
`)
	for _, h := range halos {
		fmt.Fprintf(buf, `    <radialGradient id="halo-%d"><stop offset="0%%" stop-color="%s" stop-opacity="0.22"/><stop offset="100%%" stop-color="%s" stop-opacity="0"/></radialGradient>`+"\n",
			h.Index, h.Color, h.Color)
	}
}

func (Galaxy) RenderHalo(buf *bytes.Buffer, h Halo) {
	fmt.Fprintf(buf, `    <circle class="halo" data-cluster="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="url(#halo-%d)"/>`+"\n",
		EscapeXML(h.Cluster), h.X, h.Y, h.R, h.Index)
}

func (Galaxy) RenderEdge(buf *bytes.Buffer, l Link) {
	dash := ""
	if l.Kind == "related" {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `    <line class="%s" data-source="%s" data-target="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#8892b0" stroke-opacity="0.35" stroke-width="1"%s/>`+"\n",
		linkClass(l), EscapeXML(l.Source), EscapeXML(l.Target), l.X1, l.Y1, l.X2, l.Y2, dash)
}

func (Galaxy) RenderStar(buf *bytes.Buffer, s Star) {
	filter := ""
	if s.Tier == "exceptional" {
		filter = ` filter="url(#glow)"`
	}
	wrapURL(buf, s.URL, func() {
		fmt.Fprintf(buf, `    <circle class="%s" data-id="%s" data-cluster="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="1"%s><title>%s</title></circle>`+"\n",
			starClass(s), EscapeXML(s.ID), EscapeXML(s.Cluster), s.X, s.Y, s.R, s.Fill, s.Brightness, s.Stroke, filter, EscapeXML(s.Label))
	})
}

func (Galaxy) RenderLabel(buf *bytes.Buffer, s Star) {
	fmt.Fprintf(buf, `    <text class="%s" data-for="%s" x="%.1f" y="%.1f" font-family="%s" font-size="10" fill="#e6e9f5" text-anchor="middle">%s</text>`+"\n",
		labelClass(s), EscapeXML(s.ID), s.X, s.Y+s.R+11, fontFamily, EscapeXML(s.Label))
}

func (Galaxy) CSS() string {
	return interactionCSS + `
    .star.highlight { stroke: #ffffff; stroke-width: 2; }
    .edge.active { stroke: #ffffff; stroke-opacity: 0.9; }
    .particle { fill: #ffffff; }
    .particle.overclock { fill: #ffd166; }`
}

// =============================================================================
// Simple
// =============================================================================

// Simple is a flat style on a light background.
type Simple struct{}

func (Simple) Name() string       { return graph.StyleSimple }
func (Simple) Background() string { return "#ffffff" }

func (Simple) RenderDefs(*bytes.Buffer, []Halo) {}

func (Simple) RenderHalo(buf *bytes.Buffer, h Halo) {
	fmt.Fprintf(buf, `    <circle class="halo" data-cluster="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.06" stroke="%s" stroke-opacity="0.3" stroke-dasharray="2 4"/>`+"\n",
		EscapeXML(h.Cluster), h.X, h.Y, h.R, h.Color, h.Color)
}

func (Simple) RenderEdge(buf *bytes.Buffer, l Link) {
	dash := ""
	if l.Kind == "related" {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `    <line class="%s" data-source="%s" data-target="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555555" stroke-opacity="0.5" stroke-width="1"%s/>`+"\n",
		linkClass(l), EscapeXML(l.Source), EscapeXML(l.Target), l.X1, l.Y1, l.X2, l.Y2, dash)
}

func (Simple) RenderStar(buf *bytes.Buffer, s Star) {
	wrapURL(buf, s.URL, func() {
		fmt.Fprintf(buf, `    <circle class="%s" data-id="%s" data-cluster="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f" stroke="#333333" stroke-width="1"><title>%s</title></circle>`+"\n",
			starClass(s), EscapeXML(s.ID), EscapeXML(s.Cluster), s.X, s.Y, s.R, s.Fill, max(s.Brightness, 0.25), EscapeXML(s.Label))
	})
}

func (Simple) RenderLabel(buf *bytes.Buffer, s Star) {
	fmt.Fprintf(buf, `    <text class="%s" data-for="%s" x="%.1f" y="%.1f" font-family="%s" font-size="10" fill="#222222" text-anchor="middle">%s</text>`+"\n",
		labelClass(s), EscapeXML(s.ID), s.X, s.Y+s.R+11, fontFamily, EscapeXML(s.Label))
}

func (Simple) CSS() string {
	return interactionCSS + `
    .star.highlight { stroke-width: 2.5; }
    .edge.active { stroke: #111111; stroke-opacity: 1; }
    .particle { fill: #111111; }
    .particle.overclock { fill: #d64933; }`
}
