package layout

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// ReferenceSize is the viewport edge authored units are measured against.
	ReferenceSize = 1000.0

	DefaultWidth      = 1200.0
	DefaultHeight     = 900.0
	DefaultIterations = 120
	DefaultSeed       = uint64(42)
	DefaultMargin     = 2.0

	// CenterStrength and RadialStrength are multiplied by alpha each tick.
	// The radial pull must dominate so bands hold.
	CenterStrength = 0.02
	RadialStrength = 0.12

	// Friction is the fraction of velocity kept per tick.
	Friction = 0.6

	alphaMin = 0.001

	// jitter is the relative spread of seed radii around a band midpoint.
	jitter = 0.1

	// settlePasses bounds the collision-only passes run after cooling.
	settlePasses = 60

	// overlapTolerance is the slack used when scoring non-overlap.
	overlapTolerance = 0.5
)

// Band is a radial interval around a cluster anchor, in authored units.
type Band struct {
	Min, Max float64
}

// Mid returns the band's midpoint radius.
func (b Band) Mid() float64 { return (b.Min + b.Max) / 2 }

// Bands maps each relaxed layer to its band.
var Bands = map[galaxy.Layer]Band{
	galaxy.LayerSpecial: {30, 50},
	galaxy.LayerInner:   {60, 100},
	galaxy.LayerMid:     {110, 150},
	galaxy.LayerOuter:   {160, 215},
}

// BandFor returns the band of a layer, defaulting to the innermost band.
func BandFor(l galaxy.Layer) Band {
	if b, ok := Bands[l]; ok {
		return b
	}
	return Bands[galaxy.LayerSpecial]
}

// =============================================================================
// Types
// =============================================================================

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

func (p Point) add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) length() float64       { return math.Hypot(p.X, p.Y) }
func (p Point) dist(q Point) float64  { return p.sub(q).length() }

// Options configures [Apply]. Zero fields take the package defaults.
type Options struct {
	Width      float64
	Height     float64
	Iterations int
	Seed       uint64
	Margin     float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	return o
}

// Scale returns the global scale for the options' viewport.
func (o Options) Scale() float64 {
	o = o.withDefaults()
	return min(o.Width, o.Height) / ReferenceSize
}

// Group summarizes one relaxed (cluster, layer) group.
type Group struct {
	Cluster string
	Layer   galaxy.Layer
	Band    Band
	Size    int
	Quality float64
}

// Result describes a completed layout.
type Result struct {
	Scale      float64
	Anchors    map[string]Point
	Groups     []Group
	Iterations int
	// Quality is the fraction of same-group node pairs that do not overlap
	// (1 when there are no pairs).
	Quality float64
}

// =============================================================================
// Anchors
// =============================================================================

// Anchor returns the fixed position of a cluster: its authored polar
// coordinates (angle in radians) converted to Cartesian and scaled.
func Anchor(c galaxy.Cluster, scale float64) Point {
	r := c.Radius * scale
	return Point{X: math.Cos(c.Angle) * r, Y: math.Sin(c.Angle) * r}
}

// Anchors returns the anchor of every cluster, including the core cluster
// at the origin.
func Anchors(g *galaxy.Graph, scale float64) map[string]Point {
	out := map[string]Point{galaxy.CoreCluster: {}}
	for _, c := range g.Clusters() {
		out[c.ID] = Anchor(c, scale)
	}
	return out
}

// =============================================================================
// Apply
// =============================================================================

// Apply positions every node of g and commits the positions.
func Apply(g *galaxy.Graph, opts Options) (Result, error) {
	opts = opts.withDefaults()
	scale := opts.Scale()
	anchors := Anchors(g, scale)

	res := Result{Scale: scale, Anchors: anchors, Iterations: opts.Iterations}

	type key struct {
		cluster string
		layer   galaxy.Layer
	}
	groups := map[key][]*galaxy.Node{}
	var pinned []*galaxy.Node
	for _, n := range g.Nodes() {
		if n.Kind.IsPinned() {
			pinned = append(pinned, n)
			continue
		}
		groups[key{n.Cluster, n.Layer}] = append(groups[key{n.Cluster, n.Layer}], n)
	}

	for _, n := range pinned {
		p := anchors[n.Cluster]
		if n.Kind == galaxy.KindRoot {
			p = Point{}
		}
		if err := g.Place(n.ID, p.X, p.Y); err != nil {
			return Result{}, fmt.Errorf("place %q: %w", n.ID, err)
		}
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(strings.Compare(a.cluster, b.cluster), strings.Compare(string(a.layer), string(b.layer)))
	})

	var ok, total int
	for _, k := range keys {
		nodes := groups[k]
		if len(nodes) == 0 {
			continue
		}
		band := BandFor(k.layer)
		sim := newSimulation(nodes, anchors[k.cluster], band, scale, opts, groupSeed(k.cluster, string(k.layer)))
		sim.run(opts.Iterations)

		for i, n := range nodes {
			if err := g.Place(n.ID, sim.pos[i].X, sim.pos[i].Y); err != nil {
				return Result{}, fmt.Errorf("place %q: %w", n.ID, err)
			}
		}

		gOK, gTotal := sim.separated()
		ok, total = ok+gOK, total+gTotal
		res.Groups = append(res.Groups, Group{
			Cluster: k.cluster,
			Layer:   k.layer,
			Band:    band,
			Size:    len(nodes),
			Quality: ratio(gOK, gTotal),
		})
	}
	res.Quality = ratio(ok, total)
	return res, nil
}

func ratio(ok, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(ok) / float64(total)
}

// groupSeed hashes a group's identity into the second PCG seed word.
func groupSeed(cluster, layer string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(cluster))
	h.Write([]byte{0})
	h.Write([]byte(layer))
	return h.Sum64()
}
