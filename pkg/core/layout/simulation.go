package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// simulation relaxes one (cluster, layer) group.
type simulation struct {
	anchor Point
	target float64 // band midpoint, scaled
	pos    []Point
	vel    []Point
	radius []float64
	margin float64
	rng    *rand.Rand
}

func newSimulation(nodes []*galaxy.Node, anchor Point, band Band, scale float64, opts Options, groupSeed uint64) *simulation {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^groupSeed))
	s := &simulation{
		anchor: anchor,
		target: band.Mid() * scale,
		pos:    make([]Point, len(nodes)),
		vel:    make([]Point, len(nodes)),
		radius: make([]float64, len(nodes)),
		margin: opts.Margin,
		rng:    rng,
	}
	for i, n := range nodes {
		theta := rng.Float64() * 2 * math.Pi
		r := s.target * (1 + (rng.Float64()*2-1)*jitter)
		s.pos[i] = anchor.add(Point{math.Cos(theta) * r, math.Sin(theta) * r})
		s.radius[i] = n.Radius
	}
	return s
}

// run cools alpha from 1 to alphaMin over iterations ticks, then resolves
// any remaining overlap.
func (s *simulation) run(iterations int) {
	alpha := 1.0
	decay := 1 - math.Pow(alphaMin, 1/float64(iterations))
	for range iterations {
		s.tick(alpha)
		alpha -= alpha * decay
	}
	for range settlePasses {
		if !s.resolveCollisions() {
			break
		}
	}
}

func (s *simulation) tick(alpha float64) {
	// Centering: shift the group's centroid toward the anchor.
	var c Point
	for _, p := range s.pos {
		c = c.add(p)
	}
	c = c.scale(1 / float64(len(s.pos)))
	shift := s.anchor.sub(c).scale(CenterStrength * alpha)

	for i, p := range s.pos {
		v := s.vel[i].add(shift)

		// Radial: toward the band midpoint along the anchor ray.
		d := p.sub(s.anchor)
		if l := d.length(); l > 1e-9 {
			v = v.add(d.scale((s.target - l) / l * RadialStrength * alpha))
		}
		s.vel[i] = v.scale(Friction)
		s.pos[i] = p.add(s.vel[i])
	}
	s.resolveCollisions()
}

// resolveCollisions pushes every overlapping pair apart by the full overlap,
// split evenly. It reports whether any pair overlapped.
func (s *simulation) resolveCollisions() bool {
	moved := false
	for i := range s.pos {
		for j := i + 1; j < len(s.pos); j++ {
			r := s.radius[i] + s.radius[j] + 2*s.margin
			d := s.pos[j].sub(s.pos[i])
			l := d.length()
			if l >= r {
				continue
			}
			if l < 1e-9 {
				theta := s.rng.Float64() * 2 * math.Pi
				d, l = Point{math.Cos(theta), math.Sin(theta)}, 1
			}
			push := d.scale((r - l) / l / 2)
			s.pos[i] = s.pos[i].sub(push)
			s.pos[j] = s.pos[j].add(push)
			moved = true
		}
	}
	return moved
}

// separated counts pairs whose centers are at least the sum of their node
// radii apart, within overlapTolerance. The margin is not required.
func (s *simulation) separated() (ok, total int) {
	for i := range s.pos {
		for j := i + 1; j < len(s.pos); j++ {
			total++
			if s.pos[i].dist(s.pos[j]) >= s.radius[i]+s.radius[j]-overlapTolerance {
				ok++
			}
		}
	}
	return ok, total
}
