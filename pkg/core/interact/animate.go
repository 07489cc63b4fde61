package interact

import (
	"math"
	"time"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

const (
	// ParticlesPerEdge is the number of particles spawned per flowing link.
	ParticlesPerEdge = 3

	// Period is the time one particle takes to travel a link.
	Period = 1600 * time.Millisecond
)

// Particle travels from one node to another. T is its looping progress in
// [0, 1).
type Particle struct {
	From, To  string
	Overclock bool
	T         float64
}

// Sprite is a particle resolved to a drawable position.
type Sprite struct {
	X, Y      float64
	Opacity   float64
	Overclock bool
}

// Animator drives flow particles for one state at a time.
type Animator struct {
	g         *galaxy.Graph
	particles []Particle
}

// NewAnimator returns a stopped animator over a positioned graph.
func NewAnimator(g *galaxy.Graph) *Animator { return &Animator{g: g} }

// Start replaces any running particles with the ones for s: forward along
// every active edge, and from each overclock target back to the focus.
func (a *Animator) Start(s State) {
	a.Stop()
	if s.Idle() {
		return
	}
	for _, e := range a.g.Edges() {
		if s.EdgeClass(e) == EdgeActive {
			a.spawn(e.Source, e.Target, false)
		}
	}
	for _, id := range s.Overclock.Sorted() {
		a.spawn(id, s.Focus, true)
	}
}

func (a *Animator) spawn(from, to string, overclock bool) {
	for i := range ParticlesPerEdge {
		a.particles = append(a.particles, Particle{
			From:      from,
			To:        to,
			Overclock: overclock,
			T:         float64(i) / ParticlesPerEdge,
		})
	}
}

// Tick advances every particle by dt.
func (a *Animator) Tick(dt time.Duration) {
	step := dt.Seconds() / Period.Seconds()
	for i := range a.particles {
		t := a.particles[i].T + step
		a.particles[i].T = t - math.Floor(t)
	}
}

// Particles returns the running particles.
func (a *Animator) Particles() []Particle { return a.particles }

// Running reports whether any particle is alive.
func (a *Animator) Running() bool { return len(a.particles) > 0 }

// Frame interpolates every particle between its endpoints. Opacity peaks
// mid-flight.
func (a *Animator) Frame() []Sprite {
	out := make([]Sprite, 0, len(a.particles))
	for _, p := range a.particles {
		from, ok1 := a.g.Node(p.From)
		to, ok2 := a.g.Node(p.To)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Sprite{
			X:         from.X + (to.X-from.X)*p.T,
			Y:         from.Y + (to.Y-from.Y)*p.T,
			Opacity:   math.Sin(math.Pi * p.T),
			Overclock: p.Overclock,
		})
	}
	return out
}

// Stop removes every particle.
func (a *Animator) Stop() { a.particles = nil }
