package interact

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/build"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/layout"
)

// testGraph builds:
//
//	intro → ds → algo → compilers ⇢ kernel (repo)
//	                 ↘ os ⇢ kernel
//	os ⇢ thesis (portal)
//
// plus an isolated math course and a dynamic-programming topic needing algo.
func testGraph(t *testing.T) *galaxy.Graph {
	t.Helper()
	c := &catalog.Catalog{
		Root:    catalog.Root{ID: "me"},
		Mapping: catalog.Mapping{DefaultCluster: "cs", Portals: []string{"thesis"}, Overrides: map[string]string{"calc": "math"}},
		Clusters: []catalog.Cluster{
			{ID: "cs", Angle: 0, Radius: 300},
			{ID: "math", Angle: 180, Radius: 300},
		},
		Courses: []catalog.Course{
			{ID: "intro", Grade: "A"},
			{ID: "ds", Prerequisites: []string{"intro"}},
			{ID: "algo", Prerequisites: []string{"ds"}},
			{ID: "compilers", Prerequisites: []string{"algo"}, RelatedProjects: []string{"kernel"}},
			{ID: "os", Prerequisites: []string{"algo"}},
			{ID: "calc"},
		},
		Projects: []catalog.Project{
			{ID: "kernel", NodeType: "repo", RelatedCourses: []string{"os"}},
			{ID: "thesis", NodeType: "thesis", RelatedCourses: []string{"os"}},
		},
		Topics: []catalog.Topic{
			{Slug: "dp", Expected: 10, Prerequisites: []string{"algo"}},
		},
	}
	res, err := build.Build(c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := layout.Apply(res.Graph, layout.Options{}); err != nil {
		t.Fatal(err)
	}
	return res.Graph
}

func set(ids ...string) Set {
	var s Set
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func TestCollectUpstreamDownstream(t *testing.T) {
	idx := NewIndex(testGraph(t))

	tests := []struct {
		id       string
		up, down Set
	}{
		{"intro", nil, set("ds", "algo", "compilers", "os", "kernel", "thesis", "dp")},
		{"algo", set("ds", "intro"), set("compilers", "os", "kernel", "thesis", "dp")},
		{"kernel", set("compilers", "os", "algo", "ds", "intro"), nil},
		{"calc", nil, nil},
		{"ghost", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if diff := cmp.Diff(tt.up, idx.CollectUpstream(tt.id)); diff != "" {
				t.Errorf("upstream (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.down, idx.CollectDownstream(tt.id)); diff != "" {
				t.Errorf("downstream (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChainSymmetry(t *testing.T) {
	g := testGraph(t)
	idx := NewIndex(g)
	for _, a := range g.Nodes() {
		for b := range idx.CollectUpstream(a.ID) {
			if !idx.CollectDownstream(b).Has(a.ID) {
				t.Errorf("%s is upstream of %s but %s is not downstream of %s", b, a.ID, a.ID, b)
			}
		}
	}
}

func TestCollectChain(t *testing.T) {
	idx := NewIndex(testGraph(t))

	got := idx.CollectChain("os")
	want := set("os", "algo", "ds", "intro", "kernel", "thesis")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectChain(os) (-want +got):\n%s", diff)
	}
	if got := idx.CollectChain("calc"); !cmp.Equal(got, set("calc")) {
		t.Errorf("isolated chain = %v", got.Sorted())
	}
	if got := idx.CollectChain("ghost"); got.Len() != 0 {
		t.Errorf("unknown chain = %v", got.Sorted())
	}
}

func TestCollectChainCycle(t *testing.T) {
	g := galaxy.New()
	_ = g.AddCluster(galaxy.Cluster{ID: "c"})
	for _, id := range []string{"a", "b", "c1"} {
		_ = g.AddNode(galaxy.Node{ID: id, Kind: galaxy.KindCourse, Cluster: "c"})
	}
	_ = g.AddEdge(galaxy.Edge{Source: "a", Target: "b", Kind: galaxy.EdgePrerequisite})
	_ = g.AddEdge(galaxy.Edge{Source: "b", Target: "c1", Kind: galaxy.EdgePrerequisite})
	_ = g.AddEdge(galaxy.Edge{Source: "c1", Target: "a", Kind: galaxy.EdgePrerequisite})

	idx := NewIndex(g)
	if diff := cmp.Diff(set("b", "c1"), idx.CollectUpstream("a")); diff != "" {
		t.Errorf("upstream on cycle (-want +got):\n%s", diff)
	}
}

func TestRelatedIntoNonWorkIgnored(t *testing.T) {
	g := galaxy.New()
	_ = g.AddCluster(galaxy.Cluster{ID: "c"})
	_ = g.AddNode(galaxy.Node{ID: "x", Kind: galaxy.KindCourse, Cluster: "c"})
	_ = g.AddNode(galaxy.Node{ID: "y", Kind: galaxy.KindCourse, Cluster: "c"})
	_ = g.AddEdge(galaxy.Edge{Source: "x", Target: "y", Kind: galaxy.EdgeRelated})

	if got := NewIndex(g).CollectUpstream("y"); got.Len() != 0 {
		t.Errorf("upstream(y) = %v, want empty", got.Sorted())
	}
}

func TestCollectOverclockTargets(t *testing.T) {
	idx := NewIndex(testGraph(t))

	tests := []struct {
		id   string
		want Set
	}{
		{"kernel", set("compilers", "os", "algo")},
		{"thesis", set("os", "algo")},
		{"os", nil},
		{"dp", nil},
		{"ghost", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, idx.CollectOverclockTargets(tt.id)); diff != "" {
			t.Errorf("CollectOverclockTargets(%s) (-want +got):\n%s", tt.id, diff)
		}
	}
}

func TestOverclockRelatedCourse(t *testing.T) {
	c := &catalog.Catalog{
		Root:     catalog.Root{ID: "me"},
		Clusters: []catalog.Cluster{{ID: "misc"}},
		Courses:  []catalog.Course{{ID: "C1", Grade: "A+"}},
		Projects: []catalog.Project{{ID: "P1", RelatedCourses: []string{"C1"}}},
	}
	res, err := build.Build(c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c1, _ := res.Graph.Node("C1")
	if c1.Mastery != 1 || c1.Tier != galaxy.TierExceptional {
		t.Errorf("C1 mastery=%v tier=%v", c1.Mastery, c1.Tier)
	}
	got := NewIndex(res.Graph).CollectOverclockTargets("P1")
	if diff := cmp.Diff(set("C1"), got); diff != "" {
		t.Errorf("overclock(P1) (-want +got):\n%s", diff)
	}
}

func TestEngineFocusPriority(t *testing.T) {
	e := NewEngine(NewIndex(testGraph(t)))

	s := e.OnHover("os")
	if s.Focus != "os" || s.FogCluster != "cs" || !s.Chain.Has("intro") {
		t.Fatalf("hover os: %+v", s)
	}

	s = e.OnSelect("calc")
	if s.Focus != "calc" || s.Hovered != "os" {
		t.Fatalf("select calc: focus=%q hovered=%q", s.Focus, s.Hovered)
	}

	s = e.OnHover("")
	if s.Focus != "calc" {
		t.Errorf("hover null kept focus %q, want calc", s.Focus)
	}

	s = e.OnHover("ghost")
	if s.Hovered != "" || s.Focus != "calc" {
		t.Errorf("unknown hover: %+v", s)
	}

	s = e.OnSelect("")
	if !s.Idle() {
		t.Errorf("deselect without hover should be idle, got focus %q", s.Focus)
	}
}

func TestEngineIdempotentClear(t *testing.T) {
	e := NewEngine(NewIndex(testGraph(t)))
	e.OnHover("algo")
	e.OnSelect("kernel")

	first := e.OnClear()
	second := e.OnClear()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second clear differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(State{}, first); diff != "" {
		t.Errorf("clear is not idle (-want +got):\n%s", diff)
	}
}

func TestNodeAndEdgeClasses(t *testing.T) {
	g := testGraph(t)
	e := NewEngine(NewIndex(g))

	idle := e.State()
	for _, n := range g.Nodes() {
		if c := idle.NodeClass(n); c != NodeNormal {
			t.Errorf("idle %s = %s", n.ID, c)
		}
	}

	s := e.OnSelect("os")
	classes := s.Classes(g)
	want := map[string]NodeClass{
		"os":        NodeNormal,
		"algo":      NodeHighlighted,
		"kernel":    NodeHighlighted,
		"compilers": NodeDimmed,
		"calc":      NodeDimmed,
		"me":        NodeDimmed,
	}
	for id, c := range want {
		if classes[id] != c {
			t.Errorf("class(%s) = %s, want %s", id, classes[id], c)
		}
	}

	if c := s.EdgeClass(galaxy.Edge{Source: "algo", Target: "os", Kind: galaxy.EdgePrerequisite}); c != EdgeActive {
		t.Errorf("algo→os = %s, want active", c)
	}
	if c := s.EdgeClass(galaxy.Edge{Source: "compilers", Target: "kernel", Kind: galaxy.EdgeRelated}); c != EdgeDimmed {
		t.Errorf("compilers→kernel = %s, want dimmed", c)
	}
}

func TestFog(t *testing.T) {
	g := testGraph(t)
	e := NewEngine(NewIndex(g), WithFog(true))
	s := e.OnHover("os")

	tests := map[string]NodeClass{
		"calc":      NodeFogged,      // other cluster, not in chain
		"math":      NodeFogged,      // other cluster hub
		"compilers": NodeDimmed,      // same cluster, not in chain
		"me":        NodeDimmed,      // root is never fogged
		"algo":      NodeHighlighted, // chain members are exempt
	}
	for id, want := range tests {
		n, _ := g.Node(id)
		if got := s.NodeClass(n); got != want {
			t.Errorf("%s = %s, want %s", id, got, want)
		}
	}

	s = e.SetFog(false)
	n, _ := g.Node("calc")
	if got := s.NodeClass(n); got != NodeDimmed {
		t.Errorf("fog off: calc = %s", got)
	}
}

func TestStateJSON(t *testing.T) {
	e := NewEngine(NewIndex(testGraph(t)))
	data, err := json.Marshal(e.OnSelect("thesis"))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Focus     string   `json:"focus"`
		Overclock []string `json:"overclock"`
		Down      []string `json:"downstream"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Focus != "thesis" || !cmp.Equal(got.Overclock, []string{"algo", "os"}) || !cmp.Equal(got.Down, []string{}) {
		t.Errorf("json = %s", data)
	}

	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Overclock.Has("os") {
		t.Errorf("decoded overclock = %v", back.Overclock.Sorted())
	}
}

func TestAnimator(t *testing.T) {
	g := testGraph(t)
	e := NewEngine(NewIndex(g))
	a := NewAnimator(g)

	a.Start(e.State())
	if a.Running() {
		t.Fatal("idle state spawned particles")
	}

	s := e.OnSelect("thesis")
	a.Start(s)

	var active int
	for _, edge := range g.Edges() {
		if s.EdgeClass(edge) == EdgeActive {
			active++
		}
	}
	wantN := (active + s.Overclock.Len()) * ParticlesPerEdge
	if got := len(a.Particles()); got != wantN {
		t.Fatalf("particles = %d, want %d", got, wantN)
	}

	var overclock int
	for _, p := range a.Particles() {
		if p.Overclock {
			overclock++
			if p.To != "thesis" {
				t.Errorf("overclock particle flows %s→%s, want toward focus", p.From, p.To)
			}
		}
	}
	if overclock != 2*ParticlesPerEdge {
		t.Errorf("overclock particles = %d", overclock)
	}

	before := a.Particles()[0].T
	a.Tick(Period / 4)
	if got := a.Particles()[0].T; math.Abs(got-(before+0.25)) > 1e-9 {
		t.Errorf("T after quarter period = %v, want %v", got, before+0.25)
	}
	a.Tick(Period)
	for _, p := range a.Particles() {
		if p.T < 0 || p.T >= 1 {
			t.Fatalf("T = %v out of [0,1)", p.T)
		}
	}

	for _, sp := range a.Frame() {
		if sp.Opacity < 0 || sp.Opacity > 1 {
			t.Errorf("opacity %v out of range", sp.Opacity)
		}
	}

	a.Stop()
	if a.Running() || len(a.Frame()) != 0 {
		t.Error("Stop left particles behind")
	}
	a.Tick(time.Second)
}
