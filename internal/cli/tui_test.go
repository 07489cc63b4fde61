package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/build"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
	"github.com/matzehuels/skillgalaxy/pkg/core/layout"
)

// testGalaxy builds intro → algo → compilers ⇢ kernel, with algo → os.
func testGalaxy(t *testing.T) *galaxy.Graph {
	t.Helper()
	c := &catalog.Catalog{
		Root:     catalog.Root{ID: "me"},
		Mapping:  catalog.Mapping{DefaultCluster: "cs"},
		Clusters: []catalog.Cluster{{ID: "cs", Angle: 0, Radius: 300}},
		Courses: []catalog.Course{
			{ID: "intro", Grade: "A"},
			{ID: "algo", Prerequisites: []string{"intro"}},
			{ID: "compilers", Prerequisites: []string{"algo"}, RelatedProjects: []string{"kernel"}},
			{ID: "os", Prerequisites: []string{"algo"}},
		},
		Projects: []catalog.Project{{ID: "kernel", NodeType: "repo"}},
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

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m ExploreModel, keys ...string) ExploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ExploreModel)
	}
	return m
}

func cursorAt(t *testing.T, m ExploreModel, id string) ExploreModel {
	t.Helper()
	i := slices.IndexFunc(m.Nodes, func(n *galaxy.Node) bool { return n.ID == id })
	if i < 0 {
		t.Fatalf("node %q not listed", id)
	}
	m.Cursor = i
	return m
}

func TestExploreModelSelect(t *testing.T) {
	m := cursorAt(t, NewExploreModel(testGalaxy(t), false), "algo")

	m = press(t, m, "enter")
	if m.State.Selected != "algo" || m.State.Focus != "algo" {
		t.Fatalf("after enter: selected=%q focus=%q", m.State.Selected, m.State.Focus)
	}
	if !m.State.Upstream.Has("intro") || !m.State.Downstream.Has("compilers") {
		t.Errorf("chain: up=%v down=%v", m.State.Upstream.Sorted(), m.State.Downstream.Sorted())
	}
	if !m.Animator.Running() {
		t.Error("selecting a chained node should start flow particles")
	}

	m = press(t, m, "enter")
	if m.State.Selected != "" {
		t.Errorf("second enter should unpin, selected=%q", m.State.Selected)
	}
}

func TestExploreModelHoverFollowsCursor(t *testing.T) {
	m := NewExploreModel(testGalaxy(t), false)
	if !m.State.Idle() {
		t.Fatal("new model should be idle")
	}

	m = press(t, m, "j")
	if m.Cursor != 1 || m.State.Hovered != m.Nodes[1].ID {
		t.Errorf("after j: cursor=%d hovered=%q", m.Cursor, m.State.Hovered)
	}
	m = press(t, m, "k", "k")
	if m.Cursor != 0 || m.State.Hovered != m.Nodes[0].ID {
		t.Errorf("after k k: cursor=%d hovered=%q", m.Cursor, m.State.Hovered)
	}

	m = press(t, m, "esc")
	if !m.State.Idle() {
		t.Error("esc should clear")
	}
}

func TestExploreModelFog(t *testing.T) {
	m := NewExploreModel(testGalaxy(t), true)
	if !m.State.Fog {
		t.Fatal("fog flag not applied")
	}
	m = press(t, m, "f")
	if m.State.Fog {
		t.Error("f should toggle fog off")
	}
	if !strings.Contains(m.View(), "fog off") {
		t.Error("status line should report fog")
	}
}

func TestExploreModelCommands(t *testing.T) {
	m := NewExploreModel(testGalaxy(t), false)
	if m.Init() == nil {
		t.Error("Init should schedule a tick")
	}

	_, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("tick should reschedule")
	}

	_, cmd = m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if h := next.(ExploreModel).Height; h != 22 {
		t.Errorf("Height = %d, want 22", h)
	}
}

func TestChainRows(t *testing.T) {
	g := testGalaxy(t)
	st := interact.NewEngine(interact.NewIndex(g)).OnSelect("algo")

	rows := chainRows(g, st)
	if len(rows) == 0 || rows[0][0] != roleFocus || rows[0][1] != "algo" {
		t.Fatalf("first row = %v", rows)
	}

	roles := map[string]string{}
	for _, r := range rows[1:] {
		roles[r[1]] = r[0]
	}
	for id, want := range map[string]string{"intro": roleUpstream, "compilers": roleDownstream, "os": roleDownstream} {
		if roles[id] != want {
			t.Errorf("%s role = %q, want %q", id, roles[id], want)
		}
	}
	if len(rows[0]) != 7 {
		t.Errorf("row has %d columns, want 7", len(rows[0]))
	}
}
