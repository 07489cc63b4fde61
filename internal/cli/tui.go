package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
)

// frameInterval is the animation tick of the explorer.
const frameInterval = 50 * time.Millisecond

// flowWidth is the number of cells in a rendered particle track.
const flowWidth = 16

// List styles
var (
	listCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			MarginLeft(2)
	overclockStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// tierGlyphs draw a star by tier.
var tierGlyphs = map[galaxy.Tier]string{
	galaxy.TierExceptional: "✦",
	galaxy.TierTypical:     "★",
	galaxy.TierMinimal:     "·",
	galaxy.TierUnexplored:  "○",
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// ExploreModel - Interactive galaxy browser
// =============================================================================

// ExploreModel is the bubbletea model for browsing a galaxy. Moving the
// cursor hovers a node, enter pins it as the selection, esc clears and f
// toggles fog. Flow particles animate along the highlighted chain.
type ExploreModel struct {
	Graph    *galaxy.Graph
	Engine   *interact.Engine
	Animator *interact.Animator
	Nodes    []*galaxy.Node
	State    interact.State
	Cursor   int
	Height   int
	Offset   int
}

// NewExploreModel creates an explorer over a positioned graph.
func NewExploreModel(g *galaxy.Graph, fog bool) ExploreModel {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *galaxy.Node) int {
		return cmp.Or(
			cmp.Compare(a.Cluster, b.Cluster),
			cmp.Compare(kindRank(a.Kind), kindRank(b.Kind)),
			cmp.Compare(a.ID, b.ID),
		)
	})
	e := interact.NewEngine(interact.NewIndex(g), interact.WithFog(fog))
	return ExploreModel{
		Graph:    g,
		Engine:   e,
		Animator: interact.NewAnimator(g),
		Nodes:    nodes,
		State:    e.State(),
		Height:   15,
	}
}

// kindRank orders the list: structure first, then coursework, then work.
func kindRank(k galaxy.Kind) int {
	switch k {
	case galaxy.KindRoot:
		return 0
	case galaxy.KindCluster:
		return 1
	case galaxy.KindCourse:
		return 2
	case galaxy.KindTopic:
		return 3
	case galaxy.KindPlaceholder:
		return 5
	}
	return 4
}

func (m ExploreModel) Init() tea.Cmd {
	return tick()
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
			m.apply(m.Engine.OnHover(m.current()))
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
			m.apply(m.Engine.OnHover(m.current()))
		case "enter", " ":
			id := m.current()
			if m.State.Selected == id {
				id = ""
			}
			m.apply(m.Engine.OnSelect(id))
		case "esc":
			m.apply(m.Engine.OnClear())
		case "f":
			m.apply(m.Engine.SetFog(!m.State.Fog))
		}
	case tickMsg:
		m.Animator.Tick(frameInterval)
		return m, tick()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *ExploreModel) apply(st interact.State) {
	m.State = st
	m.Animator.Start(st)
}

func (m ExploreModel) current() string {
	if len(m.Nodes) == 0 {
		return ""
	}
	return m.Nodes[m.Cursor].ID
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Skill Galaxy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ hover  ⏎ select  esc clear  f fog  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), m.detailView()))
	b.WriteString("\n\n")

	fog := "off"
	if m.State.Fog {
		fog = "on"
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  fog %s", m.Cursor+1, len(m.Nodes), fog)))
	return b.String()
}

func (m ExploreModel) listView() string {
	var b strings.Builder
	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = listCursorStyle.Render("▸ ")
		}

		glyph := tierGlyphs[n.Tier]
		if glyph == "" {
			glyph = "◎"
		}
		name := fmt.Sprintf("%s %-28s", glyph, truncate(displayName(n), 28))

		style := classStyles[m.State.NodeClass(n)]
		if n.ID == m.State.Focus {
			style = listCursorStyle
		}
		line := cursor + style.Render(name) + " " + listDimStyle.Render(fmt.Sprintf("%-11s %s", n.Kind, n.Cluster))
		if m.State.Overclock.Has(n.ID) {
			line += " " + overclockStyle.Render("»")
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m ExploreModel) detailView() string {
	if m.State.Idle() {
		return panelStyle.Render(listDimStyle.Render("nothing focused"))
	}
	n, ok := m.Graph.Node(m.State.Focus)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(tierStyle(n.Tier).Render(displayName(n)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s · %s", n.Kind, n.Cluster, n.Layer)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "mastery    %.2f\n", n.Mastery)
	fmt.Fprintf(&b, "tier       %s\n", n.Tier)
	fmt.Fprintf(&b, "upstream   %d\n", m.State.Upstream.Len())
	fmt.Fprintf(&b, "downstream %d\n", m.State.Downstream.Len())
	if m.State.Overclock.Len() > 0 {
		b.WriteString(overclockStyle.Render("overclocks " + strings.Join(m.State.Overclock.Sorted(), ", ")))
		b.WriteString("\n")
	}
	if m.State.Selected != "" {
		b.WriteString(listDimStyle.Render("pinned"))
		b.WriteString("\n")
	}

	if flows := m.flowView(); flows != "" {
		b.WriteString("\n")
		b.WriteString(flows)
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// flowView draws the first particle of up to three links as a moving dot.
func (m ExploreModel) flowView() string {
	var (
		b    strings.Builder
		seen = map[[2]string]bool{}
	)
	for _, p := range m.Animator.Particles() {
		key := [2]string{p.From, p.To}
		if seen[key] || len(seen) == 3 {
			continue
		}
		seen[key] = true

		track := []rune(strings.Repeat("─", flowWidth))
		track[min(int(p.T*flowWidth), flowWidth-1)] = '●'
		style := StyleSuccess
		if p.Overclock {
			style = overclockStyle
		}
		fmt.Fprintf(&b, "%s %s %s\n", truncate(p.From, 10), style.Render(string(track)), truncate(p.To, 10))
	}
	return b.String()
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
