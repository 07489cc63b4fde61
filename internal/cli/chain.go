package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

// Chain roles, in display order.
const (
	roleFocus      = "focus"
	roleUpstream   = "upstream"
	roleDownstream = "downstream"
	roleOverclock  = "overclock"
)

// chainCommand creates the chain command for inspecting one node.
func (c *CLI) chainCommand() *cobra.Command {
	var flags galaxyFlags

	cmd := &cobra.Command{
		Use:   "chain [catalog|layout.json] [node-id]",
		Short: "Show the knowledge chain of a node",
		Long: `Show the knowledge chain of a node.

Lists everything the node transitively draws on (upstream), everything that
builds on it (downstream), and for projects and portals the courses their
related work overclocks. This is the set a hover highlights in the SVG.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeChainArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChain(cmd.Context(), args[0], args[1], &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runChain(ctx context.Context, input, id string, flags *galaxyFlags) error {
	p, err := c.loadPositioned(ctx, input, flags)
	if err != nil {
		return err
	}
	if !p.Graph.HasNode(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found in %s", id, input)
	}

	st := interact.NewEngine(interact.NewIndex(p.Graph)).OnSelect(id)
	fmt.Fprintln(c.Out, chainTable(p.Graph, st))
	fmt.Fprintln(c.Out, StyleDim.Render(fmt.Sprintf("%d upstream · %d downstream · %d overclocked",
		st.Upstream.Len(), st.Downstream.Len(), st.Overclock.Len())))
	return nil
}

// chainRows lists the focus, then upstream, downstream and overclock
// members, each group sorted by id. A node can appear under several roles.
func chainRows(g *galaxy.Graph, st interact.State) [][]string {
	groups := []struct {
		role string
		ids  []string
	}{
		{roleFocus, []string{st.Focus}},
		{roleUpstream, st.Upstream.Sorted()},
		{roleDownstream, st.Downstream.Sorted()},
		{roleOverclock, st.Overclock.Sorted()},
	}

	var rows [][]string
	for _, grp := range groups {
		for _, id := range grp.ids {
			n, ok := g.Node(id)
			if !ok {
				continue
			}
			rows = append(rows, []string{
				grp.role,
				id,
				displayName(n),
				string(n.Kind),
				n.Cluster,
				string(n.Tier),
				fmt.Sprintf("%.2f", n.Mastery),
			})
		}
	}
	return rows
}

func chainTable(g *galaxy.Graph, st interact.State) string {
	rows := chainRows(g, st)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Role", "ID", "Name", "Kind", "Cluster", "Tier", "Mastery").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			switch rows[row][0] {
			case roleFocus:
				return StyleHighlight.Bold(true)
			case roleOverclock:
				return StyleWarning
			}
			if col == 2 {
				n, _ := g.Node(rows[row][1])
				return tierStyle(n.Tier)
			}
			return StyleValue
		}).
		Render()
}

// displayName returns the node name, or its id when unnamed.
func displayName(n *galaxy.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
