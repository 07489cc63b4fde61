package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/internal/server"
	"github.com/matzehuels/skillgalaxy/pkg/core/render/sink"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
	"github.com/matzehuels/skillgalaxy/pkg/session"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	sessions string
	title    string
	labels   bool
}

// serveCommand creates the serve command for the HTTP interaction API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts  serveOpts
		flags galaxyFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [catalog|layout.json]",
		Short: "Serve a galaxy and its interaction API over HTTP",
		Long: `Serve a galaxy and its interaction API over HTTP.

The server exposes the positioned graph as JSON, the interactive SVG, per-node
chains, and session endpoints that replay hover, select, clear and fog events
into highlight snapshots. Sessions live in memory unless --sessions names a
directory, in which case they are stored as JSON files there.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr == "" {
				opts.addr = c.config().Server.Addr
			}
			return c.runServe(cmd.Context(), args[0], &opts, &flags)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.sessions, "sessions", "", "directory for session files (default: in memory)")
	cmd.Flags().StringVar(&opts.title, "title", "", "heading above the galaxy")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label every star")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts *serveOpts, flags *galaxyFlags) error {
	spinner := newSpinnerWithContext(ctx, "Building galaxy...")
	spinner.Start()

	p, err := c.loadPositioned(ctx, input, flags)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Update("Starting server...")

	cfg := c.config()
	styleName := cfg.Render.Style
	if styleName == graph.StyleNodeLink {
		c.Logger.Warn("nodelink drawings are static, serving the galaxy style")
		styleName = graph.StyleGalaxy
	}
	style, err := sink.StyleByName(styleName)
	if err != nil {
		spinner.StopWithError("Server setup failed")
		return err
	}

	var store session.Store = session.NewMemoryStore()
	if opts.sessions != "" {
		fs, err := session.NewFileStore(opts.sessions)
		if err != nil {
			spinner.StopWithError("Server setup failed")
			return fmt.Errorf("open session store: %w", err)
		}
		store = fs
	}
	defer store.Close()

	srv, err := server.New(p.Graph, p.Layout,
		server.WithStore(store),
		server.WithLogger(c.Logger),
		server.WithStyle(style),
		server.WithTitle(opts.title),
		server.WithFog(cfg.Render.Fog),
		server.WithLabels(opts.labels),
	)
	if err != nil {
		spinner.StopWithError("Server setup failed")
		return err
	}
	spinner.Stop()

	out := c.printer()
	out.success("Serving %d stars", p.Graph.NodeCount())
	out.keyValue("galaxy", "http://"+displayAddr(opts.addr)+"/galaxy.svg")
	out.keyValue("api", "http://"+displayAddr(opts.addr)+"/api/galaxy")

	if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
		return err
	}
	// Interrupts end the server cleanly; report them like any other
	// cancelled command.
	return ctx.Err()
}

// displayAddr turns a listen address like ":8080" into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
