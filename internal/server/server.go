package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
	"github.com/matzehuels/skillgalaxy/pkg/core/render/sink"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
	"github.com/matzehuels/skillgalaxy/pkg/observability"
	"github.com/matzehuels/skillgalaxy/pkg/session"
)

const (
	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = time.Minute

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 4 << 10
)

// Server serves one positioned galaxy.
type Server struct {
	graph  *galaxy.Graph
	index  *interact.Index
	nodes  map[string]graph.Node
	doc    []byte
	style  sink.Style
	title  string
	fog    bool
	labels bool

	store  session.Store
	ttl    time.Duration
	logger *log.Logger

	// mu serializes session read-modify-write cycles.
	mu sync.Mutex
}

// Option configures a [Server].
type Option func(*Server)

// WithStore sets the session store (default in-memory).
func WithStore(s session.Store) Option { return func(srv *Server) { srv.store = s } }

// WithSessionTTL sets how long an idle session lives.
func WithSessionTTL(d time.Duration) Option { return func(srv *Server) { srv.ttl = d } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(srv *Server) { srv.logger = l } }

// WithStyle sets the SVG style.
func WithStyle(s sink.Style) Option { return func(srv *Server) { srv.style = s } }

// WithTitle sets the SVG heading.
func WithTitle(t string) Option { return func(srv *Server) { srv.title = t } }

// WithFog makes fog the default for new sessions and the SVG.
func WithFog(on bool) Option { return func(srv *Server) { srv.fog = on } }

// WithLabels labels every node in the SVG by default.
func WithLabels(on bool) Option { return func(srv *Server) { srv.labels = on } }

// New creates a server for a positioned graph. info is embedded in the
// graph JSON.
func New(g *galaxy.Graph, info graph.LayoutInfo, opts ...Option) (*Server, error) {
	if !g.Placed() {
		return nil, errors.New("server needs a positioned graph")
	}
	srv := &Server{
		graph: g,
		index: interact.NewIndex(g),
		style: sink.Galaxy{},
		ttl:   session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.store == nil {
		srv.store = session.NewMemoryStore()
	}
	if srv.logger == nil {
		srv.logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	gx := graph.FromGalaxy(g)
	gx.Layout = &info
	doc, err := graph.Marshal(gx)
	if err != nil {
		return nil, err
	}
	srv.doc = doc
	srv.nodes = make(map[string]graph.Node, len(gx.Nodes))
	for _, n := range gx.Nodes {
		srv.nodes[n.ID] = n
	}
	return srv, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/galaxy.svg", s.handleSVG)

	r.Route("/api", func(r chi.Router) {
		r.Get("/galaxy", s.handleGalaxy)
		r.Get("/nodes/{id}", s.handleNode)
		r.Get("/nodes/{id}/chain", s.handleChain)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/hover", s.handleHover)
			r.Post("/select", s.handleSelect)
			r.Post("/fog", s.handleFog)
			r.Post("/clear", s.handleClear)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, sweeping expired
// sessions in the background, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving galaxy", "addr", addr, "nodes", s.graph.NodeCount())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.sweep(ctx, DefaultCleanupInterval)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		next.ServeHTTP(ww, r)

		dur := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
