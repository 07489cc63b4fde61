package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/core/build"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
	"github.com/matzehuels/skillgalaxy/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so that caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger; it does not keep
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Built is the output of the build stage.
type Built struct {
	// Graph is unpositioned. The layout stage commits positions into it.
	Graph *galaxy.Graph

	// Hash is the content hash of the serialized unpositioned graph.
	Hash string

	// DroppedEdges counts declared relations that did not resolve.
	DroppedEdges int
}

// cachedGraph is the cache envelope for the build stage.
type cachedGraph struct {
	Galaxy       graph.Galaxy `json:"galaxy"`
	DroppedEdges int          `json:"dropped_edges"`
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	b, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.GraphHash = b.Hash
	result.DroppedEdges = b.DroppedEdges
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = b.Graph.NodeCount()
	result.Stats.EdgeCount = b.Graph.EdgeCount()
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built galaxy",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"dropped", b.DroppedEdges,
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	g, info, layoutHit, err := r.LayoutWithCacheInfo(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = g
	result.Layout = info
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"scale", info.Scale,
		"quality", info.Quality,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, info, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds the unpositioned graph with caching and reports
// whether it came from the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*Built, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	name := opts.CatalogPath
	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, name)

	b, hit, err := r.build(ctx, opts)

	var nodes, edges int
	if b != nil {
		nodes, edges = b.Graph.NodeCount(), b.Graph.EdgeCount()
	}
	observability.Pipeline().OnBuildComplete(ctx, name, nodes, edges, time.Since(start), err)
	return b, hit, err
}

func (r *Runner) build(ctx context.Context, opts Options) (*Built, bool, error) {
	cat, err := LoadCatalog(opts)
	if err != nil {
		return nil, false, err
	}
	catHash, err := CatalogHash(cat)
	if err != nil {
		return nil, false, err
	}
	ds, err := LoadProficiency(ctx, r.Cache, opts)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.GraphKey(catHash, cache.GraphKeyOpts{ProficiencyHash: ds.Hash()})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, "graph", key); ok {
			var cg cachedGraph
			if err := json.Unmarshal(data, &cg); err == nil {
				if g, err := graph.ToGalaxy(cg.Galaxy); err == nil {
					if b, err := newBuilt(g, cg.DroppedEdges); err == nil {
						return b, true, nil
					}
				}
			}
			// Undecodable entries fall through to a rebuild.
		}
	}

	res, err := build.Build(cat, ds, nil)
	if err != nil {
		return nil, false, err
	}
	b, err := newBuilt(res.Graph, res.DroppedEdges)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(cachedGraph{Galaxy: graph.FromGalaxy(res.Graph), DroppedEdges: res.DroppedEdges})
	if err == nil {
		r.cacheSet(ctx, "graph", key, data, cache.TTLGraph)
	}
	return b, false, nil
}

func newBuilt(g *galaxy.Graph, dropped int) (*Built, error) {
	data, err := graph.MarshalGalaxy(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph: %w", err)
	}
	return &Built{Graph: g, Hash: cache.Hash(data), DroppedEdges: dropped}, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*Built, error) {
	b, _, err := r.BuildWithCacheInfo(ctx, opts)
	return b, err
}

// LayoutWithCacheInfo positions the built graph with caching and reports
// whether the positions came from the cache. On a miss the positions are
// committed into b.Graph, so a Built can be laid out only once; on a hit a
// fresh positioned graph is decoded and b.Graph is left untouched.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, b *Built, opts Options) (*galaxy.Graph, graph.LayoutInfo, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, graph.LayoutInfo{}, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.LayoutKey(b.Hash, opts.LayoutKeyOpts())

	if data, ok := r.cacheGet(ctx, "layout", key); ok {
		if gx, err := graph.UnmarshalGalaxy(data); err == nil && gx.Positioned && gx.Layout != nil {
			if g, err := graph.ToGalaxy(gx); err == nil {
				return g, *gx.Layout, true, nil
			}
		}
		// If deserialization fails, fall through to recompute
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, b.Graph.NodeCount())
	info, err := Layout(b.Graph, opts)
	observability.Pipeline().OnLayoutComplete(ctx, info.Quality, time.Since(start), err)
	if err != nil {
		return nil, graph.LayoutInfo{}, false, err
	}

	if data, err := Positioned(b.Graph, info); err == nil {
		r.cacheSet(ctx, "layout", key, data, cache.TTLLayout)
	}
	return b.Graph, info, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache. Only the formats missing from the
// cache are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *galaxy.Graph, info graph.LayoutInfo, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := Positioned(g, info)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.cacheGet(ctx, "artifact", key); ok {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, missing)
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, g, &info, renderOpts)
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, "artifact", key, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet looks key up and reports the outcome to the cache hooks. Backend
// errors count as misses.
func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
