// Package pipeline provides the core galaxy pipeline for skillgalaxy.
//
// This package implements the complete build → layout → render pipeline used
// by the CLI and the serve command. Centralizing it keeps caching, defaults
// and validation consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Load the catalog and proficiency dataset and classify the graph
//  2. Layout: Commit a position for every node
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage caches its output under a key derived from its inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    CatalogPath: "portfolio.toml",
//	    Formats:     []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/layout"
	"github.com/matzehuels/skillgalaxy/pkg/core/render"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultStyle is the default visual style.
	DefaultStyle = graph.StyleGalaxy

	// DefaultPNGScale is the rasterization factor for PNG output.
	DefaultPNGScale = 2.0
)

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StyleGalaxy:   true,
	graph.StyleSimple:   true,
	graph.StyleNodeLink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the galaxy pipeline.
type Options struct {
	// Build options
	CatalogPath     string        `json:"catalog,omitempty"`
	ProficiencyFile string        `json:"proficiency_file,omitempty"`
	ProficiencyURL  string        `json:"proficiency_url,omitempty"`
	ProficiencyTTL  time.Duration `json:"-"`
	Refresh         bool          `json:"refresh,omitempty"`

	// Layout options
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Fog      bool     `json:"fog,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Title    string   `json:"title,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Catalog, when set, is used instead of reading CatalogPath.
	Catalog *catalog.Catalog `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the positioned galaxy.
	Graph *galaxy.Graph

	// GraphHash is the content hash of the unpositioned graph.
	GraphHash string

	// Layout describes how positions were computed.
	Layout graph.LayoutInfo

	// DroppedEdges counts declared relations that did not resolve.
	DroppedEdges int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built graph came from cache
	LayoutHit bool // Whether positions came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", f)
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: galaxy, simple, nodelink)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for building.
func (o *Options) ValidateForBuild() error {
	if o.CatalogPath == "" && o.Catalog == nil {
		return errors.New(errors.ErrCodeInvalidInput, "catalog is required")
	}
	if o.ProficiencyURL != "" {
		if err := errors.ValidateURL(o.ProficiencyURL); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = layout.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = layout.DefaultHeight
	}
	if o.Iterations == 0 {
		o.Iterations = layout.DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 || o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout dimensions and iterations must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// LayoutOptions converts the layout fields for [layout.Apply].
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Width:      o.Width,
		Height:     o.Height,
		Iterations: o.Iterations,
		Seed:       o.Seed,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		Iterations: o.Iterations,
		Seed:       o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
		Fog:    o.Fog,
		Labels: o.Labels,
		Title:  o.Title,
		Scale:  o.PNGScale,
	}
}
