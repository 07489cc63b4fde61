package pipeline

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
	"github.com/matzehuels/skillgalaxy/pkg/observability"
)

const testCatalog = "../catalog/testdata/portfolio.toml"

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg"}, false},
		{[]string{"svg", "png", "pdf", "dot", "json"}, false},
		{nil, false},
		{[]string{"svg", "gif"}, true},
		{[]string{"SVG"}, true}, // case-sensitive
		{[]string{""}, true},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%q) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormats(%q) code = %s", tt.formats, errors.GetCode(err))
		}
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"galaxy", false},
		{"simple", false},
		{"nodelink", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForBuild(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForBuild(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing catalog: err = %v", err)
	}

	opts = Options{CatalogPath: testCatalog, ProficiencyURL: "ftp://example.com/x"}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("non-http proficiency URL should fail")
	}

	opts = Options{CatalogPath: testCatalog}
	if err := opts.ValidateForBuild(); err != nil {
		t.Errorf("valid options: %v", err)
	}
	if opts.Logger == nil {
		t.Error("logger default not set")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{CatalogPath: testCatalog}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if opts.Width != first.Width || opts.Style != first.Style || opts.Seed != first.Seed {
		t.Error("defaults changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	want := cache.LayoutKeyOpts{Width: 1200, Height: 900, Iterations: 120, Seed: 42}
	if diff := cmp.Diff(want, opts.LayoutKeyOpts()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale should be %v, got %v", DefaultPNGScale, opts.PNGScale)
	}
}

func TestArtifactKeyOptsDistinguishFormats(t *testing.T) {
	opts := Options{Style: "galaxy"}
	k := cache.NewDefaultKeyer()
	if k.ArtifactKey("l", opts.ArtifactKeyOpts("svg")) == k.ArtifactKey("l", opts.ArtifactKeyOpts("dot")) {
		t.Error("svg and dot share an artifact key")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		CatalogPath: testCatalog,
		Formats:     []string{"svg", "dot", "json"},
		Labels:      true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !res.Graph.Placed() {
		t.Error("graph not fully positioned")
	}
	if res.Stats.NodeCount != res.Graph.NodeCount() || res.Stats.NodeCount == 0 {
		t.Errorf("NodeCount = %d", res.Stats.NodeCount)
	}
	if res.DroppedEdges == 0 {
		t.Error("missing-course prerequisite should be counted as dropped")
	}
	if res.Layout.Width != 1200 || res.Layout.Scale != 0.9 {
		t.Errorf("Layout = %+v", res.Layout)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("null cache reported hits: %+v", res.CacheInfo)
	}

	dec := xml.NewDecoder(bytes.NewReader(res.Artifacts["svg"]))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("svg is not well-formed XML: %v", err)
		}
	}
	if dot := string(res.Artifacts["dot"]); !strings.HasPrefix(dot, "digraph") || !strings.Contains(dot, "cluster_systems") {
		t.Errorf("dot output:\n%s", dot)
	}

	gx, err := graph.UnmarshalGalaxy(res.Artifacts["json"])
	if err != nil {
		t.Fatal(err)
	}
	if !gx.Positioned || gx.Layout == nil || gx.Layout.Seed != 42 {
		t.Errorf("json artifact: positioned=%v layout=%+v", gx.Positioned, gx.Layout)
	}
}

func TestExecuteNodeLinkStyle(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		CatalogPath: testCatalog,
		Style:       "nodelink",
		Formats:     []string{"svg"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	svg := string(res.Artifacts["svg"])
	if !strings.Contains(svg, "<svg") {
		t.Fatalf("nodelink svg: %.120s", svg)
	}
	if strings.Contains(svg, "<script") {
		t.Error("nodelink drawing should be static")
	}
}

func TestExecuteCachedLayoutReused(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{CatalogPath: testCatalog, Formats: []string{"svg", "json"}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run should compute the layout")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	want := CacheInfo{BuildHit: true, LayoutHit: true, RenderHit: true}
	if second.CacheInfo != want {
		t.Errorf("CacheInfo = %+v, want %+v", second.CacheInfo, want)
	}
	if first.GraphHash != second.GraphHash {
		t.Error("graph hash changed between runs")
	}

	for _, n := range first.Graph.Nodes() {
		m, ok := second.Graph.Node(n.ID)
		if !ok {
			t.Fatalf("node %q missing from cached graph", n.ID)
		}
		if n.X != m.X || n.Y != m.Y {
			t.Errorf("%s: (%v,%v) vs cached (%v,%v)", n.ID, n.X, n.Y, m.X, m.Y)
		}
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}

	// A different canvas is a different layout.
	opts.Width = 1600
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.BuildHit || third.CacheInfo.LayoutHit {
		t.Errorf("resized run CacheInfo = %+v", third.CacheInfo)
	}
}

func TestExecuteMissingCatalog(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{CatalogPath: filepath.Join(t.TempDir(), "none.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadProficiency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"dynamic-programming": 40}`))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "solved.json")
	if err := os.WriteFile(file, []byte(`{"graphs": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts Options
		want map[string]int
	}{
		{"None", Options{}, map[string]int{}},
		{"File", Options{ProficiencyFile: file, ProficiencyURL: srv.URL}, map[string]int{"graphs": 3}},
		{"URL", Options{ProficiencyURL: srv.URL + "/solved"}, map[string]int{"dynamic-programming": 40}},
		{"UnreachableDegrades", Options{ProficiencyURL: srv.URL + "/missing"}, map[string]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := LoadProficiency(context.Background(), cache.NewNullCache(), tt.opts)
			if err != nil {
				t.Fatalf("LoadProficiency: %v", err)
			}
			if diff := cmp.Diff(tt.want, map[string]int(ds)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderUnplacedFails(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	b, err := runner.Build(context.Background(), Options{CatalogPath: testCatalog})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Render(context.Background(), b.Graph, nil, Options{Formats: []string{"svg"}}); err == nil {
		t.Error("rendering an unpositioned graph should fail")
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	mu   sync.Mutex
	hits map[string]int
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}

type recordingPipelineHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	layouts int
}

func (h *recordingPipelineHooks) OnLayoutComplete(context.Context, float64, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
}

func TestHooks(t *testing.T) {
	ch := &recordingCacheHooks{hits: map[string]int{}}
	ph := &recordingPipelineHooks{}
	observability.SetCacheHooks(ch)
	observability.SetPipelineHooks(ph)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{CatalogPath: testCatalog, Formats: []string{"json"}}
	for range 2 {
		if _, err := runner.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	want := map[string]int{"graph": 1, "layout": 1, "artifact": 1}
	if diff := cmp.Diff(want, ch.hits); diff != "" {
		t.Errorf("cache hits (-want +got):\n%s", diff)
	}
	if ph.layouts != 1 {
		t.Errorf("layouts computed = %d, want 1", ph.layouts)
	}
}
