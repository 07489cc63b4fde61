package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/skillgalaxy/pkg/core/interact"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
	"github.com/matzehuels/skillgalaxy/pkg/observability"
	"github.com/matzehuels/skillgalaxy/pkg/pipeline"
)

const testCatalog = "../../pkg/catalog/testdata/portfolio.toml"

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	res, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), pipeline.Options{
		CatalogPath: testCatalog,
		Formats:     []string{"json"},
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	srv, err := New(res.Graph, res.Layout, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestGalaxy(t *testing.T) {
	ts := newTestServer(t)
	resp, data := do(t, http.MethodGet, ts.URL+"/api/galaxy", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	gx, err := graph.UnmarshalGalaxy(data)
	if err != nil {
		t.Fatal(err)
	}
	if !gx.Positioned || gx.Layout == nil || gx.Root != "me" {
		t.Errorf("galaxy: positioned=%v layout=%v root=%q", gx.Positioned, gx.Layout, gx.Root)
	}
}

func TestSVG(t *testing.T) {
	ts := newTestServer(t, WithTitle("Portfolio"))
	resp, data := do(t, http.MethodGet, ts.URL+"/galaxy.svg?fog=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(string(data), "<svg") || !strings.Contains(string(data), "Portfolio") {
		t.Errorf("unexpected svg head: %.80s", data)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/galaxy.svg?session=nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session svg status = %d", resp.StatusCode)
	}
}

func TestNode(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodGet, ts.URL+"/api/nodes/os", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if n := decode[graph.Node](t, data); n.ID != "os" || n.Cluster != "systems" {
		t.Errorf("node = %+v", n)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/api/nodes/ghost", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("ghost status = %d", resp.StatusCode)
	}
	if e := decode[errorResponse](t, data); e.Code != "NODE_NOT_FOUND" {
		t.Errorf("error = %+v", e)
	}
}

func TestNodeEscapedID(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodGet, ts.URL+"/api/nodes/systems%2Fdark-0", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	n := decode[graph.Node](t, data)
	if n.ID != "systems/dark-0" || n.Kind != "placeholder" || n.Cluster != "systems" {
		t.Errorf("node = %+v", n)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/api/nodes/systems%2Fdark-0/chain", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chain status = %d: %s", resp.StatusCode, data)
	}
	if c := decode[ChainResponse](t, data); c.ID != "systems/dark-0" {
		t.Errorf("chain id = %q", c.ID)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/nodes/systems/dark-0", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unescaped slash status = %d, want 404", resp.StatusCode)
	}
}

func TestChain(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodGet, ts.URL+"/api/nodes/os/chain", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	c := decode[ChainResponse](t, data)
	for _, id := range []string{"discrete", "compilers", "kernel"} {
		if !c.Chain.Has(id) {
			t.Errorf("chain of os missing %q: %v", id, c.Chain.Sorted())
		}
	}
	if !c.Upstream.Has("discrete") || c.Upstream.Has("compilers") {
		t.Errorf("upstream = %v", c.Upstream.Sorted())
	}
	if !c.Downstream.Has("compilers") {
		t.Errorf("downstream = %v", c.Downstream.Sorted())
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/nodes/ghost/chain", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("ghost status = %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decode[SessionResponse](t, data)
	if created.ID == "" || !created.State.Idle() {
		t.Fatalf("created = %+v", created)
	}
	base := ts.URL + "/api/sessions/" + created.ID

	// Hover highlights the chain.
	_, data = do(t, http.MethodPost, base+"/hover", `{"id":"os"}`)
	snap := decode[SessionResponse](t, data)
	if snap.State.Focus != "os" || snap.Classes["discrete"] != interact.NodeHighlighted {
		t.Errorf("hover snapshot: focus=%q discrete=%q", snap.State.Focus, snap.Classes["discrete"])
	}

	// Selection wins over hover.
	_, data = do(t, http.MethodPost, base+"/select", `{"id":"kernel"}`)
	snap = decode[SessionResponse](t, data)
	if snap.State.Focus != "kernel" || snap.State.Hovered != "os" {
		t.Errorf("select snapshot: %+v", snap.State)
	}

	// Unknown ids clear the input instead of failing.
	resp, data = do(t, http.MethodPost, base+"/select", `{"id":"ghost"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ghost select status = %d", resp.StatusCode)
	}
	if snap = decode[SessionResponse](t, data); snap.State.Selected != "" || snap.State.Focus != "os" {
		t.Errorf("ghost select snapshot: %+v", snap.State)
	}

	// The session persists between requests.
	_, data = do(t, http.MethodGet, base, "")
	if snap = decode[SessionResponse](t, data); snap.State.Hovered != "os" {
		t.Errorf("persisted state: %+v", snap.State)
	}

	_, data = do(t, http.MethodPost, base+"/fog", `{"on":true}`)
	if snap = decode[SessionResponse](t, data); !snap.State.Fog {
		t.Error("fog not enabled")
	}

	_, data = do(t, http.MethodPost, base+"/clear", "")
	if snap = decode[SessionResponse](t, data); !snap.State.Idle() || !snap.State.Fog {
		t.Errorf("clear snapshot: %+v", snap.State)
	}
	for id, class := range snap.Classes {
		if class != interact.NodeNormal {
			t.Errorf("idle class of %s = %q", id, class)
		}
	}

	// The SVG can bake in the session state.
	resp, _ = do(t, http.MethodGet, ts.URL+"/galaxy.svg?session="+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("session svg status = %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, base, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, base, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted session status = %d", resp.StatusCode)
	}
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t)
	_, data := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	base := ts.URL + "/api/sessions/" + decode[SessionResponse](t, data).ID

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"UnknownSession", http.MethodPost, ts.URL + "/api/sessions/nope/hover", `{"id":"os"}`, http.StatusNotFound},
		{"MalformedBody", http.MethodPost, base + "/hover", `{"id":`, http.StatusBadRequest},
		{"MarkupID", http.MethodPost, base + "/select", `{"id":"<os>"}`, http.StatusBadRequest},
		{"WrongMethod", http.MethodGet, base + "/hover", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, tt.method, tt.url, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestFogDefault(t *testing.T) {
	ts := newTestServer(t, WithFog(true))
	_, data := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	if snap := decode[SessionResponse](t, data); !snap.State.Fog {
		t.Error("new session should inherit server fog default")
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	defer observability.Reset()

	ts := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/healthz", "")
	do(t, http.MethodGet, ts.URL+"/api/nodes/ghost", "")

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.statuses) != 2 || h.statuses[0] != http.StatusOK || h.statuses[1] != http.StatusNotFound {
		t.Errorf("statuses = %v", h.statuses)
	}
}
