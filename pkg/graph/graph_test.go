package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/build"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/layout"
)

func portfolio(t *testing.T, positioned bool) *galaxy.Graph {
	t.Helper()
	c, err := catalog.LoadFile("../catalog/testdata/portfolio.toml")
	if err != nil {
		t.Fatal(err)
	}
	res, err := build.Build(c, map[string]int{"graphs": 12}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if positioned {
		if _, err := layout.Apply(res.Graph, layout.Options{}); err != nil {
			t.Fatal(err)
		}
	}
	return res.Graph
}

func TestRoundTrip(t *testing.T) {
	for _, positioned := range []bool{false, true} {
		name := "Unpositioned"
		if positioned {
			name = "Positioned"
		}
		t.Run(name, func(t *testing.T) {
			g := portfolio(t, positioned)

			data, err := MarshalGalaxy(g)
			if err != nil {
				t.Fatalf("MarshalGalaxy: %v", err)
			}
			back, err := ReadGalaxy(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("ReadGalaxy: %v", err)
			}

			if back.Placed() != positioned {
				t.Errorf("Placed() = %v, want %v", back.Placed(), positioned)
			}
			if diff := cmp.Diff(FromGalaxy(g), FromGalaxy(back), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripPreservesDetail(t *testing.T) {
	g := portfolio(t, true)
	data, err := MarshalGalaxy(g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReadGalaxy(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range g.Nodes() {
		got, ok := back.Node(n.ID)
		if !ok {
			t.Fatalf("node %s lost", n.ID)
		}
		if got.X != n.X || got.Y != n.Y {
			t.Errorf("%s moved: (%v,%v) → (%v,%v)", n.ID, n.X, n.Y, got.X, got.Y)
		}
		if diff := cmp.Diff(n.Detail, got.Detail); diff != "" {
			t.Errorf("%s detail (-want +got):\n%s", n.ID, diff)
		}
		if got.Portal() != n.Portal() {
			t.Errorf("%s portal = %v", n.ID, got.Portal())
		}
	}
}

func TestBSONRoundTrip(t *testing.T) {
	g := portfolio(t, true)
	want := FromGalaxy(g)

	data, err := bson.Marshal(want)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var gx Galaxy
	if err := bson.Unmarshal(data, &gx); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	back, err := ToGalaxy(gx)
	if err != nil {
		t.Fatalf("ToGalaxy: %v", err)
	}
	if diff := cmp.Diff(want, FromGalaxy(back), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("bson round trip (-want +got):\n%s", diff)
	}
}

func TestReadGalaxy(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   error
	}{
		{
			name: "Valid",
			input: `{
				"root": "me",
				"clusters": [{"id": "cs", "angle": 0, "radius": 300}],
				"nodes": [
					{"id": "me", "kind": "root", "cluster": "core"},
					{"id": "algo", "kind": "course", "cluster": "cs", "meta": {"grade": "A", "year": 2021}},
					{"id": "os", "kind": "course", "cluster": "cs"}
				],
				"edges": [{"from": "algo", "to": "os", "kind": "prerequisite"}]
			}`,
			wantNodes: 3,
			wantEdges: 1,
		},
		{
			name:  "Empty",
			input: `{"clusters": [], "nodes": [], "edges": []}`,
		},
		{
			name: "DanglingEdge",
			input: `{
				"clusters": [{"id": "cs"}],
				"nodes": [{"id": "a", "kind": "course", "cluster": "cs"}],
				"edges": [{"from": "a", "to": "ghost", "kind": "prerequisite"}]
			}`,
			wantErr: galaxy.ErrUnknownTargetNode,
		},
		{
			name: "UnknownCluster",
			input: `{
				"nodes": [{"id": "a", "kind": "course", "cluster": "nowhere"}]
			}`,
			wantErr: galaxy.ErrUnknownCluster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGalaxy(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGalaxy: %v", err)
			}
			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
		})
	}
}

func TestMetaNumbersFromJSON(t *testing.T) {
	g, err := ReadGalaxy(strings.NewReader(`{
		"clusters": [{"id": "cs"}],
		"nodes": [{"id": "dp", "kind": "topic", "cluster": "cs", "meta": {"slug": "dp", "solved": 7, "expected": 10}}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node("dp")
	want := galaxy.TopicDetail{Slug: "dp", Solved: 7, Expected: 10}
	if diff := cmp.Diff(want, n.Detail); diff != "" {
		t.Errorf("detail (-want +got):\n%s", diff)
	}
}

func TestGalaxyFile(t *testing.T) {
	g := portfolio(t, true)
	path := filepath.Join(t.TempDir(), "galaxy.json")

	if err := WriteGalaxyFile(g, path); err != nil {
		t.Fatalf("WriteGalaxyFile: %v", err)
	}
	back, err := ReadGalaxyFile(path)
	if err != nil {
		t.Fatalf("ReadGalaxyFile: %v", err)
	}
	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() {
		t.Errorf("got %d/%d nodes/edges, want %d/%d", back.NodeCount(), back.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}

	if _, err := ReadGalaxyFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestMarshalWithLayoutInfo(t *testing.T) {
	gx := FromGalaxy(portfolio(t, true))
	gx.Layout = &LayoutInfo{Width: 1200, Height: 900, Scale: 0.9, Seed: 42, Iterations: 120, Quality: 1}

	data, err := Marshal(gx)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalGalaxy(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(gx.Layout, back.Layout); diff != "" {
		t.Errorf("layout info (-want +got):\n%s", diff)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["positioned"]; !ok {
		t.Error("positioned flag missing from output")
	}
}
