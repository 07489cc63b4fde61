package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("testdata/portfolio.toml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if c.Root.ID != "me" {
		t.Errorf("root id = %q", c.Root.ID)
	}
	if got, want := len(c.Clusters), 3; got != want {
		t.Errorf("clusters = %d, want %d", got, want)
	}
	if c.Mapping.Tracks["systems"] != "systems" {
		t.Errorf("tracks = %v", c.Mapping.Tracks)
	}
	if diff := cmp.Diff([]string{"discrete"}, c.Courses[1].Prerequisites); diff != "" {
		t.Errorf("os prerequisites (-want +got):\n%s", diff)
	}
	if c.Projects[0].NodeType != "repo" {
		t.Errorf("kernel node_type = %q", c.Projects[0].NodeType)
	}
	if c.Size() != 3+3+2+2 {
		t.Errorf("Size() = %d", c.Size())
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/nope.toml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.toml":     FormatTOML,
		"dir/b.YAML": FormatYAML,
		"c.yml":      FormatYAML,
		"d.json":     FormatJSON,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("e.xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("xml: err = %v", err)
	}
}

func TestFormatsAgree(t *testing.T) {
	orig, err := LoadFile("testdata/portfolio.toml")
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(orig, f)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Load(bytes.NewReader(data), f)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(orig.Courses, got.Courses, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("courses differ (-toml +%s):\n%s", f, diff)
			}
			if diff := cmp.Diff(orig.Mapping.Portals, got.Mapping.Portals); diff != "" {
				t.Errorf("portals differ:\n%s", diff)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr string
	}{
		{
			name:    "Valid",
			catalog: Catalog{Courses: []Course{{ID: "a"}}, Projects: []Project{{ID: "b"}}},
		},
		{
			name:    "EmptyID",
			catalog: Catalog{Courses: []Course{{Name: "nameless"}}},
			wantErr: "empty id",
		},
		{
			name:    "DuplicateAcrossKinds",
			catalog: Catalog{Courses: []Course{{ID: "x"}}, Projects: []Project{{ID: "x"}}},
			wantErr: `duplicate id "x"`,
		},
		{
			name:    "TopicClashesWithCluster",
			catalog: Catalog{Clusters: []Cluster{{ID: "graphs"}}, Topics: []Topic{{Slug: "graphs"}}},
			wantErr: "duplicate",
		},
		{
			name:    "BadColor",
			catalog: Catalog{Clusters: []Cluster{{ID: "c", Primary: "blue"}}},
			wantErr: "color",
		},
		{
			name:    "ReservedCluster",
			catalog: Catalog{Clusters: []Cluster{{ID: "core"}}},
			wantErr: `cluster id "core" is reserved`,
		},
		{
			name:    "ReservedDefaultCluster",
			catalog: Catalog{Mapping: Mapping{DefaultCluster: "core"}},
			wantErr: `default cluster "core" is reserved`,
		},
		{
			name:    "CourseClashesWithImplicitRoot",
			catalog: Catalog{Courses: []Course{{ID: DefaultRootID}}},
			wantErr: `duplicate id "core" (root and course)`,
		},
		{
			name:    "CourseClashesWithImplicitDefaultCluster",
			catalog: Catalog{Courses: []Course{{ID: DefaultClusterID}}},
			wantErr: `duplicate id "misc" (default cluster and course)`,
		},
		{
			name:    "CourseClashesWithNamedDefaultCluster",
			catalog: Catalog{Mapping: Mapping{DefaultCluster: "other"}, Projects: []Project{{ID: "other"}}},
			wantErr: `duplicate id "other" (default cluster and project)`,
		},
		{
			name:    "AuthoredDefaultCluster",
			catalog: Catalog{Clusters: []Cluster{{ID: "misc"}}, Courses: []Course{{ID: "a"}}},
		},
		{
			name:    "ExplicitRootFreesImplicitID",
			catalog: Catalog{Root: Root{ID: "me"}, Courses: []Course{{ID: "core"}}},
		},
		{
			name:    "MarkupInID",
			catalog: Catalog{Courses: []Course{{ID: "<script>"}}},
			wantErr: "markup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
				t.Errorf("code = %q, want INVALID_CATALOG", errors.GetCode(err))
			}
		})
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	_, err := Load(strings.NewReader("[[courses]\nid ="), FormatTOML)
	if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("err = %v", err)
	}
}
