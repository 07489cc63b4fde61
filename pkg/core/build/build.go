package build

import (
	"fmt"
	"math"

	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
	"github.com/matzehuels/skillgalaxy/pkg/proficiency"
)

// DefaultRootID is used when the catalog does not name its root.
const DefaultRootID = catalog.DefaultRootID

// Result is the output of [Build].
type Result struct {
	Graph *galaxy.Graph

	// DroppedEdges counts declared relations whose other endpoint is not in
	// the graph, plus self references.
	DroppedEdges int

	// Kinds counts nodes per kind.
	Kinds map[galaxy.Kind]int
}

type builder struct {
	cfg     *Config
	cat     *catalog.Catalog
	ds      proficiency.Dataset
	g       *galaxy.Graph
	dropped int
}

// Build transforms a catalog into a classified, unpositioned graph. ds may
// be nil; topics then have zero mastery. A nil cfg means NewConfig(c.Mapping).
func Build(c *catalog.Catalog, ds proficiency.Dataset, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = NewConfig(c.Mapping)
	}
	b := &builder{cfg: cfg, cat: c, ds: ds, g: galaxy.New()}

	steps := []func() error{
		b.clusters,
		b.root,
		b.courses,
		b.projects,
		b.placeholders,
		b.topics,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "build galaxy")
		}
	}
	b.edges()

	res := &Result{Graph: b.g, DroppedEdges: b.dropped, Kinds: map[galaxy.Kind]int{}}
	for _, n := range b.g.Nodes() {
		res.Kinds[n.Kind]++
	}
	return res, nil
}

// =============================================================================
// Nodes
// =============================================================================

func (b *builder) clusters() error {
	for _, cl := range b.cat.Clusters {
		if err := b.addCluster(cl); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addCluster(cl catalog.Cluster) error {
	label := cl.Label
	if label == "" {
		label = cl.ID
	}
	err := b.g.AddCluster(galaxy.Cluster{
		ID:           cl.ID,
		Label:        label,
		Primary:      cl.Primary,
		Secondary:    cl.Secondary,
		Angle:        cl.Angle * math.Pi / 180,
		Radius:       cl.Radius,
		Placeholders: cl.Placeholders,
	})
	if err != nil {
		return fmt.Errorf("cluster %q: %w", cl.ID, err)
	}
	return b.add(galaxy.Node{ID: cl.ID, Name: label, Cluster: cl.ID, Kind: galaxy.KindCluster}, "", 1, false)
}

func (b *builder) root() error {
	id, name := b.cat.Root.ID, b.cat.Root.Name
	if id == "" {
		id = DefaultRootID
	}
	if name == "" {
		name = id
	}
	return b.add(galaxy.Node{ID: id, Name: name, Kind: galaxy.KindRoot}, "", 1, false)
}

func (b *builder) courses() error {
	for _, co := range b.cat.Courses {
		cluster, err := b.resolve(co.ID, co.Track)
		if err != nil {
			return err
		}
		n := galaxy.Node{
			ID:            co.ID,
			Name:          co.Name,
			Cluster:       cluster,
			Kind:          galaxy.KindCourse,
			Prerequisites: co.Prerequisites,
			Related:       co.RelatedProjects,
			Detail: galaxy.CourseDetail{
				Code:        co.Code,
				Institution: co.Institution,
				Track:       co.Track,
				Grade:       normalizeGrade(co.Grade),
				Year:        co.Year,
				Semester:    co.Semester,
			},
		}
		if err := b.add(n, co.Grade, b.cfg.GradeToMastery(co.Grade), false); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) projects() error {
	for _, p := range b.cat.Projects {
		var cluster string
		var err error
		if p.Cluster != "" && b.hasCluster(p.Cluster) {
			cluster = p.Cluster
		} else if cluster, err = b.resolve(p.ID, p.Track); err != nil {
			return err
		}
		kind := galaxy.ParseWorkKind(p.NodeType)
		portal := b.cfg.Portals[p.ID]
		n := galaxy.Node{
			ID:      p.ID,
			Name:    p.Name,
			Cluster: cluster,
			Kind:    kind,
			Related: p.RelatedCourses,
			Detail: galaxy.WorkDetail{
				Track:    p.Track,
				URL:      p.URL,
				Venue:    p.Venue,
				Year:     p.Year,
				Semester: p.Semester,
				Portal:   portal,
			},
		}
		if err := b.add(n, "", b.cfg.WorkMastery[kind], portal); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) placeholders() error {
	for _, cl := range b.g.Clusters() {
		for i, topic := range cl.Placeholders {
			n := galaxy.Node{
				ID:      fmt.Sprintf("%s/dark-%d", cl.ID, i),
				Name:    topic,
				Cluster: cl.ID,
				Kind:    galaxy.KindPlaceholder,
				Detail:  galaxy.PlaceholderDetail{Topic: topic},
			}
			if err := b.add(n, "", 0, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) topics() error {
	for _, t := range b.cat.Topics {
		cluster := t.Cluster
		if cluster == "" || !b.hasCluster(cluster) {
			cluster = b.cfg.TopicCluster
		}
		if cluster == "" || !b.hasCluster(cluster) {
			var err error
			if cluster, err = b.defaultCluster(); err != nil {
				return err
			}
		}
		solved := b.ds.Solved(t.Slug)
		name := t.Name
		if name == "" {
			name = t.Slug
		}
		n := galaxy.Node{
			ID:            t.Slug,
			Name:          name,
			Cluster:       cluster,
			Kind:          galaxy.KindTopic,
			Prerequisites: t.Prerequisites,
			Detail:        galaxy.TopicDetail{Slug: t.Slug, Solved: solved, Expected: t.Expected},
		}
		if err := b.add(n, "", TopicMastery(solved, t.Expected), false); err != nil {
			return err
		}
	}
	return nil
}

// add fills the derived visual attributes and inserts the node.
func (b *builder) add(n galaxy.Node, grade string, mastery float64, portal bool) error {
	n.Mastery = mastery
	n.Radius = b.cfg.Radius(n.Kind, mastery)
	switch {
	case n.Kind.IsPinned():
		n.Brightness = 1
	case n.Kind == galaxy.KindPlaceholder:
		n.Brightness = b.cfg.PlaceholderBrightness
	default:
		n.Brightness = Brightness(mastery)
	}
	n.Tier = b.cfg.ClassifyTier(n.Kind, grade, mastery, portal)
	n.Layer = LayerFor(n.Kind, portal)
	if err := b.g.AddNode(n); err != nil {
		return fmt.Errorf("%s %q: %w", n.Kind, n.ID, err)
	}
	return nil
}

// =============================================================================
// Cluster resolution
// =============================================================================

func (b *builder) hasCluster(id string) bool {
	_, ok := b.g.Cluster(id)
	return ok && id != galaxy.CoreCluster
}

// resolve routes a record through the override table, then the track table,
// then the default cluster. Table entries naming unknown clusters are skipped.
func (b *builder) resolve(id, track string) (string, error) {
	if c, ok := b.cfg.Overrides[id]; ok && b.hasCluster(c) {
		return c, nil
	}
	if c, ok := b.cfg.Tracks[track]; ok && b.hasCluster(c) {
		return c, nil
	}
	return b.defaultCluster()
}

// defaultCluster returns the default cluster, registering it on first use
// when the catalog did not author it.
func (b *builder) defaultCluster() (string, error) {
	id := b.cfg.DefaultCluster
	if b.hasCluster(id) {
		return id, nil
	}
	err := b.addCluster(catalog.Cluster{
		ID:     id,
		Angle:  defaultClusterAngle,
		Radius: defaultClusterRadius,
	})
	return id, err
}

// =============================================================================
// Edges
// =============================================================================

func (b *builder) edges() {
	for _, co := range b.cat.Courses {
		for _, p := range co.Prerequisites {
			b.link(p, co.ID, galaxy.EdgePrerequisite)
		}
		for _, p := range co.RelatedProjects {
			b.link(co.ID, p, galaxy.EdgeRelated)
		}
	}
	for _, t := range b.cat.Topics {
		for _, p := range t.Prerequisites {
			b.link(p, t.Slug, galaxy.EdgePrerequisite)
		}
	}
	for _, p := range b.cat.Projects {
		for _, c := range p.RelatedCourses {
			b.link(c, p.ID, galaxy.EdgeRelated)
		}
	}
}

// link adds source→target, counting relations that cannot be drawn.
func (b *builder) link(source, target string, kind galaxy.EdgeKind) {
	if source == target || !b.g.HasNode(source) || !b.g.HasNode(target) {
		b.dropped++
		return
	}
	if kind == galaxy.EdgeRelated {
		if t, _ := b.g.Node(target); !t.Kind.IsWork() {
			b.dropped++
			return
		}
	}
	_ = b.g.AddEdge(galaxy.Edge{Source: source, Target: target, Kind: kind})
}
