// Package catalog holds the authored portfolio records a galaxy is built
// from: clusters, courses, project-like artifacts and algorithm topics.
//
// Records are plain data. The only logic here is loading ([Load], [LoadFile])
// and structural validation ([Catalog.Validate]); every data-quality issue
// beyond that (unknown grades, dangling references) is absorbed later by the
// graph builder.
//
// A catalog can be written in TOML, YAML or JSON:
//
//	[root]
//	id = "me"
//	name = "Jane Doe"
//
//	[mapping]
//	default_cluster = "foundations"
//	portals = ["thesis"]
//
//	[mapping.tracks]
//	systems = "systems"
//
//	[[clusters]]
//	id = "systems"
//	label = "Systems"
//	primary = "#4cc9f0"
//	angle = 0
//	radius = 320
//	placeholders = ["distributed consensus"]
//
//	[[courses]]
//	id = "os"
//	name = "Operating Systems"
//	track = "systems"
//	grade = "A+"
package catalog

// Implicit ids the builder uses when the catalog leaves them unset. They
// take part in the uniqueness check like authored ids.
const (
	DefaultRootID    = "core"
	DefaultClusterID = "misc"
)

// Catalog is the complete authored input for one galaxy.
type Catalog struct {
	Root     Root      `toml:"root" yaml:"root" json:"root"`
	Mapping  Mapping   `toml:"mapping" yaml:"mapping" json:"mapping"`
	Clusters []Cluster `toml:"clusters" yaml:"clusters" json:"clusters"`
	Courses  []Course  `toml:"courses" yaml:"courses" json:"courses"`
	Projects []Project `toml:"projects" yaml:"projects" json:"projects"`
	Topics   []Topic   `toml:"topics" yaml:"topics" json:"topics"`
}

// Root describes the single core node at the origin.
type Root struct {
	ID   string `toml:"id" yaml:"id" json:"id"`
	Name string `toml:"name" yaml:"name" json:"name"`
}

// Mapping holds the lookup tables that route records to clusters and mark
// curated highlights.
type Mapping struct {
	DefaultCluster string            `toml:"default_cluster" yaml:"default_cluster" json:"default_cluster"`
	TopicCluster   string            `toml:"topic_cluster" yaml:"topic_cluster" json:"topic_cluster"`
	Portals        []string          `toml:"portals" yaml:"portals" json:"portals"`
	Tracks         map[string]string `toml:"tracks" yaml:"tracks" json:"tracks"`
	Overrides      map[string]string `toml:"overrides" yaml:"overrides" json:"overrides"`
}

// Cluster is a thematic grouping. Angle is in degrees.
type Cluster struct {
	ID           string   `toml:"id" yaml:"id" json:"id"`
	Label        string   `toml:"label" yaml:"label" json:"label"`
	Primary      string   `toml:"primary" yaml:"primary" json:"primary"`
	Secondary    string   `toml:"secondary" yaml:"secondary" json:"secondary"`
	Angle        float64  `toml:"angle" yaml:"angle" json:"angle"`
	Radius       float64  `toml:"radius" yaml:"radius" json:"radius"`
	Placeholders []string `toml:"placeholders" yaml:"placeholders" json:"placeholders"`
}

// Course is a completed course.
type Course struct {
	ID              string   `toml:"id" yaml:"id" json:"id"`
	Name            string   `toml:"name" yaml:"name" json:"name"`
	Code            string   `toml:"code" yaml:"code" json:"code,omitempty"`
	Institution     string   `toml:"institution" yaml:"institution" json:"institution,omitempty"`
	Track           string   `toml:"track" yaml:"track" json:"track"`
	Grade           string   `toml:"grade" yaml:"grade" json:"grade,omitempty"`
	Year            int      `toml:"year" yaml:"year" json:"year"`
	Semester        int      `toml:"semester" yaml:"semester" json:"semester"`
	Prerequisites   []string `toml:"prerequisites" yaml:"prerequisites" json:"prerequisites,omitempty"`
	RelatedProjects []string `toml:"related_projects" yaml:"related_projects" json:"related_projects,omitempty"`
}

// Project is any project-like artifact: project, thesis, publication,
// internship or repo, selected by NodeType.
type Project struct {
	ID             string   `toml:"id" yaml:"id" json:"id"`
	Name           string   `toml:"name" yaml:"name" json:"name"`
	RelatedCourses []string `toml:"related_courses" yaml:"related_courses" json:"related_courses"`
	Year           int      `toml:"year" yaml:"year" json:"year"`
	Semester       int      `toml:"semester" yaml:"semester" json:"semester"`
	Track          string   `toml:"track" yaml:"track" json:"track,omitempty"`
	Cluster        string   `toml:"cluster" yaml:"cluster" json:"cluster,omitempty"`
	NodeType       string   `toml:"node_type" yaml:"node_type" json:"node_type,omitempty"`
	URL            string   `toml:"url" yaml:"url" json:"url,omitempty"`
	Venue          string   `toml:"venue" yaml:"venue" json:"venue,omitempty"`
}

// Topic is an algorithm topic whose mastery comes from the proficiency dataset.
type Topic struct {
	Slug          string   `toml:"slug" yaml:"slug" json:"slug"`
	Name          string   `toml:"name" yaml:"name" json:"name"`
	Cluster       string   `toml:"cluster" yaml:"cluster" json:"cluster,omitempty"`
	Expected      int      `toml:"expected" yaml:"expected" json:"expected"`
	Prerequisites []string `toml:"prerequisites" yaml:"prerequisites" json:"prerequisites,omitempty"`
}

// Size returns the number of authored records.
func (c *Catalog) Size() int {
	return len(c.Clusters) + len(c.Courses) + len(c.Projects) + len(c.Topics)
}
