package galaxy

// Kind distinguishes the variants of the node tagged union.
type Kind string

const (
	KindRoot        Kind = "root"
	KindCluster     Kind = "cluster"
	KindCourse      Kind = "course"
	KindProject     Kind = "project"
	KindThesis      Kind = "thesis"
	KindPublication Kind = "publication"
	KindInternship  Kind = "internship"
	KindRepo        Kind = "repo"
	KindTopic       Kind = "topic"
	KindPlaceholder Kind = "placeholder"
)

// IsWork reports whether the kind is a project-like artifact
// (project, thesis, publication, internship, repo).
func (k Kind) IsWork() bool {
	switch k {
	case KindProject, KindThesis, KindPublication, KindInternship, KindRepo:
		return true
	}
	return false
}

// IsPinned reports whether nodes of this kind sit at a fixed anchor and are
// never moved by relaxation.
func (k Kind) IsPinned() bool { return k == KindRoot || k == KindCluster }

// ParseWorkKind maps a catalog node type to a work kind. Unknown or empty
// values fall back to KindProject.
func ParseWorkKind(s string) Kind {
	switch k := Kind(s); k {
	case KindThesis, KindPublication, KindInternship, KindRepo, KindProject:
		return k
	}
	return KindProject
}

// Layer is the radial band a node occupies around its cluster anchor.
type Layer string

const (
	LayerCore    Layer = "core"
	LayerSpecial Layer = "special"
	LayerInner   Layer = "inner"
	LayerMid     Layer = "mid"
	LayerOuter   Layer = "outer"
)

// Tier is the discrete visual class of a node.
type Tier string

const (
	TierExceptional Tier = "exceptional"
	TierTypical     Tier = "typical"
	TierMinimal     Tier = "minimal"
	TierUnexplored  Tier = "unexplored"
)

// EdgeKind categorizes an edge.
type EdgeKind string

const (
	// EdgePrerequisite links a prerequisite course or topic to its dependent.
	EdgePrerequisite EdgeKind = "prerequisite"
	// EdgeRelated links a course to a project-like node that draws on it.
	EdgeRelated EdgeKind = "related"
)

// Edge is a directed relation in knowledge-flow direction: Source is what is
// learned first, Target is what builds on it.
type Edge struct {
	Source string
	Target string
	Kind   EdgeKind
}

// Cluster is a thematic grouping with an authored anchor. Angle is in radians.
type Cluster struct {
	ID           string
	Label        string
	Primary      string
	Secondary    string
	Angle        float64
	Radius       float64
	Placeholders []string
}

// Node is the unit of the visualization. Fields shared by every kind live on
// Node itself; kind-specific fields live in Detail.
type Node struct {
	ID      string
	Name    string
	Cluster string
	Kind    Kind

	Mastery    float64
	Brightness float64
	Radius     float64
	Tier       Tier
	Layer      Layer

	// Declared relations, as authored. They may reference IDs that did not
	// make it into the graph; edges only exist for resolvable ones.
	Prerequisites []string
	Related       []string

	X, Y   float64
	placed bool

	Detail Detail
}

// Placed reports whether layout has committed this node's position.
func (n *Node) Placed() bool { return n.placed }

// Portal reports whether the node is a curated highlight.
func (n *Node) Portal() bool {
	w, ok := n.Detail.(WorkDetail)
	return ok && w.Portal
}

// Detail is the variant payload of a node. The set of implementations is closed.
type Detail interface {
	detail()
}

// CourseDetail carries the fields specific to KindCourse.
type CourseDetail struct {
	Code        string
	Institution string
	Track       string
	Grade       string
	Year        int
	Semester    int
}

// WorkDetail carries the fields shared by project-like kinds.
type WorkDetail struct {
	Track    string
	URL      string
	Venue    string
	Year     int
	Semester int
	Portal   bool
}

// TopicDetail carries the fields specific to KindTopic.
type TopicDetail struct {
	Slug     string
	Solved   int
	Expected int
}

// PlaceholderDetail carries the fields specific to KindPlaceholder.
type PlaceholderDetail struct {
	Topic string
}

func (CourseDetail) detail()      {}
func (WorkDetail) detail()        {}
func (TopicDetail) detail()       {}
func (PlaceholderDetail) detail() {}
