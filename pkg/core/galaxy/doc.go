// Package galaxy provides the typed skill graph behind the Skill Galaxy
// visualization.
//
// # Overview
//
// A [Graph] holds three things: authored [Cluster] anchors, [Node] records,
// and directed [Edge] relations. Nodes are a tagged union keyed by [Kind]:
// shared attributes (identity, cluster, mastery, visual classification,
// position) live on [Node], and the variant payload lives in [Node.Detail]
// ([CourseDetail], [WorkDetail], [TopicDetail], [PlaceholderDetail]).
//
//	g := galaxy.New()
//	g.AddCluster(galaxy.Cluster{ID: "systems", Angle: 0, Radius: 300})
//	g.AddNode(galaxy.Node{ID: "os", Kind: galaxy.KindCourse, Cluster: "systems"})
//	g.AddNode(galaxy.Node{ID: "kernel", Kind: galaxy.KindProject, Cluster: "systems"})
//	g.AddEdge(galaxy.Edge{Source: "os", Target: "kernel", Kind: galaxy.EdgeRelated})
//
// # Edge Direction
//
// Edges point along knowledge flow: Source is learned first, Target builds on
// it. [Graph.In] therefore lists what a node draws on (its upstream) and
// [Graph.Out] lists what builds on it (its downstream).
//
// # Positions
//
// Positions are written exactly once through [Graph.Place], normally by the
// layout package. A second commit returns [ErrAlreadyPlaced]. After layout the
// graph is static and may be shared by concurrent readers.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation.
package galaxy
