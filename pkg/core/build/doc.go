// Package build turns authored catalog records into a classified
// [galaxy.Graph].
//
// # Overview
//
// [Build] is a pure transformation. It never fails on data-quality issues:
// unknown grades fall back to [Config.DefaultMastery], unknown node types
// become projects, unresolvable clusters fall back to the default cluster
// and dangling references are dropped and counted in
// [Result.DroppedEdges]. The only error is a structurally impossible graph,
// such as two records sharing an ID.
//
//	cfg := build.NewConfig(cat.Mapping)
//	res, err := build.Build(cat, dataset, cfg)
//	fmt.Println(res.Graph.NodeCount(), res.DroppedEdges)
//
// # Mastery
//
// Every node carries a mastery value in [0,1]:
//
//   - courses: fixed grade table (A+ 1.0 down to D 0.5, pass/satisfactory 0.7)
//   - project-like records: a constant per kind (repo 0.75 up to thesis 0.95)
//   - algorithm topics: solved / expected, clamped
//   - placeholders: 0
//
// Radius and brightness are derived from mastery; tier and layer are
// derived from kind, grade and mastery (see [Config.ClassifyTier] and
// [LayerFor]).
//
// # Edges
//
// Edges follow knowledge flow. A course prerequisite P of course C yields
// P→C; a project R related to course C yields C→R whether the relation was
// declared on the project or on the course. Duplicate relations collapse to
// one edge.
package build
