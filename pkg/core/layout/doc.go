// Package layout assigns 2D positions to every node of a [galaxy.Graph].
//
// # Overview
//
// Layout runs in three steps:
//
//  1. Anchors. Each cluster's anchor is its authored angle and radius
//     converted to Cartesian coordinates and multiplied by the global scale
//     (see [Anchor]). The root is pinned at the origin and every cluster hub
//     is pinned at its anchor.
//  2. Relaxation. The remaining nodes are partitioned into (cluster, layer)
//     groups. Each group is seeded on a ring around its anchor and relaxed
//     with a small force simulation: a weak centering force, a stronger
//     radial force toward the layer's band, and a hard collision constraint.
//  3. Commit. Settled positions are written once through [galaxy.Graph.Place].
//
// # Bands
//
// Each layer owns a radial band measured from the cluster anchor, in the
// same authored units as cluster radii:
//
//	special  30 - 50
//	inner    60 - 100
//	mid     110 - 150
//	outer   160 - 215
//
// Layers without a band fall back to the innermost one.
//
// # Determinism
//
// Seeds come from a PCG generator keyed by [Options.Seed] mixed with the
// group's cluster and layer, so the same graph and options reproduce the
// same positions. Exact positions are still not part of the contract; the
// guarantees are banding and (approximate) non-overlap, summarized by
// [Result.Quality].
//
// Layout has no failure modes beyond misuse: applying it to a graph whose
// positions were already committed returns [galaxy.ErrAlreadyPlaced].
package layout
