// Package interact computes what a focused node reaches and how every node
// and edge should be emphasized while it is focused.
//
// # Traversal
//
// [NewIndex] builds the adjacency of a graph once. Upstream follows edges
// backwards (what a node draws on), downstream follows them forwards (what
// builds on it). Related edges are only followed into project-like targets.
//
//	idx := interact.NewIndex(g)
//	up := idx.CollectUpstream("compilers")    // prerequisites, transitively
//	chain := idx.CollectChain("compilers")    // up ∪ down ∪ {compilers}
//	oc := idx.CollectOverclockTargets("kernel")
//
// Overclock targets are deliberately shallow: the courses directly related
// to a project-like node plus their direct prerequisites, one hop and no
// further.
//
// # Engine
//
// [Engine] turns hover, select and clear events into [State] snapshots.
// Selection wins over hover for the focus. Empty or unknown IDs are treated
// as "nothing", so a stale ID from a client simply clears that slot.
//
// # Animation
//
// [Animator] moves flow particles along the active edges of a state. It is
// purely cosmetic; [Animator.Stop] is the only way to cancel it.
//
// Neither Engine nor Animator is safe for concurrent use.
package interact
