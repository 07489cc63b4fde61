package interact

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// Set is an unordered set of node IDs. A nil Set is empty.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the IDs in lexical order.
func (s Set) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// MarshalJSON encodes the set as a sorted array.
func (s Set) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON decodes a JSON array of IDs.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = nil
	for _, id := range ids {
		s.add(id)
	}
	return nil
}

func (s *Set) add(id string) {
	if *s == nil {
		*s = make(Set)
	}
	(*s)[id] = struct{}{}
}

// Index is the traversal adjacency of a graph. It is read-only after
// NewIndex and may be shared.
type Index struct {
	g    *galaxy.Graph
	up   map[string][]string
	down map[string][]string
}

// NewIndex builds the adjacency of g.
func NewIndex(g *galaxy.Graph) *Index {
	idx := &Index{
		g:    g,
		up:   make(map[string][]string),
		down: make(map[string][]string),
	}
	for _, e := range g.Edges() {
		if e.Kind == galaxy.EdgeRelated {
			if t, ok := g.Node(e.Target); !ok || !t.Kind.IsWork() {
				continue
			}
		}
		idx.up[e.Target] = append(idx.up[e.Target], e.Source)
		idx.down[e.Source] = append(idx.down[e.Source], e.Target)
	}
	return idx
}

// Graph returns the indexed graph.
func (idx *Index) Graph() *galaxy.Graph { return idx.g }

// CollectUpstream returns every node id transitively draws on, excluding id.
func (idx *Index) CollectUpstream(id string) Set { return collect(idx.up, id) }

// CollectDownstream returns every node that transitively builds on id,
// excluding id.
func (idx *Index) CollectDownstream(id string) Set { return collect(idx.down, id) }

// CollectChain returns upstream ∪ downstream ∪ {id}. An unknown id yields an
// empty set.
func (idx *Index) CollectChain(id string) Set {
	if !idx.g.HasNode(id) {
		return nil
	}
	chain := Set{id: {}}
	maps.Copy(chain, idx.CollectUpstream(id))
	maps.Copy(chain, idx.CollectDownstream(id))
	return chain
}

// CollectOverclockTargets returns the courses a project-like or portal node
// is directly related to, plus each course's direct prerequisites. Other
// kinds yield an empty set.
func (idx *Index) CollectOverclockTargets(id string) Set {
	n, ok := idx.g.Node(id)
	if !ok || !(n.Kind.IsWork() || n.Portal()) {
		return nil
	}
	var out Set
	for _, e := range idx.g.In(id) {
		if e.Kind != galaxy.EdgeRelated {
			continue
		}
		out.add(e.Source)
		for _, pe := range idx.g.In(e.Source) {
			if pe.Kind == galaxy.EdgePrerequisite {
				out.add(pe.Source)
			}
		}
	}
	return out
}

// collect runs an iterative depth-first search from start over adj. The
// visited set makes it safe on cyclic input.
func collect(adj map[string][]string, start string) Set {
	var out Set
	stack := slices.Clone(adj[start])
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == start || out.Has(id) {
			continue
		}
		out.add(id)
		stack = append(stack, adj[id]...)
	}
	return out
}
