/*
Package depgraph maintains the reverse dependency index of a glyph set:
for every component glyph it knows the glyphs whose derivation list names
it.

The index is derived state. It can always be rebuilt from the character
set, which is the fallback for any bookkeeping error in the incremental
updates. Only direct (one-hop) dependents are reported; transitive
traversal is left to the cascade.

The graph is not safe for concurrent mutation. A session owns exactly one
graph and serializes edits.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package depgraph

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.depgraph'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.depgraph")
}

// Graph maps a component's codepoint to the set of dependent codepoints.
type Graph struct {
	dependents map[rune]*treeset.Set
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{dependents: make(map[rune]*treeset.Set)}
}

// Rebuild discards all edges and reconstructs them from chars. Component
// names are resolved through lookup; unknown names and self references do
// not produce edges.
func (g *Graph) Rebuild(chars []*glyph.Character, lookup glyph.Lookup) {
	g.dependents = make(map[rune]*treeset.Set)
	for _, ch := range chars {
		if ch == nil {
			continue
		}
		codes, unknown := glyph.Codes(lookup, ch.Components())
		if len(unknown) > 0 {
			tracer().Debugf("%s references unknown components %v", ch.Name, unknown)
		}
		for _, c := range codes {
			g.AddEdge(c, ch.Code)
		}
	}
	tracer().Debugf("dependency graph rebuilt for %d characters, %d sources", len(chars), g.Len())
}

// AddEdge records that dependent derives from component. Self edges are
// ignored.
func (g *Graph) AddEdge(component, dependent rune) {
	if component == dependent {
		tracer().Debugf("ignoring self edge U+%04X", component)
		return
	}
	set, ok := g.dependents[component]
	if !ok {
		set = treeset.NewWith(utils.Int32Comparator)
		g.dependents[component] = set
	}
	set.Add(dependent)
}

// RemoveEdge deletes the edge component → dependent, if present.
func (g *Graph) RemoveEdge(component, dependent rune) {
	set, ok := g.dependents[component]
	if !ok {
		return
	}
	set.Remove(dependent)
	if set.Empty() {
		delete(g.dependents, component)
	}
}

// HasEdge reports whether dependent is registered as a dependent of component.
func (g *Graph) HasEdge(component, dependent rune) bool {
	set, ok := g.dependents[component]
	return ok && set.Contains(dependent)
}

// OnLinkChanged updates the edges of code after its component list changed
// from old to new. Components occurring in both lists keep their edge.
func (g *Graph) OnLinkChanged(code rune, old, new []rune) {
	keep := make(map[rune]bool, len(new))
	for _, c := range new {
		keep[c] = true
	}
	for _, c := range old {
		if !keep[c] {
			g.RemoveEdge(c, code)
		}
	}
	for _, c := range new {
		g.AddEdge(c, code)
	}
}

// DependentsOf returns the direct dependents of code in ascending
// codepoint order.
func (g *Graph) DependentsOf(code rune) []rune {
	set, ok := g.dependents[code]
	if !ok {
		return nil
	}
	deps := make([]rune, 0, set.Size())
	for _, v := range set.Values() {
		deps = append(deps, v.(rune))
	}
	return deps
}

// Remove deletes code from the graph, both as a component and as a
// dependent.
func (g *Graph) Remove(code rune) {
	delete(g.dependents, code)
	for c, set := range g.dependents {
		set.Remove(code)
		if set.Empty() {
			delete(g.dependents, c)
		}
	}
}

// Len returns the number of glyphs having at least one dependent.
func (g *Graph) Len() int {
	return len(g.dependents)
}

// WouldCycle reports whether deriving code from components would close a
// cycle, i.e. whether any of the components is code itself or is reachable
// from code by following dependents.
func (g *Graph) WouldCycle(code rune, components []rune) bool {
	targets := make(map[rune]bool, len(components))
	for _, c := range components {
		if c == code {
			return true
		}
		targets[c] = true
	}
	if len(targets) == 0 {
		return false
	}
	found := false
	g.Walk(code, func(r rune) bool {
		if targets[r] {
			found = true
			return false
		}
		return true
	})
	return found
}

// Walk visits every glyph transitively depending on code in breadth-first
// order, each at most once. code itself is not visited. Walk stops early
// if visit returns false.
func (g *Graph) Walk(code rune, visit func(rune) bool) {
	seen := hashset.New(code)
	queue := linkedlistqueue.New()
	queue.Enqueue(code)
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		for _, d := range g.DependentsOf(v.(rune)) {
			if seen.Contains(d) {
				continue
			}
			seen.Add(d)
			if !visit(d) {
				return
			}
			queue.Enqueue(d)
		}
	}
}
