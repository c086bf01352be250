package cascade

// order returns the glyphs reachable from source, upstream glyphs before
// their dependents. Discovery is breadth-first; the reachable subgraph is
// then sorted topologically. Glyphs on a cycle cannot be sorted and are
// appended in discovery order.
func (s *Scheduler) order(source rune) []rune {
	var discovered []rune
	s.Graph.Walk(source, func(r rune) bool {
		discovered = append(discovered, r)
		return true
	})
	reachable := make(map[rune]bool, len(discovered))
	for _, r := range discovered {
		reachable[r] = true
	}
	indegree := make(map[rune]int, len(discovered))
	for _, r := range discovered {
		for _, d := range s.Graph.DependentsOf(r) {
			if reachable[d] {
				indegree[d]++
			}
		}
	}
	sorted := make([]rune, 0, len(discovered))
	done := make(map[rune]bool, len(discovered))
	var ready []rune
	for _, r := range discovered {
		if indegree[r] == 0 {
			ready = append(ready, r)
		}
	}
	for len(ready) > 0 {
		r := ready[0]
		ready = ready[1:]
		sorted = append(sorted, r)
		done[r] = true
		for _, d := range s.Graph.DependentsOf(r) {
			if !reachable[d] {
				continue
			}
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if len(sorted) < len(discovered) {
		tracer().Infof("dependency cycle below U+%04X, %d glyphs processed best-effort",
			source, len(discovered)-len(sorted))
		for _, r := range discovered {
			if !done[r] {
				sorted = append(sorted, r)
			}
		}
	}
	return sorted
}
