package workflow

import "github.com/alfredjeanlab/tempo/internal/model"

// TopologicalSort returns a total order of node IDs consistent with every
// edge (source before target) using Kahn's algorithm. The second return is
// false when the graph contains a cycle, in which case the order is nil.
// Ties are broken by node declaration order, so the result is
// deterministic for a given snapshot.
func TopologicalSort(g *model.WorkflowGraph) ([]string, bool) {
	ix := buildIndex(g)
	indegree := make([]int, len(ix.ids))
	for _, targets := range ix.out {
		for _, t := range targets {
			indegree[t]++
		}
	}

	queue := make([]int, 0, len(ix.ids))
	for n := range ix.ids {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]string, 0, len(ix.ids))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, ix.ids[n])
		for _, t := range ix.out[n] {
			indegree[t]--
			if indegree[t] == 0 {
				queue = append(queue, t)
			}
		}
	}

	if len(order) != len(ix.ids) {
		return nil, false
	}
	return order, true
}
