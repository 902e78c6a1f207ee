// Package workflow provides pure functions over workflow board snapshots:
// cycle detection, edge admission, reachability, topological ordering, and
// status derivation. Nothing here mutates the graph; callers own the
// snapshot lifecycle.
package workflow

import "github.com/alfredjeanlab/tempo/internal/model"

// index is an arena-style view of a graph: node IDs mapped to dense
// indices with forward and reverse adjacency lists, so traversals avoid
// repeated linear scans over the node slice.
type index struct {
	ids     []string
	byID    map[string]int
	out     [][]int
	in      [][]int
	skipped int // edges referencing unknown nodes
}

func buildIndex(g *model.WorkflowGraph) *index {
	ix := &index{
		ids:  make([]string, 0, len(g.Nodes)),
		byID: make(map[string]int, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		if _, ok := ix.byID[n.ID]; ok {
			continue // ignore duplicate node IDs; first occurrence wins
		}
		ix.byID[n.ID] = len(ix.ids)
		ix.ids = append(ix.ids, n.ID)
	}
	ix.out = make([][]int, len(ix.ids))
	ix.in = make([][]int, len(ix.ids))
	for _, e := range g.Edges {
		s, okS := ix.byID[e.SourceID]
		t, okT := ix.byID[e.TargetID]
		if !okS || !okT {
			ix.skipped++
			continue
		}
		ix.out[s] = append(ix.out[s], t)
		ix.in[t] = append(ix.in[t], s)
	}
	return ix
}

// reaches reports whether to is reachable from from by following directed
// edges, using an explicit stack. A node does not trivially reach itself;
// from == to is reachable only through a cycle.
func (ix *index) reaches(from, to int) bool {
	seen := make([]bool, len(ix.ids))
	stack := []int{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range ix.out[n] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
