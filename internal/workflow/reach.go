package workflow

import "github.com/alfredjeanlab/tempo/internal/model"

// Predecessors returns the IDs of every node with a directed path ending
// at nodeID. The result is duplicate-free; order is not significant. The
// node itself appears only when it sits on a cycle.
func Predecessors(g *model.WorkflowGraph, nodeID string) []string {
	return collect(g, nodeID, func(ix *index, n int) []int { return ix.in[n] })
}

// Successors returns the IDs of every node reachable from nodeID by
// following directed edges forward.
func Successors(g *model.WorkflowGraph, nodeID string) []string {
	return collect(g, nodeID, func(ix *index, n int) []int { return ix.out[n] })
}

func collect(g *model.WorkflowGraph, nodeID string, adj func(*index, int) []int) []string {
	ix := buildIndex(g)
	start, ok := ix.byID[nodeID]
	if !ok {
		return nil
	}
	seen := make([]bool, len(ix.ids))
	stack := append([]int(nil), adj(ix, start)...)
	var out []string
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, ix.ids[n])
		stack = append(stack, adj(ix, n)...)
	}
	return out
}
