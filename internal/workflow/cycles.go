package workflow

import "github.com/alfredjeanlab/tempo/internal/model"

// DFS colors for cycle detection.
const (
	white = iota // unvisited
	gray         // on the current DFS path
	black        // fully explored
)

// DetectCircularDependencies returns the IDs of every node that
// participates in at least one cycle, including self-loops. All nodes are
// visited, so cycles in disconnected subgraphs are found too.
func DetectCircularDependencies(g *model.WorkflowGraph) map[string]bool {
	ix := buildIndex(g)
	cyclic := make(map[string]bool)
	color := make([]int, len(ix.ids))

	// frame tracks an in-progress DFS visit with an explicit stack so deep
	// graphs cannot overflow the goroutine stack.
	type frame struct {
		node int
		next int // index into ix.out[node]
	}

	for start := range ix.ids {
		if color[start] != white {
			continue
		}
		stack := []frame{{node: start}}
		color[start] = gray
		path := []int{start}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(ix.out[f.node]) {
				next := ix.out[f.node][f.next]
				f.next++
				switch color[next] {
				case white:
					color[next] = gray
					stack = append(stack, frame{node: next})
					path = append(path, next)
				case gray:
					// Back edge: every node on the path from next to the
					// top of the stack is on a cycle.
					for i := len(path) - 1; i >= 0; i-- {
						cyclic[ix.ids[path[i]]] = true
						if path[i] == next {
							break
						}
					}
				}
			} else {
				color[f.node] = black
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
			}
		}
	}
	return cyclic
}

// CanAddEdge reports whether a directed edge from sourceID to targetID can
// be added without breaking graph invariants: both endpoints must exist, no
// self-loops, no duplicate ordered pairs, and the edge must not close a
// cycle. Equivalently, the edge is rejected when the target already reaches
// the source. The check never mutates the graph.
func CanAddEdge(g *model.WorkflowGraph, sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}
	for _, e := range g.Edges {
		if e.SourceID == sourceID && e.TargetID == targetID {
			return false
		}
	}
	ix := buildIndex(g)
	s, okS := ix.byID[sourceID]
	t, okT := ix.byID[targetID]
	if !okS || !okT {
		return false
	}
	return s != t && !ix.reaches(t, s)
}
