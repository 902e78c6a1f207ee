package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// ValidationResult accumulates every structural problem found in a graph
// rather than stopping at the first.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateGraph checks a board snapshot for structural integrity: every
// edge must reference existing nodes, self-loops are forbidden, and the
// graph must be acyclic. It never returns an error; all findings are
// reported in the result.
func ValidateGraph(g *model.WorkflowGraph) ValidationResult {
	var errs []string

	nodeIDs := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeIDs[n.ID] = true
	}

	for _, e := range g.Edges {
		if !nodeIDs[e.SourceID] {
			errs = append(errs, fmt.Sprintf("Edge %s references non-existent source node %s", e.ID, e.SourceID))
		}
		if !nodeIDs[e.TargetID] {
			errs = append(errs, fmt.Sprintf("Edge %s references non-existent target node %s", e.ID, e.TargetID))
		}
		if e.SourceID == e.TargetID {
			errs = append(errs, fmt.Sprintf("Self-loop detected on node %s", e.SourceID))
		}
	}

	if cyclic := DetectCircularDependencies(g); len(cyclic) > 0 {
		ids := make([]string, 0, len(cyclic))
		for id := range cyclic {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		errs = append(errs, "Circular dependencies detected: "+strings.Join(ids, ", "))
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
