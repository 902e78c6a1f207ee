package workflow

import (
	"math"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// DerivedStatus is the board-level status computed for a node from its
// underlying task or event.
type DerivedStatus string

const (
	StatusCompleted DerivedStatus = "completed"
	StatusOverdue   DerivedStatus = "overdue"
	StatusAtRisk    DerivedStatus = "at-risk"
	StatusUpcoming  DerivedStatus = "upcoming"
)

// atRiskWindow is how close a deadline must be before a node is flagged.
const atRiskWindow = 24 * time.Hour

// NodeStatus pairs a node ID with its derived status.
type NodeStatus struct {
	ID          string        `json:"id"`
	Status      DerivedStatus `json:"status"`
	IsCompleted bool          `json:"is_completed"`
}

// NodeStatuses derives a status for each node at the given instant.
//
// Tasks: completed when the task status is completed; overdue when the due
// date has passed; at-risk when the due date is within 24 hours; otherwise
// upcoming. Events: completed once the event has ended; at-risk when it
// starts within 24 hours; otherwise upcoming. Nodes without populated data
// are reported as upcoming.
func NodeStatuses(nodes []*model.WorkflowNode, now time.Time) []NodeStatus {
	out := make([]NodeStatus, 0, len(nodes))
	for _, n := range nodes {
		status := StatusUpcoming
		switch {
		case n.ExternalType == model.NodeTask && n.Task != nil:
			status = taskStatus(n.Task, now)
		case n.ExternalType == model.NodeEvent && n.Event != nil:
			status = eventStatus(n.Event, now)
		}
		out = append(out, NodeStatus{
			ID:          n.ID,
			Status:      status,
			IsCompleted: status == StatusCompleted,
		})
	}
	return out
}

func taskStatus(t *model.Task, now time.Time) DerivedStatus {
	if t.Status == model.TaskCompleted {
		return StatusCompleted
	}
	if t.DueAt == nil {
		return StatusUpcoming
	}
	switch {
	case t.DueAt.Before(now):
		return StatusOverdue
	case t.DueAt.Sub(now) <= atRiskWindow:
		return StatusAtRisk
	default:
		return StatusUpcoming
	}
}

func eventStatus(e *model.Event, now time.Time) DerivedStatus {
	if e.EndsAt.Before(now) {
		return StatusCompleted
	}
	if e.StartsAt.Sub(now) <= atRiskWindow {
		return StatusAtRisk
	}
	return StatusUpcoming
}

// Progress returns the percentage of completed nodes, rounded to the
// nearest integer. An empty list yields 0, not NaN.
func Progress(statuses []NodeStatus) int {
	if len(statuses) == 0 {
		return 0
	}
	completed := 0
	for _, s := range statuses {
		if s.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(statuses))))
}
