package workflow

import (
	"workflow-board-api/internal/models"
)

// transitions defines the allowed status moves. The chain is strictly
// linear with no skips and no back-transitions; DONE is terminal.
var transitions = map[models.TaskStatus][]models.TaskStatus{
	models.StatusBacklog:    {models.StatusInProgress},
	models.StatusInProgress: {models.StatusReview},
	models.StatusReview:     {models.StatusDone},
	models.StatusDone:       {},
}

// AllowedNext returns the statuses reachable from s. The result is a copy;
// callers may keep it. Unknown statuses have no allowed moves.
func AllowedNext(s models.TaskStatus) []models.TaskStatus {
	next, ok := transitions[s]
	if !ok {
		return nil
	}
	out := make([]models.TaskStatus, len(next))
	copy(out, next)
	return out
}

// IsValidTransition reports whether a task in status from may move to to.
// A transition with from == to is invalid, not a no-op.
func IsValidTransition(from, to models.TaskStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
