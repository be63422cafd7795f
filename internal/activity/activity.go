// Package activity is the audit side of the task service: entry construction
// for the append path and the read-side timelines derived from the log.
package activity

import (
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/store"
)

// NewEntry builds an audit entry ready for appending. Previous/new values are
// free-form strings; status changes store the two statuses.
func NewEntry(taskID, projectID string, action models.ActivityAction, performedBy, previous, next string) *models.ActivityLog {
	return &models.ActivityLog{
		TaskID:        taskID,
		ProjectID:     projectID,
		Action:        action,
		PerformedByID: performedBy,
		PreviousValue: previous,
		NewValue:      next,
	}
}

// Timeline serves task and project history reconstructed from the log.
type Timeline struct {
	st *store.Store
}

// NewTimeline constructs a Timeline over the store.
func NewTimeline(st *store.Store) *Timeline {
	return &Timeline{st: st}
}

// ForTask pages a task's entries newest first. A deleted task yields an
// empty page, not an error: its entries were cascaded away.
func (t *Timeline) ForTask(taskID string, page, limit int) ([]models.ActivityLog, int64, error) {
	return t.st.TaskActivity(taskID, page, limit)
}

// ForProject pages a project's entries newest first.
func (t *Timeline) ForProject(projectID string, page, limit int) ([]models.ActivityLog, int64, error) {
	return t.st.ProjectActivity(projectID, page, limit)
}
