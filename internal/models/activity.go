package models

import (
	"time"
)

// ActivityAction tags what a log entry records.
type ActivityAction string

const (
	ActionTaskCreated   ActivityAction = "TASK_CREATED"
	ActionStatusChanged ActivityAction = "STATUS_CHANGED"
	ActionTaskUpdated   ActivityAction = "TASK_UPDATED"
	ActionTaskDeleted   ActivityAction = "TASK_DELETED"
	ActionTaskAssigned  ActivityAction = "TASK_ASSIGNED"
)

// ActivityLog is one append-only audit entry. Entries are never mutated;
// they are removed only when their parent task or project is deleted.
type ActivityLog struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	TaskID        string         `json:"taskId" gorm:"column:task_id;index"`
	ProjectID     string         `json:"projectId" gorm:"column:project_id;index"`
	Action        ActivityAction `json:"action" gorm:"not null"`
	PerformedByID string         `json:"performedBy" gorm:"column:performed_by_id"`
	PreviousValue string         `json:"previousValue,omitempty"`
	NewValue      string         `json:"newValue,omitempty"`
	Metadata      string         `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// TableName specifies the table name for ActivityLog Model
func (ActivityLog) TableName() string {
	return "activity_logs"
}
