package models

import (
	"time"
)

// TaskStatus represents the workflow status of a task
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// AllStatuses lists every workflow status in board-column order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusBacklog, StatusInProgress, StatusReview, StatusDone}
}

// ValidStatus reports whether s is one of the four workflow statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a unit of work on a project board
type Task struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'BACKLOG';index"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'MEDIUM'"`
	AssigneeID  string       `json:"assigneeId" gorm:"column:assignee_id;index"`
	ProjectID   string       `json:"projectId" gorm:"column:project_id;index;not null"`
	CreatedByID string       `json:"createdBy" gorm:"column:created_by_id"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
