package store

import (
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskFilter narrows and pages task queries.
type TaskFilter struct {
	Statuses   []models.TaskStatus
	Priority   models.TaskPriority
	AssigneeID string
	Page       int
	Limit      int
}

func (f *TaskFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// GetTask loads one task by id.
func (s *Store) GetTask(id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err, "task %s not found", id)
	}
	return &task, nil
}

// CreateTask persists a new task, assigning an id if the caller left it empty.
func (s *Store) CreateTask(task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := s.db.Create(task).Error; err != nil {
		return apperr.Unavailable(err, "failed to create task")
	}
	return nil
}

// SaveTask writes all fields of an already-loaded task.
func (s *Store) SaveTask(task *models.Task) error {
	if err := s.db.Save(task).Error; err != nil {
		return apperr.Unavailable(err, "failed to update task %s", task.ID)
	}
	return nil
}

// UpdateTaskStatusCAS performs the conditional status update: the write only
// lands if the row still holds expected. Returns false when the precondition
// no longer holds, which means a concurrent transition won the race.
func (s *Store) UpdateTaskStatusCAS(id string, expected, next models.TaskStatus) (bool, error) {
	res := s.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return false, apperr.Unavailable(res.Error, "failed to update status of task %s", id)
	}
	return res.RowsAffected == 1, nil
}

// DeleteTaskCascade removes a task and all of its activity log entries in one
// transaction.
func (s *Store) DeleteTaskCascade(id string) error {
	return s.WithTx(func(tx *Store) error {
		if err := tx.db.Where("task_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
			return apperr.Unavailable(err, "failed to delete activity of task %s", id)
		}
		if err := tx.db.Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return apperr.Unavailable(err, "failed to delete task %s", id)
		}
		return nil
	})
}

// QueryTasks lists a project's tasks newest first, applying the filter.
// Returns the page plus the total row count for the filter.
func (s *Store) QueryTasks(projectID string, filter TaskFilter) ([]models.Task, int64, error) {
	filter.normalize()

	query := s.db.Model(&models.Task{}).Where("project_id = ?", projectID)
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssigneeID != "" {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to count tasks")
	}

	var tasks []models.Task
	offset := (filter.Page - 1) * filter.Limit
	err := query.Session(&gorm.Session{}).
		Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&tasks).Error
	if err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to fetch tasks")
	}
	return tasks, total, nil
}

// TasksByProject loads every task of a project newest first, for board views.
func (s *Store) TasksByProject(projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("project_id = ?", projectID).Order("created_at desc").Find(&tasks).Error
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch tasks of project %s", projectID)
	}
	return tasks, nil
}
