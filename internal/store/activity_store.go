package store

import (
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppendActivity writes one audit entry. Callers that need the entry to be
// atomic with a state mutation call this on a WithTx store.
func (s *Store) AppendActivity(entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := s.db.Create(entry).Error; err != nil {
		return apperr.Unavailable(err, "failed to append activity entry")
	}
	return nil
}

// TaskActivity pages a task's audit entries newest first. A task with no
// entries (or no longer existing) yields an empty page, not an error.
func (s *Store) TaskActivity(taskID string, page, limit int) ([]models.ActivityLog, int64, error) {
	return s.activityWhere("task_id = ?", taskID, page, limit)
}

// ProjectActivity pages a project's audit entries newest first.
func (s *Store) ProjectActivity(projectID string, page, limit int) ([]models.ActivityLog, int64, error) {
	return s.activityWhere("project_id = ?", projectID, page, limit)
}

func (s *Store) activityWhere(cond string, arg string, page, limit int) ([]models.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := s.db.Model(&models.ActivityLog{}).Where(cond, arg)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to count activity entries")
	}

	var logs []models.ActivityLog
	err := query.Session(&gorm.Session{}).
		Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&logs).Error
	if err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to fetch activity entries")
	}
	return logs, total, nil
}
