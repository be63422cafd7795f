package store

import (
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetProject loads a project with its member rows preloaded.
func (s *Store) GetProject(id string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Members").Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translate(err, "project %s not found", id)
	}
	return &project, nil
}

// CreateProject persists a new project.
func (s *Store) CreateProject(project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if err := s.db.Create(project).Error; err != nil {
		return apperr.Unavailable(err, "failed to create project")
	}
	return nil
}

// SaveProject writes the project row (not its member rows).
func (s *Store) SaveProject(project *models.Project) error {
	err := s.db.Omit("Members").Save(project).Error
	if err != nil {
		return apperr.Unavailable(err, "failed to update project %s", project.ID)
	}
	return nil
}

// DeleteProjectCascade removes a project with its tasks, memberships and
// activity log entries in one transaction.
func (s *Store) DeleteProjectCascade(id string) error {
	return s.WithTx(func(tx *Store) error {
		if err := tx.db.Where("project_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
			return apperr.Unavailable(err, "failed to delete activity of project %s", id)
		}
		if err := tx.db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return apperr.Unavailable(err, "failed to delete tasks of project %s", id)
		}
		if err := tx.db.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return apperr.Unavailable(err, "failed to delete members of project %s", id)
		}
		if err := tx.db.Where("id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return apperr.Unavailable(err, "failed to delete project %s", id)
		}
		return nil
	})
}

// AddProjectMember inserts one membership row.
func (s *Store) AddProjectMember(projectID, userID string) error {
	m := models.ProjectMember{ProjectID: projectID, UserID: userID}
	if err := s.db.Create(&m).Error; err != nil {
		return apperr.Unavailable(err, "failed to add member %s to project %s", userID, projectID)
	}
	return nil
}

// RemoveProjectMember deletes one membership row; reports whether it existed.
func (s *Store) RemoveProjectMember(projectID, userID string) (bool, error) {
	res := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if res.Error != nil {
		return false, apperr.Unavailable(res.Error, "failed to remove member %s from project %s", userID, projectID)
	}
	return res.RowsAffected == 1, nil
}

// ListProjectsFor pages the projects a user owns or belongs to, newest first.
func (s *Store) ListProjectsFor(userID string, page, limit int) ([]models.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	base := s.db.Model(&models.Project{}).
		Where("owner_id = ? OR id IN (?)", userID,
			s.db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to count projects")
	}

	var projects []models.Project
	err := base.Session(&gorm.Session{}).Preload("Members").
		Order("created_at desc").Limit(limit).Offset((page - 1) * limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to fetch projects")
	}
	return projects, total, nil
}

// TaskAccessRow is the result of the single-query task access lookup.
type TaskAccessRow struct {
	ProjectID string
	OwnerID   string
	MemberID  *string
}

// TaskAccess resolves, in one query, the project a task belongs to and
// whether userID is its owner or a member. NotFound means the task itself
// is absent.
func (s *Store) TaskAccess(taskID, userID string) (*TaskAccessRow, error) {
	var row TaskAccessRow
	err := s.db.Table("tasks").
		Select("tasks.project_id AS project_id, projects.owner_id AS owner_id, pm.user_id AS member_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("LEFT JOIN project_members pm ON pm.project_id = projects.id AND pm.user_id = ?", userID).
		Where("tasks.id = ?", taskID).
		Take(&row).Error
	if err != nil {
		return nil, translate(err, "task %s not found", taskID)
	}
	return &row, nil
}
