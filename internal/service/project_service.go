package service

import (
	"github.com/sirupsen/logrus"

	"workflow-board-api/internal/access"
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/store"
)

// CreateProjectInput is the accepted payload for project creation.
type CreateProjectInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateProjectInput carries the optional fields of a project update.
type UpdateProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ProjectService manages projects and their member sets. Every membership
// mutation invalidates the access guard's cached snapshot.
type ProjectService struct {
	st    *store.Store
	guard *access.Guard
	log   *logrus.Entry
}

// NewProjectService wires the project service.
func NewProjectService(st *store.Store, guard *access.Guard) *ProjectService {
	return &ProjectService{
		st:    st,
		guard: guard,
		log:   logrus.WithField("component", "project-service"),
	}
}

// Create persists a new project owned by the creator. Only users with the
// owner role may create projects.
func (s *ProjectService) Create(in CreateProjectInput, creatorID string, creatorRole models.UserRole) (*models.Project, error) {
	if creatorRole != models.RoleOwner {
		return nil, apperr.Forbidden("only users with the owner role can create projects")
	}

	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     creatorID,
	}
	if err := s.st.CreateProject(project); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"project": project.ID, "owner": creatorID}).Info("project created")
	return project, nil
}

// List pages the projects the actor owns or belongs to.
func (s *ProjectService) List(actorID string, page, limit int) ([]models.Project, int64, error) {
	return s.st.ListProjectsFor(actorID, page, limit)
}

// Get loads one project the actor may see.
func (s *ProjectService) Get(projectID, actorID string) (*models.Project, error) {
	if err := s.guard.CanAccessProject(actorID, projectID); err != nil {
		return nil, err
	}
	return s.st.GetProject(projectID)
}

// Update applies a partial update; owner only.
func (s *ProjectService) Update(projectID string, in UpdateProjectInput, actorID string) (*models.Project, error) {
	if err := s.guard.IsOwner(actorID, projectID); err != nil {
		return nil, err
	}

	project, err := s.st.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if err := s.st.SaveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project with its tasks and activity log; owner only.
func (s *ProjectService) Delete(projectID, actorID string) error {
	if err := s.guard.IsOwner(actorID, projectID); err != nil {
		return err
	}
	if err := s.st.DeleteProjectCascade(projectID); err != nil {
		return err
	}
	s.guard.Invalidate(projectID)
	s.log.WithField("project", projectID).Info("project deleted")
	return nil
}

// InviteMember adds the user with the given email to the member set; owner
// only. The owner is never duplicated into members.
func (s *ProjectService) InviteMember(projectID, email, actorID string) (*models.Project, error) {
	if err := s.guard.IsOwner(actorID, projectID); err != nil {
		return nil, err
	}

	user, err := s.st.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	project, err := s.st.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.IsOwner(user.ID) {
		return nil, apperr.InvalidArgument("user is already the project owner")
	}
	if project.IsMember(user.ID) {
		return nil, apperr.InvalidArgument("user is already a project member")
	}

	if err := s.st.AddProjectMember(projectID, user.ID); err != nil {
		return nil, err
	}
	s.guard.Invalidate(projectID)

	return s.st.GetProject(projectID)
}

// RemoveMember drops a user from the member set; owner only. Removing a user
// who is not a member is NotFound.
func (s *ProjectService) RemoveMember(projectID, userID, actorID string) (*models.Project, error) {
	if err := s.guard.IsOwner(actorID, projectID); err != nil {
		return nil, err
	}

	removed, err := s.st.RemoveProjectMember(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperr.NotFound("user %s is not a member of project %s", userID, projectID)
	}
	s.guard.Invalidate(projectID)

	return s.st.GetProject(projectID)
}
