package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/service"
)

// InviteMemberRequest adds a user to a project by email.
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateProject handles POST /api/projects
func (a *API) CreateProject(c *gin.Context) {
	var req service.CreateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	project, err := a.projects.Create(req, c.GetString("user_id"), models.UserRole(c.GetString("role")))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// ListProjects handles GET /api/projects
func (a *API) ListProjects(c *gin.Context) {
	page, limit := pageParams(c)
	projects, total, err := a.projects.List(c.GetString("user_id"), page, limit)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProject handles GET /api/projects/:id
func (a *API) GetProject(c *gin.Context) {
	project, err := a.projects.Get(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProject handles PUT /api/projects/:id
func (a *API) UpdateProject(c *gin.Context) {
	var req service.UpdateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	project, err := a.projects.Update(c.Param("id"), req, c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/:id
func (a *API) DeleteProject(c *gin.Context) {
	if err := a.projects.Delete(c.Param("id"), c.GetString("user_id")); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully", "id": c.Param("id")})
}

// InviteMember handles POST /api/projects/:id/members
func (a *API) InviteMember(c *gin.Context) {
	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	project, err := a.projects.InviteMember(c.Param("id"), req.Email, c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// RemoveMember handles DELETE /api/projects/:id/members/:userId
func (a *API) RemoveMember(c *gin.Context) {
	project, err := a.projects.RemoveMember(c.Param("id"), c.Param("userId"), c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
