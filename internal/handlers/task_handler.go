package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/service"
	"workflow-board-api/internal/store"
)

// TransitionRequest represents a status-change request.
type TransitionRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// TransitionResponse pairs the updated task with the status it left, so
// callers needing rollback information get it without a second query.
type TransitionResponse struct {
	Task           models.Task       `json:"task"`
	PreviousStatus models.TaskStatus `json:"previousStatus"`
}

// CreateTask handles POST /api/projects/:id/tasks
func (a *API) CreateTask(c *gin.Context) {
	var req service.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	task, err := a.tasks.Create(c.Param("id"), req, c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasks handles GET /api/projects/:id/tasks
// Optional query params: status (comma separated), priority, assignee, page, limit.
func (a *API) ListTasks(c *gin.Context) {
	page, limit := pageParams(c)
	filter := store.TaskFilter{
		Priority:   models.TaskPriority(c.Query("priority")),
		AssigneeID: c.Query("assignee"),
		Page:       page,
		Limit:      limit,
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, models.TaskStatus(strings.TrimSpace(s)))
		}
	}

	tasks, total, err := a.tasks.ListByProject(c.Param("id"), c.GetString("user_id"), filter)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetBoard handles GET /api/projects/:id/board
func (a *API) GetBoard(c *gin.Context) {
	board, err := a.tasks.Board(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetTask handles GET /api/tasks/:id
func (a *API) GetTask(c *gin.Context) {
	task, err := a.tasks.Get(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /api/tasks/:id
func (a *API) UpdateTask(c *gin.Context) {
	var req service.UpdateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	task, err := a.tasks.UpdateFields(c.Param("id"), req, c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// TransitionTaskStatus handles PATCH /api/tasks/:id/status
func (a *API) TransitionTaskStatus(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	task, previous, err := a.tasks.TransitionStatus(c.Param("id"), req.Status, c.GetString("user_id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransitionResponse{Task: *task, PreviousStatus: previous})
}

// DeleteTask handles DELETE /api/tasks/:id
func (a *API) DeleteTask(c *gin.Context) {
	if err := a.tasks.Delete(c.Param("id"), c.GetString("user_id")); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully", "id": c.Param("id")})
}
