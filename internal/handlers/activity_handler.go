package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTaskActivity handles GET /api/tasks/:id/activity
// A deleted or empty task history yields an empty page, not an error.
func (a *API) GetTaskActivity(c *gin.Context) {
	taskID := c.Param("id")
	if _, err := a.guard.CanAccessTask(c.GetString("user_id"), taskID); err != nil {
		a.respondError(c, err)
		return
	}

	page, limit := pageParams(c)
	logs, total, err := a.timeline.ForTask(taskID, page, limit)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activity": logs,
		"count":    len(logs),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProjectActivity handles GET /api/projects/:id/activity
func (a *API) GetProjectActivity(c *gin.Context) {
	projectID := c.Param("id")
	if err := a.guard.CanAccessProject(c.GetString("user_id"), projectID); err != nil {
		a.respondError(c, err)
		return
	}

	page, limit := pageParams(c)
	logs, total, err := a.timeline.ForProject(projectID, page, limit)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activity": logs,
		"count":    len(logs),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
