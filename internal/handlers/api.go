package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"workflow-board-api/internal/access"
	"workflow-board-api/internal/activity"
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/realtime"
	"workflow-board-api/internal/service"
	"workflow-board-api/internal/store"
)

// API holds every handler's dependencies; one instance is wired at bootstrap.
type API struct {
	store    *store.Store
	guard    *access.Guard
	tasks    *service.TaskService
	projects *service.ProjectService
	timeline *activity.Timeline
	hub      *realtime.Hub
	log      *logrus.Entry
}

// New wires the handler set.
func New(st *store.Store, guard *access.Guard, tasks *service.TaskService, projects *service.ProjectService, timeline *activity.Timeline, hub *realtime.Hub) *API {
	return &API{
		store:    st,
		guard:    guard,
		tasks:    tasks,
		projects: projects,
		timeline: timeline,
		hub:      hub,
		log:      logrus.WithField("component", "http"),
	}
}

// errorBody is the structured error payload.
type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Allowed []string    `json:"allowed,omitempty"`
}

// respondError renders a taxonomy error; anything else becomes a plain 500.
func (a *API) respondError(c *gin.Context, err error) {
	ae, ok := apperr.AsError(err)
	if !ok {
		a.log.WithError(err).Error("unclassified handler error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": errorBody{Code: "INTERNAL", Message: "internal server error"},
		})
		return
	}

	body := errorBody{Code: ae.Code, Message: ae.Message}
	if ae.Code == apperr.CodeInvalidStateTransition {
		body.Allowed = make([]string, 0, len(ae.Allowed))
		for _, s := range ae.Allowed {
			body.Allowed = append(body.Allowed, string(s))
		}
	}
	c.JSON(ae.HTTPStatus(), gin.H{"error": body})
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}
