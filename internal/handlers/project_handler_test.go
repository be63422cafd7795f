package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"workflow-board-api/internal/models"
	"workflow-board-api/internal/testutil"
)

func TestCreateProject_MemberRoleForbidden(t *testing.T) {
	router, db := newTestServer(t)
	member := testutil.SeedUser(db, "member-1", "marcus", models.RoleMember)

	w := doJSON(t, router, http.MethodPost, "/api/projects", bearerFor(t, member), gin.H{
		"name": "Skunkworks",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestInviteAndRemoveMemberFlow(t *testing.T) {
	router, db := newTestServer(t)
	owner := testutil.SeedUser(db, "owner-1", "olivia", models.RoleOwner)
	member := testutil.SeedUser(db, "member-1", "marcus", models.RoleMember)
	testutil.SeedProject(db, "proj-1", owner.ID)
	testutil.SeedTask(db, "task-1", "proj-1", models.StatusBacklog)

	// Not yet a member: the task is off limits
	w := doJSON(t, router, http.MethodGet, "/api/tasks/task-1", bearerFor(t, member), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Only the owner can invite
	w = doJSON(t, router, http.MethodPost, "/api/projects/proj-1/members", bearerFor(t, member), gin.H{
		"email": member.Email,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/projects/proj-1/members", bearerFor(t, owner), gin.H{
		"email": member.Email,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var project models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	require.True(t, project.IsMember(member.ID))

	// Membership takes effect immediately on the task path
	w = doJSON(t, router, http.MethodGet, "/api/tasks/task-1", bearerFor(t, member), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Inviting the same user twice is rejected
	w = doJSON(t, router, http.MethodPost, "/api/projects/proj-1/members", bearerFor(t, owner), gin.H{
		"email": member.Email,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/projects/proj-1/members/"+member.ID, bearerFor(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Removal revokes access right away
	w = doJSON(t, router, http.MethodGet, "/api/tasks/task-1", bearerFor(t, member), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestListProjects_OwnedAndJoined(t *testing.T) {
	router, db := newTestServer(t)
	owner := testutil.SeedUser(db, "owner-1", "olivia", models.RoleOwner)
	member := testutil.SeedUser(db, "member-1", "marcus", models.RoleMember)
	testutil.SeedProject(db, "proj-1", owner.ID, member.ID)
	testutil.SeedProject(db, "proj-2", owner.ID)

	w := doJSON(t, router, http.MethodGet, "/api/projects", bearerFor(t, member), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Projects []models.Project `json:"projects"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Total)
	require.Equal(t, "proj-1", resp.Projects[0].ID)

	w = doJSON(t, router, http.MethodGet, "/api/projects", bearerFor(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp.Total)
}
