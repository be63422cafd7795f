package access

import (
	"testing"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/store"
	"workflow-board-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) (*Guard, *store.Store) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	st := store.New(db)

	testutil.SeedUser(db, "owner-1", "olivia", models.RoleOwner)
	testutil.SeedUser(db, "member-1", "marcus", models.RoleMember)
	testutil.SeedUser(db, "stranger-1", "sam", models.RoleMember)
	testutil.SeedProject(db, "proj-1", "owner-1", "member-1")
	testutil.SeedTask(db, "task-1", "proj-1", models.StatusBacklog)
	return NewGuard(st), st
}

func TestCanAccessProject(t *testing.T) {
	g, _ := newGuard(t)

	require.NoError(t, g.CanAccessProject("owner-1", "proj-1"))
	require.NoError(t, g.CanAccessProject("member-1", "proj-1"))

	err := g.CanAccessProject("stranger-1", "proj-1")
	require.True(t, apperr.IsForbidden(err))
}

func TestCanAccessProject_NotFoundIsDistinctFromForbidden(t *testing.T) {
	g, _ := newGuard(t)

	err := g.CanAccessProject("owner-1", "proj-missing")
	require.True(t, apperr.IsNotFound(err))
	require.False(t, apperr.IsForbidden(err))
}

func TestIsOwner(t *testing.T) {
	g, _ := newGuard(t)

	require.NoError(t, g.IsOwner("owner-1", "proj-1"))
	require.True(t, apperr.IsForbidden(g.IsOwner("member-1", "proj-1")))
	require.True(t, apperr.IsNotFound(g.IsOwner("owner-1", "proj-missing")))
}

func TestCanAccessTask(t *testing.T) {
	g, _ := newGuard(t)

	projectID, err := g.CanAccessTask("owner-1", "task-1")
	require.NoError(t, err)
	require.Equal(t, "proj-1", projectID)

	projectID, err = g.CanAccessTask("member-1", "task-1")
	require.NoError(t, err)
	require.Equal(t, "proj-1", projectID)

	_, err = g.CanAccessTask("stranger-1", "task-1")
	require.True(t, apperr.IsForbidden(err))

	_, err = g.CanAccessTask("owner-1", "task-missing")
	require.True(t, apperr.IsNotFound(err))
}

func TestInvalidateDropsStaleSnapshot(t *testing.T) {
	g, st := newGuard(t)

	// Warm the cache, then remove the member behind the guard's back.
	require.NoError(t, g.CanAccessProject("member-1", "proj-1"))
	removed, err := st.RemoveProjectMember("proj-1", "member-1")
	require.NoError(t, err)
	require.True(t, removed)

	// Cached snapshot still grants until invalidated.
	require.NoError(t, g.CanAccessProject("member-1", "proj-1"))

	g.Invalidate("proj-1")
	require.True(t, apperr.IsForbidden(g.CanAccessProject("member-1", "proj-1")))
}
