// Package access decides whether a principal may act on a project or task.
// An absent entity is always NotFound and an existing one without membership
// is always Forbidden, on every path; callers must not conflate the two.
package access

import (
	"time"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/cache"
	"workflow-board-api/internal/store"
)

// membershipTTL bounds how long a cached snapshot may serve; membership
// changes invalidate eagerly, so the TTL only covers out-of-band edits.
const membershipTTL = 30 * time.Second

// membership is a cached access snapshot of one project.
type membership struct {
	ownerID string
	members map[string]struct{}
}

// Guard resolves project/task access. Read-only: it never mutates entities.
type Guard struct {
	st          *store.Store
	memberships *cache.TTLCache[string, membership]
}

// NewGuard constructs a Guard over the store.
func NewGuard(st *store.Store) *Guard {
	return &Guard{
		st:          st,
		memberships: cache.New[string, membership](),
	}
}

// Invalidate drops the cached snapshot for a project. The project service
// calls this whenever ownership or membership changes.
func (g *Guard) Invalidate(projectID string) {
	g.memberships.Delete(projectID)
}

func (g *Guard) snapshot(projectID string) (membership, error) {
	if m, ok := g.memberships.Get(projectID); ok {
		return m, nil
	}

	project, err := g.st.GetProject(projectID)
	if err != nil {
		return membership{}, err
	}

	m := membership{
		ownerID: project.OwnerID,
		members: make(map[string]struct{}, len(project.Members)),
	}
	for _, pm := range project.Members {
		m.members[pm.UserID] = struct{}{}
	}
	g.memberships.Set(projectID, m, membershipTTL)
	return m, nil
}

// CanAccessProject returns nil iff userID is the project's owner or a member.
func (g *Guard) CanAccessProject(userID, projectID string) error {
	m, err := g.snapshot(projectID)
	if err != nil {
		return err
	}
	if m.ownerID == userID {
		return nil
	}
	if _, ok := m.members[userID]; ok {
		return nil
	}
	return apperr.Forbidden("no access to project %s", projectID)
}

// IsOwner returns nil iff userID owns the project.
func (g *Guard) IsOwner(userID, projectID string) error {
	m, err := g.snapshot(projectID)
	if err != nil {
		return err
	}
	if m.ownerID != userID {
		return apperr.Forbidden("only the project owner may perform this action")
	}
	return nil
}

// CanAccessTask resolves the task's project and checks membership in a single
// storage lookup. On success it returns the project id so callers avoid a
// second query.
func (g *Guard) CanAccessTask(userID, taskID string) (string, error) {
	row, err := g.st.TaskAccess(taskID, userID)
	if err != nil {
		return "", err
	}
	if row.OwnerID == userID || row.MemberID != nil {
		return row.ProjectID, nil
	}
	return "", apperr.Forbidden("no access to task %s", taskID)
}
