package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/events"

	"github.com/stretchr/testify/require"
)

// fakeClient collects frames; block makes Send hang until released to
// simulate a slow consumer.
type fakeClient struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
	block  chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{}
}

func (c *fakeClient) Send(message []byte) bool {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.frames = append(c.frames, message)
	return true
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeClient) received() []events.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.Envelope, 0, len(c.frames))
	for _, f := range c.frames {
		var env events.Envelope
		_ = json.Unmarshal(f, &env)
		out = append(out, env)
	}
	return out
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// allowGuard admits every user into every project except those listed in
// denied, and reports missing projects as NotFound.
type allowGuard struct {
	denied  map[string]bool // userID -> denied
	missing map[string]bool // projectID -> absent
}

func (g *allowGuard) CanAccessProject(userID, projectID string) error {
	if g.missing[projectID] {
		return apperr.NotFound("project %s not found", projectID)
	}
	if g.denied[userID] {
		return apperr.Forbidden("no access to project %s", projectID)
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPublishReachesAllRoomMembers(t *testing.T) {
	hub := NewHub(&allowGuard{})

	owner, member := newFakeClient(), newFakeClient()
	ownerSub := hub.Register("owner-1", owner)
	memberSub := hub.Register("member-1", member)
	require.NoError(t, hub.JoinProject(ownerSub, "proj-1"))
	require.NoError(t, hub.JoinProject(memberSub, "proj-1"))

	hub.PublishToProject("proj-1", events.TaskStatusChanged, events.StatusChangedPayload{
		TaskID: "task-1", ActorID: "member-1",
	})

	// Delivery includes the originator; the actor id in the payload is what
	// lets clients suppress their own update.
	for _, c := range []*fakeClient{owner, member} {
		waitFor(t, func() bool { return len(c.received()) == 1 })
		env := c.received()[0]
		require.Equal(t, events.TaskStatusChanged, env.Event)
		var payload events.StatusChangedPayload
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		require.Equal(t, "task-1", payload.TaskID)
		require.Equal(t, "member-1", payload.ActorID)
	}
}

func TestJoinDeniedLeavesMembershipUnchanged(t *testing.T) {
	hub := NewHub(&allowGuard{denied: map[string]bool{"stranger-1": true}})

	c := newFakeClient()
	sub := hub.Register("stranger-1", c)

	err := hub.JoinProject(sub, "proj-1")
	require.True(t, apperr.IsForbidden(err))
	require.False(t, hub.InProject(sub, "proj-1"))

	// Denied connection stays alive but receives no broadcasts for the room.
	hub.PublishToProject("proj-1", events.TaskDeleted, events.TaskDeletedPayload{TaskID: "t"})
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, c.received())
	require.False(t, c.isClosed())
}

func TestJoinMissingProjectIsNotFound(t *testing.T) {
	hub := NewHub(&allowGuard{missing: map[string]bool{"ghost": true}})
	sub := hub.Register("u-1", newFakeClient())
	require.True(t, apperr.IsNotFound(hub.JoinProject(sub, "ghost")))
}

func TestLeaveProjectRemovesOnlyThatRoom(t *testing.T) {
	hub := NewHub(&allowGuard{})
	c := newFakeClient()
	sub := hub.Register("u-1", c)
	require.NoError(t, hub.JoinProject(sub, "proj-1"))
	require.NoError(t, hub.JoinProject(sub, "proj-2"))

	hub.LeaveProject(sub, "proj-1")
	require.False(t, hub.InProject(sub, "proj-1"))
	require.True(t, hub.InProject(sub, "proj-2"))

	hub.PublishToProject("proj-1", events.TaskDeleted, events.TaskDeletedPayload{TaskID: "a"})
	hub.PublishToProject("proj-2", events.TaskDeleted, events.TaskDeletedPayload{TaskID: "b"})

	waitFor(t, func() bool { return len(c.received()) == 1 })
	var payload events.TaskDeletedPayload
	require.NoError(t, json.Unmarshal(c.received()[0].Data, &payload))
	require.Equal(t, "b", payload.TaskID)
}

func TestUnregisterDropsAllMemberships(t *testing.T) {
	hub := NewHub(&allowGuard{})
	c := newFakeClient()
	sub := hub.Register("u-1", c)
	require.NoError(t, hub.JoinProject(sub, "proj-1"))
	require.NoError(t, hub.JoinProject(sub, "proj-2"))

	hub.Unregister(sub)
	require.True(t, c.isClosed())
	require.False(t, hub.InProject(sub, "proj-1"))
	require.False(t, hub.InProject(sub, "proj-2"))

	// Joining after unregister is a no-op
	require.NoError(t, hub.JoinProject(sub, "proj-1"))
	require.False(t, hub.InProject(sub, "proj-1"))
}

func TestSlowSubscriberIsDisconnectedNotBlocking(t *testing.T) {
	hub := NewHub(&allowGuard{})

	slow := newFakeClient()
	slow.block = make(chan struct{})
	fast := newFakeClient()

	slowSub := hub.Register("slow", slow)
	fastSub := hub.Register("fast", fast)
	require.NoError(t, hub.JoinProject(slowSub, "proj-1"))
	require.NoError(t, hub.JoinProject(fastSub, "proj-1"))

	// One frame parks in the blocked writer, sendQueueSize fill the queue,
	// the next one overflows.
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendQueueSize+2; i++ {
			hub.PublishToProject("proj-1", events.TaskDeleted, events.TaskDeletedPayload{TaskID: "t"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	waitFor(t, func() bool { return slow.isClosed() })
	require.False(t, hub.InProject(slowSub, "proj-1"))

	close(slow.block)
	waitFor(t, func() bool { return len(fast.received()) == sendQueueSize+2 })
}

func TestPersonalRoomDelivery(t *testing.T) {
	hub := NewHub(&allowGuard{})
	a, b := newFakeClient(), newFakeClient()
	hub.Register("u-1", a)
	hub.Register("u-2", b)

	hub.PublishToUser("u-1", "notice", events.ErrorPayload{Message: "hi"})
	waitFor(t, func() bool { return len(a.received()) == 1 })
	require.Empty(t, b.received())
}
