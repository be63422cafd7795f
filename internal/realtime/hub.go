// Package realtime manages live connections and per-project broadcast rooms.
// The Hub is constructed once at bootstrap and handed to whoever publishes;
// there is no package-level instance.
package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"

	"workflow-board-api/internal/events"
)

// Client is the transport side of one live connection. Send reports false
// when the write failed and the connection should be torn down.
type Client interface {
	Send(message []byte) bool
	Close()
}

// AccessChecker admits subscribers into project rooms.
type AccessChecker interface {
	CanAccessProject(userID, projectID string) error
}

// sendQueueSize bounds each connection's outbound queue. A subscriber that
// falls this far behind is disconnected rather than allowed to stall
// publishers.
const sendQueueSize = 64

// Subscription binds one live connection to a principal and its room
// memberships. It lives exactly as long as the connection.
type Subscription struct {
	userID string
	client Client

	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

// UserID returns the authenticated principal behind the connection.
func (s *Subscription) UserID() string {
	return s.userID
}

// enqueue hands a frame to the writer goroutine without blocking. Reports
// false when the queue is full.
func (s *Subscription) enqueue(frame []byte) bool {
	select {
	case <-s.closed:
		return true // already torn down; drop silently
	default:
	}
	select {
	case s.out <- frame:
		return true
	default:
		return false
	}
}

func (s *Subscription) writeLoop() {
	for {
		select {
		case <-s.closed:
			return
		case frame := <-s.out:
			if !s.client.Send(frame) {
				return
			}
		}
	}
}

// Hub maintains the room registry and fans events out to subscribers.
type Hub struct {
	guard AccessChecker
	log   *logrus.Entry

	mu    sync.Mutex
	rooms map[string]map[*Subscription]struct{}
	subs  map[*Subscription]map[string]struct{} // reverse index for teardown
}

// NewHub constructs a Hub that admits room joins through guard.
func NewHub(guard AccessChecker) *Hub {
	return &Hub{
		guard: guard,
		log:   logrus.WithField("component", "realtime-hub"),
		rooms: make(map[string]map[*Subscription]struct{}),
		subs:  make(map[*Subscription]map[string]struct{}),
	}
}

func projectRoom(projectID string) string { return "project:" + projectID }
func userRoom(userID string) string       { return "user:" + userID }

// Register creates a Subscription for an authenticated connection, starts
// its writer and places it in its personal room.
func (h *Hub) Register(userID string, client Client) *Subscription {
	sub := &Subscription{
		userID: userID,
		client: client,
		out:    make(chan []byte, sendQueueSize),
		closed: make(chan struct{}),
	}
	go sub.writeLoop()

	h.mu.Lock()
	h.subs[sub] = make(map[string]struct{})
	h.mu.Unlock()
	h.join(sub, userRoom(userID))
	return sub
}

// Unregister removes the connection from every room atomically and stops its
// writer. No further events are delivered to it. Safe to call more than once.
func (h *Hub) Unregister(sub *Subscription) {
	h.mu.Lock()
	rooms := h.subs[sub]
	delete(h.subs, sub)
	for room := range rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, sub)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()

	sub.once.Do(func() {
		close(sub.closed)
		sub.client.Close()
	})
}

func (h *Hub) join(sub *Subscription, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	memberships, ok := h.subs[sub]
	if !ok {
		return // already unregistered
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Subscription]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	memberships[room] = struct{}{}
}

func (h *Hub) leave(sub *Subscription, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, sub)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if memberships, ok := h.subs[sub]; ok {
		delete(memberships, room)
	}
}

// JoinProject admits the connection into a project room after consulting the
// guard. Denial leaves room membership unchanged and does not disconnect.
func (h *Hub) JoinProject(sub *Subscription, projectID string) error {
	if err := h.guard.CanAccessProject(sub.userID, projectID); err != nil {
		return err
	}
	h.join(sub, projectRoom(projectID))
	return nil
}

// LeaveProject removes only that room membership.
func (h *Hub) LeaveProject(sub *Subscription, projectID string) {
	h.leave(sub, projectRoom(projectID))
}

// InProject reports room membership; used by the ws handler and tests.
func (h *Hub) InProject(sub *Subscription, projectID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.rooms[projectRoom(projectID)][sub]
	return ok
}

// PublishToProject delivers the event to every connection in the project's
// room, at most once per connection. A full outbound queue disconnects that
// subscriber; the publisher never blocks and is never told about failures.
func (h *Hub) PublishToProject(projectID, event string, payload any) {
	h.publish(projectRoom(projectID), event, payload)
}

// PublishToUser delivers a direct notification to all of a user's
// connections.
func (h *Hub) PublishToUser(userID, event string, payload any) {
	h.publish(userRoom(userID), event, payload)
}

func (h *Hub) publish(room, event string, payload any) {
	frame, err := events.Marshal(event, payload)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("drop unmarshalable event")
		return
	}

	h.mu.Lock()
	targets := make([]*Subscription, 0, len(h.rooms[room]))
	for sub := range h.rooms[room] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	var overflowed []*Subscription
	for _, sub := range targets {
		if !sub.enqueue(frame) {
			overflowed = append(overflowed, sub)
		}
	}
	for _, sub := range overflowed {
		h.log.WithField("user", sub.userID).Warn("subscriber queue overflow, disconnecting")
		h.Unregister(sub)
	}
}

// Emit sends an event to a single connection through its queue, keeping
// ordering with broadcasts.
func (h *Hub) Emit(sub *Subscription, event string, payload any) {
	frame, err := events.Marshal(event, payload)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("drop unmarshalable event")
		return
	}
	if !sub.enqueue(frame) {
		h.Unregister(sub)
	}
}
