// Package events defines the realtime wire protocol shared by the hub,
// the publishing services, and the client-side board cache.
package events

import (
	"encoding/json"

	"workflow-board-api/internal/models"
)

// Server-to-client event names, delivered per project room.
const (
	TaskCreated       = "task:created"
	TaskUpdated       = "task:updated"
	TaskStatusChanged = "task:statusChanged"
	TaskDeleted       = "task:deleted"
	JoinedProject     = "joined:project"
	Error             = "error"
)

// Client-to-server message types.
const (
	JoinProject  = "join:project"
	LeaveProject = "leave:project"
)

// Envelope frames every server-to-client message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound is a client-to-server room request.
type Inbound struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId"`
}

// TaskCreatedPayload accompanies task:created.
type TaskCreatedPayload struct {
	Task models.Task `json:"task"`
}

// TaskUpdatedPayload accompanies task:updated.
type TaskUpdatedPayload struct {
	Task models.Task `json:"task"`
}

// StatusChangedPayload accompanies task:statusChanged. ActorID lets
// subscribers tell their own updates apart from everyone else's.
type StatusChangedPayload struct {
	TaskID         string            `json:"taskId"`
	PreviousStatus models.TaskStatus `json:"previousStatus"`
	NewStatus      models.TaskStatus `json:"newStatus"`
	ActorID        string            `json:"actorId"`
	Task           models.Task       `json:"task"`
}

// TaskDeletedPayload accompanies task:deleted. Only the id survives the
// delete, so that is all it carries.
type TaskDeletedPayload struct {
	TaskID string `json:"taskId"`
}

// JoinedProjectPayload acknowledges a granted join:project request.
type JoinedProjectPayload struct {
	ProjectID string `json:"projectId"`
}

// ErrorPayload reports a rejected room request without disconnecting.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Marshal frames event+payload into an envelope ready for the wire.
func Marshal(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
