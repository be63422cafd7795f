// Package boardsync is the client-side board state: tasks keyed by id, with
// optimistic status transitions that are confirmed by the server response or
// overridden by pushed events. Server and event state always win over stale
// local optimism; concurrent edits resolve last-event-wins.
package boardsync

import (
	"sync"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/events"
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/workflow"
)

// entry is one cached task. A pending entry holds the status to restore if
// the in-flight transition fails.
type entry struct {
	task           models.Task
	pending        bool
	previousStatus models.TaskStatus
}

// Board mirrors one project's tasks for a single local user.
type Board struct {
	mu      sync.Mutex
	userID  string
	entries map[string]entry
}

// NewBoard seeds the board from a fetched task list, e.g. after (re)connect.
func NewBoard(localUserID string, tasks []models.Task) *Board {
	b := &Board{
		userID:  localUserID,
		entries: make(map[string]entry, len(tasks)),
	}
	for _, t := range tasks {
		b.entries[t.ID] = entry{task: t}
	}
	return b
}

// Reset replaces the whole board, dropping any pending optimism; used when
// resynchronizing after a dropped connection.
func (b *Board) Reset(tasks []models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]entry, len(tasks))
	for _, t := range tasks {
		b.entries[t.ID] = entry{task: t}
	}
}

// Task returns a copy of the cached task.
func (b *Board) Task(id string) (models.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	return e.task, ok
}

// Snapshot groups the cached tasks into board columns.
func (b *Board) Snapshot() map[models.TaskStatus][]models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	board := make(map[models.TaskStatus][]models.Task, 4)
	for _, s := range models.AllStatuses() {
		board[s] = []models.Task{}
	}
	for _, e := range b.entries {
		board[e.task.Status] = append(board[e.task.Status], e.task)
	}
	return board
}

// BeginTransition applies a status change optimistically, pre-validating
// against the same workflow table the server enforces so an invalid drag
// never even leaves the client.
func (b *Board) BeginTransition(taskID string, next models.TaskStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[taskID]
	if !ok {
		return apperr.NotFound("task %s not on board", taskID)
	}
	current := e.task.Status
	if !workflow.IsValidTransition(current, next) {
		return apperr.InvalidStateTransition(current, next, workflow.AllowedNext(current))
	}

	e.previousStatus = current
	e.pending = true
	e.task.Status = next
	b.entries[taskID] = e
	return nil
}

// Confirm accepts the server response as authoritative and commits the
// pending entry.
func (b *Board) Confirm(task models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[task.ID] = entry{task: task}
}

// Rollback reverts a failed transition to the recorded previous status. It
// applies to any failure: invalid transition, authorization, or transport.
func (b *Board) Rollback(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[taskID]
	if !ok || !e.pending {
		return
	}
	e.task.Status = e.previousStatus
	e.pending = false
	e.previousStatus = ""
	b.entries[taskID] = e
}

// ApplyStatusChanged folds a pushed task:statusChanged event into the board.
// An event from another actor overwrites even a pending optimistic entry;
// one from the local actor confirms it (a second tab of the same user).
func (b *Board) ApplyStatusChanged(p events.StatusChangedPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[p.TaskID]
	if !ok {
		b.entries[p.TaskID] = entry{task: p.Task}
		return
	}
	if p.ActorID == b.userID && e.pending && e.task.Status == p.NewStatus {
		b.entries[p.TaskID] = entry{task: p.Task}
		return
	}
	b.entries[p.TaskID] = entry{task: p.Task}
}

// ApplyCreated adds a task announced by the server, ignoring duplicates.
func (b *Board) ApplyCreated(p events.TaskCreatedPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[p.Task.ID]; ok {
		return
	}
	b.entries[p.Task.ID] = entry{task: p.Task}
}

// ApplyUpdated replaces a task's fields from a task:updated event, keeping a
// pending optimistic status if one is in flight for it.
func (b *Board) ApplyUpdated(p events.TaskUpdatedPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[p.Task.ID]
	if ok && e.pending {
		optimistic := e.task.Status
		e.task = p.Task
		e.task.Status = optimistic
		b.entries[p.Task.ID] = e
		return
	}
	b.entries[p.Task.ID] = entry{task: p.Task}
}

// ApplyDeleted drops a task announced as deleted.
func (b *Board) ApplyDeleted(p events.TaskDeletedPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, p.TaskID)
}
