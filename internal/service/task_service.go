package service

import (
	"github.com/sirupsen/logrus"

	"workflow-board-api/internal/access"
	"workflow-board-api/internal/activity"
	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/events"
	"workflow-board-api/internal/models"
	"workflow-board-api/internal/store"
	"workflow-board-api/internal/workflow"
)

// EventPublisher fans an event out to every live connection in a project
// room. Publishing is best effort: delivery failures never surface here.
type EventPublisher interface {
	PublishToProject(projectID, event string, payload any)
}

// CreateTaskInput is the accepted payload for task creation. A status field
// is deliberately absent: new tasks always start in BACKLOG.
type CreateTaskInput struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	AssigneeID  string              `json:"assigneeId"`
}

// UpdateTaskInput carries the optional fields of a partial update. Status is
// not among them; transitions go through TransitionStatus only.
type UpdateTaskInput struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Priority    *models.TaskPriority `json:"priority"`
	AssigneeID  *string              `json:"assigneeId"`
}

// TaskService orchestrates task mutations: policy validation, authorization,
// persistence, audit logging and event emission.
type TaskService struct {
	st     *store.Store
	guard  *access.Guard
	events EventPublisher
	log    *logrus.Entry
}

// NewTaskService wires the task service.
func NewTaskService(st *store.Store, guard *access.Guard, publisher EventPublisher) *TaskService {
	return &TaskService{
		st:     st,
		guard:  guard,
		events: publisher,
		log:    logrus.WithField("component", "task-service"),
	}
}

// Create persists a new task in BACKLOG. An assignee, if given, must be a
// participant of the project.
func (s *TaskService) Create(projectID string, in CreateTaskInput, creatorID string) (*models.Task, error) {
	if err := s.guard.CanAccessProject(creatorID, projectID); err != nil {
		return nil, err
	}

	if in.AssigneeID != "" {
		if err := s.guard.CanAccessProject(in.AssigneeID, projectID); err != nil {
			if apperr.IsForbidden(err) {
				return nil, apperr.InvalidArgument("assignee must be a project participant")
			}
			return nil, err
		}
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, apperr.InvalidArgument("unknown priority %q", priority)
	}

	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.StatusBacklog,
		Priority:    priority,
		AssigneeID:  in.AssigneeID,
		ProjectID:   projectID,
		CreatedByID: creatorID,
	}

	err := s.st.WithTx(func(tx *store.Store) error {
		if err := tx.CreateTask(task); err != nil {
			return err
		}
		entry := activity.NewEntry(task.ID, projectID, models.ActionTaskCreated, creatorID, "", task.Title)
		return tx.AppendActivity(entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task": task.ID, "project": projectID}).Info("task created")
	s.events.PublishToProject(projectID, events.TaskCreated, events.TaskCreatedPayload{Task: *task})
	return task, nil
}

// Get loads one task the actor may see.
func (s *TaskService) Get(taskID, actorID string) (*models.Task, error) {
	if _, err := s.guard.CanAccessTask(actorID, taskID); err != nil {
		return nil, err
	}
	return s.st.GetTask(taskID)
}

// UpdateFields applies a partial update. Unspecified fields are left alone;
// status is never touched here so the state machine cannot be bypassed.
func (s *TaskService) UpdateFields(taskID string, in UpdateTaskInput, actorID string) (*models.Task, error) {
	projectID, err := s.guard.CanAccessTask(actorID, taskID)
	if err != nil {
		return nil, err
	}

	task, err := s.st.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	previousAssignee := task.AssigneeID
	assigneeChanged := false

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		if !models.ValidPriority(*in.Priority) {
			return nil, apperr.InvalidArgument("unknown priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.AssigneeID != nil && *in.AssigneeID != previousAssignee {
		if *in.AssigneeID != "" {
			if err := s.guard.CanAccessProject(*in.AssigneeID, projectID); err != nil {
				if apperr.IsForbidden(err) {
					return nil, apperr.InvalidArgument("assignee must be a project participant")
				}
				return nil, err
			}
		}
		task.AssigneeID = *in.AssigneeID
		assigneeChanged = true
	}

	action := models.ActionTaskUpdated
	prev, next := "", ""
	if assigneeChanged {
		action = models.ActionTaskAssigned
		prev, next = previousAssignee, task.AssigneeID
	}

	err = s.st.WithTx(func(tx *store.Store) error {
		if err := tx.SaveTask(task); err != nil {
			return err
		}
		return tx.AppendActivity(activity.NewEntry(task.ID, projectID, action, actorID, prev, next))
	})
	if err != nil {
		return nil, err
	}

	s.events.PublishToProject(projectID, events.TaskUpdated, events.TaskUpdatedPayload{Task: *task})
	return task, nil
}

// TransitionStatus moves a task along the workflow chain. The persisted
// update is conditioned on the status the transition was validated against,
// so of two racing transitions exactly one wins; the loser gets Conflict.
// Returns the updated task and the previous status.
func (s *TaskService) TransitionStatus(taskID string, requested models.TaskStatus, actorID string) (*models.Task, models.TaskStatus, error) {
	projectID, err := s.guard.CanAccessTask(actorID, taskID)
	if err != nil {
		return nil, "", err
	}

	task, err := s.st.GetTask(taskID)
	if err != nil {
		return nil, "", err
	}

	previous := task.Status
	if !workflow.IsValidTransition(previous, requested) {
		return nil, "", apperr.InvalidStateTransition(previous, requested, workflow.AllowedNext(previous))
	}

	err = s.st.WithTx(func(tx *store.Store) error {
		won, err := tx.UpdateTaskStatusCAS(taskID, previous, requested)
		if err != nil {
			return err
		}
		if !won {
			return apperr.Conflict("task %s changed status concurrently", taskID)
		}
		entry := activity.NewEntry(taskID, projectID, models.ActionStatusChanged, actorID,
			string(previous), string(requested))
		return tx.AppendActivity(entry)
	})
	if err != nil {
		return nil, "", err
	}

	task.Status = requested
	s.log.WithFields(logrus.Fields{
		"task": taskID, "from": previous, "to": requested, "actor": actorID,
	}).Info("task status changed")

	s.events.PublishToProject(projectID, events.TaskStatusChanged, events.StatusChangedPayload{
		TaskID:         taskID,
		PreviousStatus: previous,
		NewStatus:      requested,
		ActorID:        actorID,
		Task:           *task,
	})
	return task, previous, nil
}

// Delete hard-deletes a task, cascading its activity log entries.
func (s *TaskService) Delete(taskID, actorID string) error {
	projectID, err := s.guard.CanAccessTask(actorID, taskID)
	if err != nil {
		return err
	}

	if err := s.st.DeleteTaskCascade(taskID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"task": taskID, "actor": actorID}).Info("task deleted")
	s.events.PublishToProject(projectID, events.TaskDeleted, events.TaskDeletedPayload{TaskID: taskID})
	return nil
}

// ListByProject pages a project's tasks for the actor.
func (s *TaskService) ListByProject(projectID, actorID string, filter store.TaskFilter) ([]models.Task, int64, error) {
	if err := s.guard.CanAccessProject(actorID, projectID); err != nil {
		return nil, 0, err
	}
	return s.st.QueryTasks(projectID, filter)
}

// Board groups a project's tasks by status, covering all four columns even
// when empty.
func (s *TaskService) Board(projectID, actorID string) (map[models.TaskStatus][]models.Task, error) {
	if err := s.guard.CanAccessProject(actorID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.st.TasksByProject(projectID)
	if err != nil {
		return nil, err
	}

	board := make(map[models.TaskStatus][]models.Task, 4)
	for _, status := range models.AllStatuses() {
		board[status] = []models.Task{}
	}
	for _, task := range tasks {
		board[task.Status] = append(board[task.Status], task)
	}
	return board, nil
}
