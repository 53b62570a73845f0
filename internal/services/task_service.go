package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/constants"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrInvalidStatus          = errors.New("status must be one of todo, in-progress, completed")
	ErrInvalidPriority        = errors.New("priority must be one of low, medium, high")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// Confirm is asked before a task is deleted. Returning false cancels the delete.
type Confirm func(task *models.Task) bool

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	aiService TaskDrafter
	now       func() time.Time
	newID     func() (string, error)
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, aiService TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		aiService: aiService,
		now:       defaultNow,
		newID:     newTaskID,
	}
}

// SubmitTaskInput is the editor form. An empty EditingID creates a task;
// otherwise the task with that ID is updated.
type SubmitTaskInput struct {
	EditingID   string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// Column is one status bucket of the board.
type Column struct {
	Status models.TaskStatus `json:"status"`
	Title  string            `json:"title"`
	Tasks  []models.Task     `json:"tasks"`
}

// Board holds the three fixed columns in display order.
type Board struct {
	Columns []Column `json:"columns"`
}

// Column returns the bucket for status, or nil for an unknown status.
func (b *Board) Column(status models.TaskStatus) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}

// Total counts the tasks shown on the board.
func (b *Board) Total() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.Tasks)
	}
	return n
}

// NewBoard partitions tasks by status. Tasks with a status outside the three
// columns are not shown.
func NewBoard(tasks []models.Task) *Board {
	board := &Board{Columns: make([]Column, 0, len(models.TaskStatuses))}
	for _, status := range models.TaskStatuses {
		board.Columns = append(board.Columns, Column{
			Status: status,
			Title:  status.Label(),
			Tasks:  []models.Task{},
		})
	}

	for _, task := range tasks {
		if col := board.Column(task.Status); col != nil {
			col.Tasks = append(col.Tasks, task)
		}
	}

	return board
}

// Submit creates or updates a task from the editor form.
func (s *TaskService) Submit(ctx context.Context, sess *Session, input SubmitTaskInput) (*models.Task, error) {
	const op = "tasks.submit"

	if err := requireSession(op, sess); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.E(op, apierrors.KindValidation, ErrTitleRequired)
	}

	var existing *models.Task
	if input.EditingID != "" {
		var err error
		existing, err = s.findOwned(ctx, op, sess, input.EditingID)
		if err != nil {
			return nil, err
		}
		// an edit that leaves status or priority out keeps the stored value
		if input.Status == "" {
			input.Status = existing.Status
		}
		if input.Priority == "" {
			input.Priority = existing.Priority
		}
	}

	if err := validateForm(&input); err != nil {
		return nil, apierrors.E(op, apierrors.KindValidation, err)
	}

	now := s.now()

	var task *models.Task
	if existing != nil {
		task = existing
		task.Title = input.Title
		task.Description = input.Description
		task.Status = input.Status
		task.Priority = input.Priority
		task.UpdatedAt = nextUpdatedAt(existing.UpdatedAt, now)
	} else {
		id, err := s.newID()
		if err != nil {
			return nil, apierrors.E(op, apierrors.KindOther, fmt.Errorf("failed to generate task id: %w", err))
		}
		task = &models.Task{
			ID:          id,
			Title:       input.Title,
			Description: input.Description,
			Status:      input.Status,
			Priority:    input.Priority,
			UserAddress: sess.Address(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, s.storageError(ctx, op, err)
	}

	return task, nil
}

// Delete removes a task after confirm approves it. It reports whether the
// task was removed; a declined confirmation is not an error.
func (s *TaskService) Delete(ctx context.Context, sess *Session, taskID string, confirm Confirm) (bool, error) {
	const op = "tasks.delete"

	if err := requireSession(op, sess); err != nil {
		return false, err
	}

	task, err := s.findOwned(ctx, op, sess, taskID)
	if err != nil {
		return false, err
	}

	if confirm == nil || !confirm(task) {
		return false, nil
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return false, s.storageError(ctx, op, err)
	}

	return true, nil
}

// ChangeStatus moves a task to another column. Only status and updatedAt
// change; any status may follow any other.
func (s *TaskService) ChangeStatus(ctx context.Context, sess *Session, taskID string, status models.TaskStatus) (*models.Task, error) {
	const op = "tasks.change_status"

	if err := requireSession(op, sess); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apierrors.E(op, apierrors.KindValidation, ErrInvalidStatus)
	}

	task, err := s.findOwned(ctx, op, sess, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = nextUpdatedAt(task.UpdatedAt, s.now())

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, s.storageError(ctx, op, err)
	}

	return task, nil
}

// GetTask returns one of the session user's tasks.
func (s *TaskService) GetTask(ctx context.Context, sess *Session, taskID string) (*models.Task, error) {
	const op = "tasks.get"

	if err := requireSession(op, sess); err != nil {
		return nil, err
	}

	return s.findOwned(ctx, op, sess, taskID)
}

// List returns the session user's tasks.
func (s *TaskService) List(ctx context.Context, sess *Session, input ListTasksInput) ([]models.Task, int64, error) {
	const op = "tasks.list"

	if err := requireSession(op, sess); err != nil {
		return nil, 0, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, apierrors.E(op, apierrors.KindValidation, ErrInvalidStatus)
	}

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		UserAddress: sess.Address(),
		Status:      input.Status,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, 0, s.storageError(ctx, op, err)
	}

	return tasks, total, nil
}

// Board loads all of the session user's tasks grouped into columns.
func (s *TaskService) Board(ctx context.Context, sess *Session) (*Board, error) {
	tasks, _, err := s.List(ctx, sess, ListTasksInput{})
	if err != nil {
		return nil, err
	}
	return NewBoard(tasks), nil
}

// DraftsEnabled reports whether GenerateTasks has an AI service to call.
func (s *TaskService) DraftsEnabled() bool {
	return s.aiService != nil
}

// GenerateTasks uses AI to draft tasks from text
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.TaskPriorityMedium
		}
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// findOwned loads a task and hides tasks that belong to someone else.
func (s *TaskService) findOwned(ctx context.Context, op string, sess *Session, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.E(op, apierrors.KindNotFound, ErrTaskNotFound)
		}
		return nil, s.storageError(ctx, op, err)
	}

	if task.UserAddress != sess.Address() {
		return nil, apierrors.E(op, apierrors.KindNotFound, ErrTaskNotFound)
	}

	return task, nil
}

func (s *TaskService) storageError(ctx context.Context, op string, err error) error {
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("task store operation failed")
	return apierrors.E(op, apierrors.KindStorage, err)
}

// validateForm applies the defaults for a new task and checks the fields.
func validateForm(input *SubmitTaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return ErrInvalidStatus
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return ErrInvalidPriority
	}

	return nil
}

// nextUpdatedAt keeps updatedAt strictly increasing even when the clock has
// not moved since the previous write.
func nextUpdatedAt(previous, now time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Millisecond)
}

// newTaskID returns a time-ordered UUIDv7, so ids follow creation order.
func newTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
