package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logger"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// taskForm is the editor form shared by create and update
type taskForm struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
}

// ListTasks returns the current user's tasks, optionally filtered by status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	sess, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), sess, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask submits the editor form without an editing id
func (h *TaskHandler) CreateTask(c *gin.Context) {
	h.submit(c, "", http.StatusCreated)
}

// UpdateTask submits the editor form for the task loaded by RequireTaskAccess
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	h.submit(c, task.ID, http.StatusOK)
}

func (h *TaskHandler) submit(c *gin.Context, editingID string, successStatus int) {
	sess, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var form taskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.Submit(c.Request.Context(), sess, services.SubmitTaskInput{
		EditingID:   editingID,
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Priority:    form.Priority,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(successStatus, dto.ToTaskDTO(*task))
}

// ChangeStatus moves a task to another column
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	sess, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ChangeStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.ChangeStatus(c.Request.Context(), sess, c.Param("id"), req.Status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. The client confirms with ?confirm=true.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	sess, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	deleted, err := h.taskService.Delete(c.Request.Context(), sess, c.Param("id"), func(*models.Task) bool {
		return confirmed
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	if !deleted {
		apierrors.ConfirmationRequired(c, "Deleting a task must be confirmed with confirm=true")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// Board returns the current user's tasks grouped by status
func (h *TaskHandler) Board(c *gin.Context) {
	sess, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	board, err := h.taskService.Board(c.Request.Context(), sess)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(board))
}

// GenerateTasks drafts tasks from free text. Nothing is stored.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
			apierrors.BadRequest(c, err.Error())
		default:
			logger.FromContext(c).Error().Err(err).Msg("task generation failed")
			apierrors.InternalError(c, "Failed to generate tasks")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}
