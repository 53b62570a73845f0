package dto

import (
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	UserAddress string              `json:"userAddress"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalCount int64     `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

// ColumnDTO is one status column of the board
type ColumnDTO struct {
	Status models.TaskStatus `json:"status"`
	Title  string            `json:"title"`
	Count  int               `json:"count"`
	Tasks  []TaskDTO         `json:"tasks"`
}

// BoardDTO is the full board in display order
type BoardDTO struct {
	Columns []ColumnDTO `json:"columns"`
	Total   int         `json:"total"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		UserAddress: task.UserAddress,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ToBoardDTO converts a Board to BoardDTO
func ToBoardDTO(board *services.Board) BoardDTO {
	columns := make([]ColumnDTO, len(board.Columns))
	for i, col := range board.Columns {
		columns[i] = ColumnDTO{
			Status: col.Status,
			Title:  col.Title,
			Count:  len(col.Tasks),
			Tasks:  ToTaskDTOs(col.Tasks),
		}
	}

	return BoardDTO{
		Columns: columns,
		Total:   board.Total(),
	}
}
