package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists the board columns in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusCompleted,
}

// Valid reports whether s is one of the three board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Label returns the column heading for the status.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	default:
		return "To Do"
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is stored in the "tasks" collection. Field names on the wire and in
// Firestore keep the camelCase layout of previously stored records.
type Task struct {
	ID          string       `gorm:"primarykey;type:varchar(64)" json:"id" firestore:"id"`
	Title       string       `gorm:"not null" json:"title" firestore:"title"`
	Description string       `gorm:"type:text" json:"description" firestore:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status" firestore:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority" firestore:"priority"`
	UserAddress string       `gorm:"type:varchar(42);not null;index:idx_tasks_user_address" json:"userAddress" firestore:"userAddress"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false" json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime:false" json:"updatedAt" firestore:"updatedAt"`
}
