package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/taskboard/internal/models"
)

// ErrNotFound is returned by lookups when no record has the requested key.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Save inserts the user or overwrites the record with the same address
	Save(ctx context.Context, user *models.User) error

	// FindByAddress finds a user by wallet address
	FindByAddress(ctx context.Context, address string) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Save inserts the task or overwrites the record with the same ID
	Save(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves the tasks owned by an address with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Delete removes a task; deleting a missing task is not an error
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserAddress string
	Status      *models.TaskStatus
	Page        int
	PageSize    int
}

// Store groups the two collections behind one value so the backend can be
// chosen once at startup.
type Store struct {
	Users UserRepository
	Tasks TaskRepository
}
