package repository

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names keep the layout of previously stored data.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// FirestoreUserRepository stores users as documents keyed by address
type FirestoreUserRepository struct {
	client *firestore.Client
}

// FirestoreTaskRepository stores tasks as documents keyed by task ID
type FirestoreTaskRepository struct {
	client *firestore.Client
}

// NewFirestoreStore builds a Store backed by Firestore
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Users: &FirestoreUserRepository{client: client},
		Tasks: &FirestoreTaskRepository{client: client},
	}
}

func (r *FirestoreUserRepository) Save(ctx context.Context, user *models.User) error {
	_, err := r.client.Collection(UsersCollection).Doc(user.Address).Set(ctx, user)
	return err
}

func (r *FirestoreUserRepository) FindByAddress(ctx context.Context, address string) (*models.User, error) {
	snap, err := r.client.Collection(UsersCollection).Doc(address).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *FirestoreTaskRepository) Save(ctx context.Context, task *models.Task) error {
	_, err := r.client.Collection(TasksCollection).Doc(task.ID).Set(ctx, task)
	return err
}

func (r *FirestoreTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	snap, err := r.client.Collection(TasksCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var task models.Task
	if err := snap.DataTo(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// List queries by userAddress (and status) and pages in memory; Firestore
// has no cheap offset.
func (r *FirestoreTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	tasks := []models.Task{}

	if filter.UserAddress == "" {
		return tasks, 0, nil
	}

	query := r.client.Collection(TasksCollection).Where("userAddress", "==", filter.UserAddress)
	if filter.Status != nil {
		query = query.Where("status", "==", string(*filter.Status))
	}

	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		var task models.Task
		if err := snap.DataTo(&task); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})

	total := int64(len(tasks))
	if filter.Page > 0 && filter.PageSize > 0 {
		params := utils.NewPaginationParams(filter.Page, filter.PageSize)
		tasks = pageOf(tasks, params.Offset, params.Limit)
	}

	return tasks, total, nil
}

func (r *FirestoreTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(TasksCollection).Doc(id).Delete(ctx)
	return err
}

func pageOf(tasks []models.Task, offset, limit int) []models.Task {
	if offset >= len(tasks) {
		return []models.Task{}
	}
	end := offset + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[offset:end]
}
