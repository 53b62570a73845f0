package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/profile"
	"github.com/yukikurage/taskboard/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	aliceAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	bobAddress   = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

type servicesTestEnv struct {
	db          *gorm.DB
	store       *repository.Store
	authService *AuthService
	taskService *TaskService
}

func setupServicesTestEnv(t *testing.T) servicesTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	store := repository.NewGormStore(db)

	return servicesTestEnv{
		db:          db,
		store:       store,
		authService: NewAuthService(store.Users, unreachablePictures(t)),
		taskService: NewTaskService(store.Tasks, nil),
	}
}

// unreachablePictures returns a profile source whose image service is down.
func unreachablePictures(t *testing.T) *profile.Source {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return profile.NewSource(url, profile.WithRandom(func(int) int { return 7 }))
}

// connect signs address in through a fake wallet.
func (env servicesTestEnv) connect(t *testing.T, address string) *Session {
	t.Helper()
	sess, err := env.authService.Connect(context.Background(), &fakeWallet{accounts: []string{address}})
	require.NoError(t, err)
	return sess
}

type fakeWallet struct {
	accounts   []string
	authorized bool
	err        error
}

func (w *fakeWallet) RequestAccounts(context.Context) ([]string, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.accounts, nil
}

func (w *fakeWallet) Accounts(context.Context) ([]string, error) {
	if !w.authorized {
		return []string{}, nil
	}
	return w.accounts, nil
}

var errUserRejected = errors.New("user rejected the request")
