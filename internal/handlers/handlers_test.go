package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/profile"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	aliceAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	bobAddress   = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

// openTestDB opens an in-memory SQLite store with the users and tasks tables.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))
	return db
}

func newTestAuthService(t *testing.T, store *repository.Store) *services.AuthService {
	t.Helper()

	images := httptest.NewServer(http.NotFoundHandler())
	images.Close()

	return services.NewAuthService(store.Users, profile.NewSource(images.URL))
}

// accountWallet grants access to a fixed account without a signature.
type accountWallet string

func (w accountWallet) RequestAccounts(context.Context) ([]string, error) {
	return []string{string(w)}, nil
}

func (w accountWallet) Accounts(context.Context) ([]string, error) {
	return []string{string(w)}, nil
}

func connectAs(t *testing.T, authService *services.AuthService, address string) *services.Session {
	t.Helper()
	sess, err := authService.Connect(context.Background(), accountWallet(address))
	require.NoError(t, err)
	return sess
}
