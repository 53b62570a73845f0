package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	base := stderrors.New("boom")

	assert.Equal(t, KindOther, KindOf(nil))
	assert.Equal(t, KindOther, KindOf(base))
	assert.Equal(t, KindStorage, KindOf(E("tasks.save", KindStorage, base)))

	wrapped := fmt.Errorf("handler: %w", E("tasks.get", KindNotFound, base))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, base)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "auth.connect: no accounts", E("auth.connect", KindWallet, stderrors.New("no accounts")).Error())
	assert.Equal(t, "auth.connect: wallet error", E("auth.connect", KindWallet, nil).Error())
}

func TestResponders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		respond func(c *gin.Context)
		status  int
		code    string
		message string
	}{
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"},
		{"wallet", func(c *gin.Context) { WalletError(c, "rejected") }, http.StatusUnauthorized, ErrCodeWallet, "rejected"},
		{"bad request", func(c *gin.Context) { BadRequest(c, "") }, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request"},
		{"not found", func(c *gin.Context) { NotFound(c, "Task not found") }, http.StatusNotFound, ErrCodeNotFound, "Task not found"},
		{"confirmation", func(c *gin.Context) { ConfirmationRequired(c, "") }, http.StatusConflict, ErrCodeConfirmationRequired, "Confirmation required"},
		{"storage", func(c *gin.Context) { StorageError(c, "") }, http.StatusInternalServerError, ErrCodeStorage, "Storage operation failed"},
		{"internal", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
		{"unavailable", func(c *gin.Context) { ServiceUnavailable(c, "") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.respond(c)

			assert.Equal(t, tt.status, w.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestBadRequestWithDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadRequestWithDetails(c, "Invalid request body", "title is required")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "title is required", body["details"])
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", E("tasks.submit", KindValidation, stderrors.New("title is required")), http.StatusBadRequest, ErrCodeInvalidInput, "title is required"},
		{"wallet", E("auth.connect", KindWallet, stderrors.New("signature does not match address")), http.StatusUnauthorized, ErrCodeWallet, "signature does not match address"},
		{"not found", fmt.Errorf("wrapped: %w", E("tasks.get", KindNotFound, stderrors.New("task not found"))), http.StatusNotFound, ErrCodeNotFound, "task not found"},
		{"storage hides cause", E("tasks.list", KindStorage, stderrors.New("dial tcp 10.0.0.1:5432")), http.StatusInternalServerError, ErrCodeStorage, "Storage operation failed"},
		{"other", stderrors.New("surprise"), http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Respond(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
