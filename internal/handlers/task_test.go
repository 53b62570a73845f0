package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/dto"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	taskService *services.TaskService
	handler     *TaskHandler
	alice       *services.Session
	bob         *services.Session
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = openTestDB(suite.T())
	store := repository.NewGormStore(suite.db)
	authService := newTestAuthService(suite.T(), store)

	// Create handler (without AI service for tests)
	suite.taskService = services.NewTaskService(store.Tasks, nil)
	suite.handler = NewTaskHandler(suite.taskService)

	suite.alice = connectAs(suite.T(), authService, aliceAddress)
	suite.bob = connectAs(suite.T(), authService, bobAddress)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestTask(sess *services.Session, title string, status models.TaskStatus) *models.Task {
	task, err := suite.taskService.Submit(context.Background(), sess, services.SubmitTaskInput{
		Title:  title,
		Status: status,
	})
	suite.Require().NoError(err)
	return task
}

// Helper function to create a context carrying a wallet session
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body interface{}, sess *services.Session) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if sess != nil {
		c.Set(constants.ContextKeySession, sess)
	}

	return c, w
}

func withID(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	task := suite.createTestTask(suite.alice, "Test Task", models.TaskStatusTodo)
	suite.createTestTask(suite.bob, "Bob Task", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks", nil, suite.alice)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), task.ID, response.Tasks[0].ID)
	assert.EqualValues(suite.T(), 1, response.TotalCount)
	assert.Equal(suite.T(), 1, response.Page)
	assert.Equal(suite.T(), constants.DefaultPageSize, response.PageSize)
	assert.Equal(suite.T(), 1, response.TotalPages)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Pages() {
	for _, title := range []string{"one", "two", "three"} {
		suite.createTestTask(suite.alice, title, models.TaskStatusTodo)
	}

	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks?page=2&limit=2", nil, suite.alice)
	suite.handler.ListTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 1)
	assert.Equal(suite.T(), 2, response.Page)
	assert.Equal(suite.T(), 2, response.PageSize)
	assert.EqualValues(suite.T(), 3, response.TotalCount)
	assert.Equal(suite.T(), 2, response.TotalPages)
}

func (suite *TaskHandlerTestSuite) TestListTasks_StatusFilter() {
	suite.createTestTask(suite.alice, "Todo", models.TaskStatusTodo)
	suite.createTestTask(suite.alice, "Done", models.TaskStatusCompleted)

	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks?status=completed", nil, suite.alice)
	suite.handler.ListTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "Done", response.Tasks[0].Title)

	c, w = suite.createAuthContext(http.MethodGet, "/api/tasks?status=archived", nil, suite.alice)
	suite.handler.ListTasks(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks", nil, nil)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFoundInContext() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks/x", nil, suite.alice)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", map[string]string{
		"title":       "New Task",
		"description": "Task Description",
	}, suite.alice)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "New Task", response.Title)
	assert.Equal(suite.T(), aliceAddress, response.UserAddress)
	assert.Equal(suite.T(), models.TaskStatusTodo, response.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, response.Priority)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_EmptyTitle() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", map[string]string{"title": "  "}, suite.alice)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "title is required")

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidBody() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeySession, suite.alice)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "INVALID_INPUT", response["code"])
	assert.NotEmpty(suite.T(), response["details"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Success() {
	task := suite.createTestTask(suite.alice, "Old", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{
		"title":    "New",
		"status":   "completed",
		"priority": "high",
	}, suite.alice)
	withID(c, task.ID)
	c.Set(constants.ContextKeyTask, task)

	suite.handler.UpdateTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), task.ID, response.ID)
	assert.Equal(suite.T(), "New", response.Title)
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Status)
	assert.True(suite.T(), task.CreatedAt.Equal(response.CreatedAt))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_KeepsOmittedFields() {
	task, err := suite.taskService.Submit(context.Background(), suite.alice, services.SubmitTaskInput{
		Title:    "x",
		Status:   models.TaskStatusCompleted,
		Priority: models.TaskPriorityHigh,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"title": "y"}, suite.alice)
	withID(c, task.ID)
	c.Set(constants.ContextKeyTask, task)

	suite.handler.UpdateTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "y", response.Title)
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Status)
	assert.Equal(suite.T(), models.TaskPriorityHigh, response.Priority)
}

func (suite *TaskHandlerTestSuite) TestChangeStatus() {
	task := suite.createTestTask(suite.alice, "Move me", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]string{"status": "in-progress"}, suite.alice)
	withID(c, task.ID)
	suite.handler.ChangeStatus(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusInProgress, response.Status)
	assert.Equal(suite.T(), "Move me", response.Title)
}

func (suite *TaskHandlerTestSuite) TestChangeStatus_InvalidStatus() {
	task := suite.createTestTask(suite.alice, "Move me", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]string{"status": "blocked"}, suite.alice)
	withID(c, task.ID)
	suite.handler.ChangeStatus(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestChangeStatus_OtherUsersTask() {
	task := suite.createTestTask(suite.alice, "Alice's", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]string{"status": "completed"}, suite.bob)
	withID(c, task.ID)
	suite.handler.ChangeStatus(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_RequiresConfirm() {
	task := suite.createTestTask(suite.alice, "Delete me", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodDelete, "/api/tasks/"+task.ID, nil, suite.alice)
	withID(c, task.ID)
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "CONFIRMATION_REQUIRED")

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Confirmed() {
	task := suite.createTestTask(suite.alice, "Delete me", models.TaskStatusTodo)

	c, w := suite.createAuthContext(http.MethodDelete, "/api/tasks/"+task.ID+"?confirm=true", nil, suite.alice)
	withID(c, task.ID)
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_NotFound() {
	c, w := suite.createAuthContext(http.MethodDelete, "/api/tasks/missing?confirm=true", nil, suite.alice)
	withID(c, "missing")
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestBoard() {
	suite.createTestTask(suite.alice, "a", models.TaskStatusTodo)
	suite.createTestTask(suite.alice, "b", models.TaskStatusCompleted)
	suite.createTestTask(suite.bob, "c", models.TaskStatusInProgress)

	c, w := suite.createAuthContext(http.MethodGet, "/api/board", nil, suite.alice)
	suite.handler.Board(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var board dto.BoardDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &board))
	suite.Require().Len(board.Columns, 3)
	assert.Equal(suite.T(), 2, board.Total)
	assert.Equal(suite.T(), 1, board.Columns[0].Count)
	assert.Equal(suite.T(), 0, board.Columns[1].Count)
	assert.Equal(suite.T(), 1, board.Columns[2].Count)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_ServiceUnavailable() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks/generate", map[string]string{"text": "plan launch"}, suite.alice)

	suite.handler.GenerateTasks(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_MissingText() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks/generate", map[string]string{}, suite.alice)

	suite.handler.GenerateTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
