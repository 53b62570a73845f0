package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

// PageHandler renders the HTML sign-in page and board.
type PageHandler struct {
	taskService *services.TaskService
}

func NewPageHandler(taskService *services.TaskService) *PageHandler {
	return &PageHandler{
		taskService: taskService,
	}
}

// pageData is what templates/index.html renders. User is nil on the sign-in
// page.
type pageData struct {
	User          *dto.UserDTO
	Board         *dto.BoardDTO
	Statuses      []models.TaskStatus
	Priorities    []models.TaskPriority
	DraftsEnabled bool
}

// Index shows the board for a connected wallet and the sign-in page otherwise.
// It must run after LoadSession.
func (h *PageHandler) Index(c *gin.Context) {
	data := pageData{
		Statuses:      models.TaskStatuses,
		Priorities:    models.TaskPriorities,
		DraftsEnabled: h.taskService.DraftsEnabled(),
	}

	if sess, ok := middleware.GetSession(c); ok {
		board, err := h.taskService.Board(c.Request.Context(), sess)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		user := dto.ToUserDTO(sess.User)
		boardDTO := dto.ToBoardDTO(board)
		data.User = &user
		data.Board = &boardDTO
	}

	c.HTML(http.StatusOK, "index.html", data)
}
