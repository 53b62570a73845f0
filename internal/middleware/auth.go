package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logger"
	"github.com/yukikurage/taskboard/internal/services"
)

// RequireAuth resumes the wallet session stored in the cookie and aborts
// with 401 when there is none.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := resume(c, authService)
		if !ok {
			return
		}
		if sess == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySession, sess)
		c.Next()
	}
}

// LoadSession resumes the wallet session when one exists but lets anonymous
// requests through.
func LoadSession(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := resume(c, authService)
		if !ok {
			return
		}
		if sess != nil {
			c.Set(constants.ContextKeySession, sess)
		}
		c.Next()
	}
}

// GetSession retrieves the current wallet session from context
func GetSession(c *gin.Context) (*services.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return nil, false
	}

	sess, ok := value.(*services.Session)
	if !ok || !sess.Active() {
		return nil, false
	}
	return sess, true
}

// resume returns ok=false after it has already aborted the request.
func resume(c *gin.Context, authService *services.AuthService) (*services.Session, bool) {
	session := sessions.Default(c)
	address, _ := session.Get(constants.SessionKeyAddress).(string)
	if address == "" {
		return nil, true
	}

	sess, err := authService.Resume(c.Request.Context(), address)
	if err == nil {
		return sess, true
	}

	if apierrors.KindOf(err) == apierrors.KindNotFound {
		// the user record is gone; drop the stale cookie
		session.Delete(constants.SessionKeyAddress)
		if saveErr := session.Save(); saveErr != nil {
			logger.FromContext(c).Warn().Err(saveErr).Msg("failed to clear stale session")
		}
		return nil, true
	}

	apierrors.Respond(c, err)
	c.Abort()
	return nil, false
}
