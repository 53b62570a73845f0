package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logger"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/wallet"
)

// AuthHandler coordinates wallet sign-in HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Nonce issues a one-time challenge for the wallet to sign.
func (h *AuthHandler) Nonce(c *gin.Context) {
	nonce, err := wallet.GenerateNonce()
	if err != nil {
		logger.FromContext(c).Error().Err(err).Msg("failed to generate nonce")
		apierrors.InternalError(c, "Failed to generate nonce")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyNonce, nonce)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.NonceDTO{
		Nonce:   nonce,
		Message: wallet.ChallengeMessage(nonce),
	})
}

// Connect verifies the signed challenge and signs the wallet's account in.
func (h *AuthHandler) Connect(c *gin.Context) {
	type ConnectRequest struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	session := sessions.Default(c)
	challenge := wallet.SignedChallenge{
		Address:   req.Address,
		Signature: req.Signature,
	}
	if nonce, _ := session.Get(constants.SessionKeyNonce).(string); nonce != "" {
		challenge.Message = wallet.ChallengeMessage(nonce)
	}

	// a nonce answers exactly one connect attempt
	session.Delete(constants.SessionKeyNonce)

	sess, err := h.authService.Connect(c.Request.Context(), challenge)
	if err != nil {
		if saveErr := session.Save(); saveErr != nil {
			logger.FromContext(c).Warn().Err(saveErr).Msg("failed to discard nonce")
		}
		apierrors.Respond(c, err)
		return
	}

	session.Set(constants.SessionKeyAddress, sess.Address())
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(sess.User))
}

// Disconnect ends the session. The user's stored data is kept.
func (h *AuthHandler) Disconnect(c *gin.Context) {
	if sess, ok := middleware.GetSession(c); ok {
		h.authService.Disconnect(sess)
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to disconnect")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Disconnected successfully",
	})
}

// Me returns the connected user.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(sess.User))
}
