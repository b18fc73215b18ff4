package handlers

import (
	"errors"
	"net/http"

	"schedulify/middleware"
	"schedulify/services/identity"
	"schedulify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler drives the Outlook sign-in flow and session lifecycle.
type AuthHandler struct {
	Identity identity.Provider
	Logger   *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(provider identity.Provider) *AuthHandler {
	return &AuthHandler{Identity: provider, Logger: utils.GetLogger()}
}

// SignInHandler begins a sign-in flow and returns the authorization URL the
// client should redirect the host to.
func (h *AuthHandler) SignInHandler(c *gin.Context) {
	authURL, err := h.Identity.BeginAuthFlow(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to begin sign-in flow", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not start sign-in", "Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": authURL})
}

// CallbackHandler completes the authorization-code exchange and issues a
// dashboard session token.
func (h *AuthHandler) CallbackHandler(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing authorization response parameters",
			"Both state and code are required.")
		return
	}

	host, err := h.Identity.CompleteAuthFlow(c.Request.Context(), state, code)
	if err != nil {
		if errors.Is(err, identity.ErrFlowExpired) {
			utils.JSONError(c, http.StatusBadRequest, "Sign-in session expired", "Please try again.")
			return
		}
		h.Logger.Error("sign-in failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to complete sign-in", err.Error())
		return
	}

	token, err := utils.GenerateToken(host.OID, host.Email, utils.SessionTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create session", "Please sign in again.")
		return
	}
	if err := utils.SaveHostSession(utils.GetSessionClient(), utils.HashToken(token), host.OID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to store session", "Please sign in again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"host":  host,
	})
}

// SignOutHandler revokes the current session.
func (h *AuthHandler) SignOutHandler(c *gin.Context) {
	tokenString := c.GetString(middleware.SessionTokenKey)
	if tokenString != "" {
		if err := utils.DeleteHostSession(utils.GetSessionClient(), utils.HashToken(tokenString)); err != nil {
			h.Logger.Warn("failed to delete session", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out."})
}
