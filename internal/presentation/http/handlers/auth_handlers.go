package handlers

import (
	"net/http"
	"time"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/presentation/http/middleware"
	"github.com/foliostack/foliostack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// LoginRequest represents the admin login request body.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AuthHandlers contains the session lifecycle HTTP handlers.
type AuthHandlers struct {
	auth   *services.AuthService
	logger *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies.
func NewAuthHandlers(auth *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		auth:   auth,
		logger: logger,
	}
}

// Login validates the admin credential and issues a session token.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	session, err := h.auth.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// Browser clients authenticate follow-up navigations via the cookie;
	// API clients use the returned token as a bearer credential.
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie("session", session.Token, maxAge, "/", "", config.CookieSecure, true)
	c.JSON(http.StatusOK, session)
}

// Logout revokes the presented session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.auth.SignOut(middleware.SessionToken(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.SetCookie("session", "", -1, "/", "", config.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"signedOut": true})
}

// Refresh exchanges a valid session for a fresh token.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	session, err := h.auth.Refresh(middleware.SessionToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie("session", session.Token, maxAge, "/", "", config.CookieSecure, true)
	c.JSON(http.StatusOK, session)
}

// GetSession reports the state of the presented session.
func (h *AuthHandlers) GetSession(c *gin.Context) {
	session, err := h.auth.GetSession(middleware.SessionToken(c))
	if err != nil || session == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"role":          session.Role,
		"expires_at":    session.ExpiresAt,
	})
}
