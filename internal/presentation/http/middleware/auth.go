// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "adminSession"

// SessionToken extracts the presented session token from the Authorization
// header, the session cookie, or (for websocket upgrades, which cannot set
// headers from the browser) the token query parameter.
func SessionToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	if cookie, err := c.Cookie("session"); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// AdminAuth gates the admin region behind a live session check. Requests
// without a session are failed closed: browser navigations are redirected
// to the login destination carrying the originally requested location, API
// requests receive 401.
func AdminAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.GetSession(SessionToken(c))
		if err != nil || session == nil {
			if acceptsHTML(c) {
				from := c.Request.URL.RequestURI()
				c.Redirect(http.StatusFound, config.AdminLoginPath+"?from="+url.QueryEscape(from))
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			}
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// GetSession returns the authenticated session stored by AdminAuth.
func GetSession(c *gin.Context) (*services.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*services.Session)
	return session, ok
}

func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
