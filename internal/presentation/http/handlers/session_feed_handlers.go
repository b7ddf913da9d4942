package handlers

import (
	"net/http"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/infrastructure/messaging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/presentation/http/middleware"
	"github.com/foliostack/foliostack-go/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range config.AllowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	},
}

// SessionFeedHandlers streams session-change events to admin clients over
// websocket. The connection itself is held open by an access guard: when
// the observed session is lost the guard flips and the connection closes.
type SessionFeedHandlers struct {
	auth        *services.AuthService
	broadcaster *messaging.SessionBroadcaster
	logger      *logging.ChanneledLogger
}

// NewSessionFeedHandlers creates session feed handlers with injected dependencies.
func NewSessionFeedHandlers(auth *services.AuthService, broadcaster *messaging.SessionBroadcaster, logger *logging.ChanneledLogger) *SessionFeedHandlers {
	return &SessionFeedHandlers{
		auth:        auth,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Stream upgrades the connection and relays session events until the client
// disconnects or its session is revoked.
func (h *SessionFeedHandlers) Stream(c *gin.Context) {
	token := middleware.SessionToken(c)

	guard := services.NewAccessGuard(h.auth, token, config.AdminLoginPath, c.Request.URL.RequestURI(), h.logger)
	guard.Mount()
	defer guard.Close()

	if guard.State() != services.StateAuthenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "redirect": guard.RedirectURL()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Session().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.SessionClient{
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	h.broadcaster.Register(client)
	defer h.broadcaster.Unregister(client)

	go h.broadcaster.WritePump(client, config.SessionFeedPing)

	// Drain reads to observe client-initiated close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case state := <-guard.Changes():
			if state != services.StateAuthenticated {
				h.logger.Session().Info("Session lost, closing feed connection")
				// The write pump is the connection's only writer; unregistering
				// closes the send channel and it exits with this close frame.
				client.CloseReason = websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session expired")
				h.broadcaster.Unregister(client)
				return
			}
		}
	}
}
