package handlers

import (
	"net/http"
	"time"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// MessageHandlers exposes the admin message inbox.
type MessageHandlers struct {
	inbox  *services.Inbox
	logger *logging.ChanneledLogger
}

// NewMessageHandlers creates message handlers with injected dependencies.
func NewMessageHandlers(inbox *services.Inbox, logger *logging.ChanneledLogger) *MessageHandlers {
	return &MessageHandlers{
		inbox:  inbox,
		logger: logger,
	}
}

// List re-fetches and returns the inbox, newest first.
func (h *MessageHandlers) List(c *gin.Context) {
	start := time.Now()
	if err := h.inbox.List(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}

	items := h.inbox.Items()
	h.logger.Inbox().Info("Message list request completed", "count", len(items), "unread", h.inbox.UnreadCount(), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"count":  len(items),
		"unread": h.inbox.UnreadCount(),
	})
}

// View selects a message for the detail pane, marking it read on first view.
func (h *MessageHandlers) View(c *gin.Context) {
	message, found := h.inbox.Item(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	if err := h.inbox.View(c.Request.Context(), message); err != nil {
		writeServiceError(c, err)
		return
	}

	selected, _ := h.inbox.Selected()
	c.JSON(http.StatusOK, selected)
}

// Delete removes a message after explicit confirmation and clears the
// detail selection when it pointed at the deleted message.
func (h *MessageHandlers) Delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	deleted := false

	err := h.inbox.Remove(c.Request.Context(), c.Param("id"), func(string) bool {
		deleted = confirmed
		return confirmed
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deletion requires confirmation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.inbox.Items(), "unread": h.inbox.UnreadCount()})
}
