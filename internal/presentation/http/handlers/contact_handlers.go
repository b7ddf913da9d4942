package handlers

import (
	"net/http"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/domain/repositories"
	"github.com/foliostack/foliostack-go/internal/infrastructure/email"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// ContactHandlers accepts public contact submissions.
type ContactHandlers struct {
	messages repositories.MessageRepository
	email    email.Service
	logger   *logging.ChanneledLogger
}

// NewContactHandlers creates contact handlers. The email service may be nil
// when notifications are not configured.
func NewContactHandlers(messages repositories.MessageRepository, emailService email.Service, logger *logging.ChanneledLogger) *ContactHandlers {
	return &ContactHandlers{
		messages: messages,
		email:    emailService,
		logger:   logger,
	}
}

// Submit validates and stores a visitor message, then sends the operator
// notification best-effort: a notification failure never fails the intake.
func (h *ContactHandlers) Submit(c *gin.Context) {
	var form services.MessageForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	message, err := services.MessageCodec{}.Normalize(form)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	stored, err := h.messages.Insert(c.Request.Context(), message)
	if err != nil {
		h.logger.Inbox().Error("Failed to store contact message", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	if h.email != nil && config.ContactNotifyEnabled && config.ContactNotifyTo != "" {
		if err := h.email.SendContactNotification(config.ContactNotifyTo, stored); err != nil {
			h.logger.Email().Error("Contact notification failed", "id", stored.ID, "error", err.Error())
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": stored.ID})
}
