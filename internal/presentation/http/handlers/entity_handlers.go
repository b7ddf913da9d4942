package handlers

import (
	"net/http"
	"time"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// EntityHandlers exposes one entity manager's list/form/save/delete
// workflow over HTTP. One instance exists per entity type.
type EntityHandlers[T services.Entity, F any] struct {
	manager *services.Manager[T, F]
	label   string
	logger  *logging.ChanneledLogger
}

// NewEntityHandlers creates entity handlers bound to one manager.
func NewEntityHandlers[T services.Entity, F any](manager *services.Manager[T, F], label string, logger *logging.ChanneledLogger) *EntityHandlers[T, F] {
	return &EntityHandlers[T, F]{
		manager: manager,
		label:   label,
		logger:  logger,
	}
}

// Register attaches the CRUD routes to an admin route group.
func (h *EntityHandlers[T, F]) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/new", h.NewForm)
	group.GET("/:id/edit", h.EditForm)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List re-fetches and returns the entity list. A fetch failure is surfaced:
// the operator needs to know a list failed to load.
func (h *EntityHandlers[T, F]) List(c *gin.Context) {
	start := time.Now()
	if err := h.manager.List(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}

	items := h.manager.Items()
	h.logger.Content().Info("List request completed", "entity", h.label, "count", len(items), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// NewForm opens the create modal and returns the type-specific defaults.
func (h *EntityHandlers[T, F]) NewForm(c *gin.Context) {
	h.manager.OpenCreate()
	c.JSON(http.StatusOK, gin.H{"form": h.manager.Form(), "editing": false})
}

// EditForm opens the edit modal hydrated from an existing record.
func (h *EntityHandlers[T, F]) EditForm(c *gin.Context) {
	item, found := h.manager.Item(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
		return
	}

	h.manager.OpenEdit(item)
	c.JSON(http.StatusOK, gin.H{"form": h.manager.Form(), "editing": true})
}

// Create validates and inserts a new record.
func (h *EntityHandlers[T, F]) Create(c *gin.Context) {
	var form F
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	h.manager.OpenCreate()
	if err := h.manager.Submit(c.Request.Context(), form); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": h.manager.Items()})
}

// Update validates and persists changes to an existing record.
func (h *EntityHandlers[T, F]) Update(c *gin.Context) {
	item, found := h.manager.Item(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
		return
	}

	var form F
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	h.manager.OpenEdit(item)
	if err := h.manager.Submit(c.Request.Context(), form); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.manager.Items()})
}

// Delete removes a record. The confirm query parameter carries the
// operator's explicit confirmation; without it the delete is declined.
func (h *EntityHandlers[T, F]) Delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	deleted := false

	err := h.manager.Remove(c.Request.Context(), c.Param("id"), func(string) bool {
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

	c.JSON(http.StatusOK, gin.H{"items": h.manager.Items()})
}
