package handlers

import (
	"errors"
	"net/http"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/domain/faults"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps the domain error taxonomy to HTTP responses.
// Validation failures are the caller's fault, a dropped save is a conflict;
// everything else is a store or auth failure surfaced with its message.
func writeServiceError(c *gin.Context, err error) {
	var validationErr *faults.ValidationError
	var authErr *faults.AuthError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, services.ErrSaveInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
