// Package handlers provides HTTP handlers for the public and admin surfaces.
package handlers

import (
	"net/http"
	"time"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// PortfolioHandlers serves the aggregated public read model.
type PortfolioHandlers struct {
	aggregator *services.ContentAggregator
	logger     *logging.ChanneledLogger
}

// NewPortfolioHandlers creates portfolio handlers with injected dependencies.
func NewPortfolioHandlers(aggregator *services.ContentAggregator, logger *logging.ChanneledLogger) *PortfolioHandlers {
	return &PortfolioHandlers{
		aggregator: aggregator,
		logger:     logger,
	}
}

// GetPortfolio returns the full content snapshot for the public site. A
// failed aggregation degrades to an empty snapshot rather than an error
// response; there is no operator on the public page to dismiss one.
func (h *PortfolioHandlers) GetPortfolio(c *gin.Context) {
	start := time.Now()
	h.logger.Content().Debug("Received portfolio request", "method", c.Request.Method, "path", c.Request.URL.Path)

	snapshot := h.aggregator.BuildSnapshot(c.Request.Context())

	h.logger.Content().Info("Portfolio request completed",
		"projects", len(snapshot.Projects),
		"experience", len(snapshot.Experience),
		"education", len(snapshot.Education),
		"duration", time.Since(start))
	c.JSON(http.StatusOK, snapshot)
}
