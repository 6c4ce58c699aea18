package handler

import (
	"context"

	"umkm-terminal/internal/adapter/http/dto"
	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SweepRunner runs one global recovery under the sweep lock.
type SweepRunner interface {
	RunOnce(ctx context.Context) (*domain.RecoverySummary, error)
}

// CronHandler serves the scheduler-facing endpoints.
type CronHandler struct {
	sweeper SweepRunner
	burners ports.BurnerService
}

// NewCronHandler creates a new CronHandler.
func NewCronHandler(sweeper SweepRunner, burners ports.BurnerService) *CronHandler {
	return &CronHandler{sweeper: sweeper, burners: burners}
}

// Sweep handles POST /api/v1/cron/sweep. The run is detached from the
// request so a caller that hangs up does not stop the batch midway.
func (h *CronHandler) Sweep(c *gin.Context) {
	summary, err := h.sweeper.RunOnce(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRecoverySummaryResponse(summary))
}

// Stats handles GET /api/v1/cron/stats.
func (h *CronHandler) Stats(c *gin.Context) {
	counts, err := h.burners.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StatsResponse{
		Active: counts[domain.BurnerStatusActive],
		Swept:  counts[domain.BurnerStatusSwept],
	})
}
