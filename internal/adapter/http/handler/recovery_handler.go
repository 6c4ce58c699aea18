package handler

import (
	"umkm-terminal/internal/adapter/http/dto"
	"umkm-terminal/internal/adapter/http/middleware"
	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecoveryHandler handles user-triggered recoveries. Funds always go to the
// session's main wallet.
type RecoveryHandler struct {
	recovery ports.RecoveryService
}

// NewRecoveryHandler creates a new RecoveryHandler.
func NewRecoveryHandler(recovery ports.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{recovery: recovery}
}

// RecoverOne handles POST /api/v1/burners/:address/recover.
func (h *RecoveryHandler) RecoverOne(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.ErrNoSession())
		return
	}

	var uri dto.BurnerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.ErrInvalidAddress())
		return
	}

	entry, err := h.recovery.RecoverBurner(c.Request.Context(), session.UserID, uri.Address, session.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.RecoverResponse{
		Success:   true,
		TxHash:    entry.TxHash,
		AmountWei: "0",
		AmountEth: domain.FormatEther(entry.Amount),
	}
	if entry.Amount != nil {
		resp.AmountWei = entry.Amount.String()
	}
	response.OK(c, resp)
}

// RecoverMine handles POST /api/v1/burners/recover.
func (h *RecoveryHandler) RecoverMine(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.ErrNoSession())
		return
	}

	summary, err := h.recovery.RecoverOwner(c.Request.Context(), session.UserID, session.Address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRecoverySummaryResponse(summary))
}
