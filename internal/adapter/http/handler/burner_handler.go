package handler

import (
	"umkm-terminal/internal/adapter/http/dto"
	"umkm-terminal/internal/adapter/http/middleware"
	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BurnerHandler handles burner provisioning and lookups.
type BurnerHandler struct {
	burners ports.BurnerService
	log     zerolog.Logger
}

// NewBurnerHandler creates a new BurnerHandler.
func NewBurnerHandler(burners ports.BurnerService, log zerolog.Logger) *BurnerHandler {
	return &BurnerHandler{burners: burners, log: log}
}

// Create handles POST /api/v1/burners. The private key stays server side.
func (h *BurnerHandler) Create(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.ErrNoSession())
		return
	}

	burner, _, err := h.burners.Generate(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewBurnerResponse(burner))
}

// List handles GET /api/v1/burners.
func (h *BurnerHandler) List(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.ErrNoSession())
		return
	}

	burners, err := h.burners.List(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BurnerResponse, 0, len(burners))
	for i := range burners {
		items = append(items, dto.NewBurnerResponse(&burners[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/burners/:address. Active burners carry their
// current balance; an RPC failure leaves the balance out.
func (h *BurnerHandler) Get(c *gin.Context) {
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

	burner, err := h.burners.Get(c.Request.Context(), session.UserID, uri.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.NewBurnerResponse(burner)
	if burner.IsActive() {
		balance, err := h.burners.Balance(c.Request.Context(), burner.Address)
		if err != nil {
			h.log.Warn().Err(err).Str("burner", burner.Address).Msg("balance lookup failed")
		} else {
			wei, eth := balance.String(), domain.FormatEther(balance)
			resp.BalanceWei, resp.BalanceEth = &wei, &eth
		}
	}
	response.OK(c, resp)
}

func checksum(addr string) string {
	if addr == "" {
		return ""
	}
	return domain.ChecksumAddress(addr)
}
