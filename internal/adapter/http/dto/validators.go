package dto

import (
	"umkm-terminal/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("eth_addr", validateEthAddress)
	}
}

// validateEthAddress accepts 20-byte hex addresses, with or without 0x and
// in any letter case.
func validateEthAddress(fl validator.FieldLevel) bool {
	_, ok := domain.NormalizeAddress(fl.Field().String())
	return ok
}
