package chain

import (
	"context"
	"math/big"
)

// ChainIDReader is the one RPC call the health check needs.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// HealthCheck implements ports.HealthChecker for the RPC endpoint.
type HealthCheck struct {
	client ChainIDReader
}

// NewHealthCheck creates an RPC health checker.
func NewHealthCheck(client ChainIDReader) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping issues eth_chainId.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.client.ChainID(ctx)
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "chain_rpc"
}
