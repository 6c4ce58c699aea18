package postgres

import (
	"context"
	"errors"
)

// HealthCheck implements ports.HealthChecker for PostgreSQL.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping checks connectivity and that the registry table exists.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var ok bool
	if err := h.pool.QueryRow(ctx, `SELECT to_regclass('public.burner_wallets') IS NOT NULL`).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return errors.New("burner_wallets table missing")
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgresql"
}
