package postgres

import (
	"context"
	"fmt"
)

// schemaStatements creates the tables the service needs. Every statement is
// idempotent so EnsureSchema can run on each start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  UUID PRIMARY KEY,
		telegram_user_id    BIGINT NOT NULL UNIQUE,
		username            TEXT NOT NULL DEFAULT '',
		main_wallet_address TEXT,
		encrypted_main_key  TEXT,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS burner_wallets (
		address       TEXT PRIMARY KEY,
		owner_user_id UUID NOT NULL REFERENCES users(id),
		encrypted_pk  TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'swept')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		swept_at      TIMESTAMPTZ,
		sweep_tx_hash TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_burner_wallets_active
		ON burner_wallets (created_at, address) WHERE status = 'active'`,
	`CREATE INDEX IF NOT EXISTS idx_burner_wallets_owner
		ON burner_wallets (owner_user_id, status)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id            UUID PRIMARY KEY,
		user_id       UUID,
		action        TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT,
		details       JSONB,
		ip_address    TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema applies schemaStatements in order.
func EnsureSchema(ctx context.Context, pool Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
