package postgres

import (
	"context"

	"umkm-terminal/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create inserts an audit entry. Empty details are stored as NULL.
func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, '')::jsonb, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, string(entry.Action), entry.ResourceType,
		entry.ResourceID, entry.Details, entry.IPAddress, entry.CreatedAt,
	)
	if err != nil {
		return storageError("insert audit log", err)
	}
	return nil
}
