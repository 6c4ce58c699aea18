package ports

import (
	"context"

	"umkm-terminal/internal/core/domain"

	"github.com/google/uuid"
)

// BurnerRepository is the burner registry. It is the only writer of
// BurnerWallet.Status.
type BurnerRepository interface {
	// Create inserts a new active burner. Returns a BURNER_002 error if the
	// address already exists.
	Create(ctx context.Context, ownerUserID uuid.UUID, address, encryptedPrivateKey string) (*domain.BurnerWallet, error)
	// ListActiveByOwner returns the owner's active burners, oldest first.
	ListActiveByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]domain.BurnerWallet, error)
	// ListAllActiveWithOwnerAddress returns every active burner joined to
	// its owner's current main wallet address.
	ListAllActiveWithOwnerAddress(ctx context.Context) ([]domain.BurnerWithOwner, error)
	// MarkSwept flips an active burner to swept. Marking an already swept
	// burner is a no-op.
	MarkSwept(ctx context.Context, address string, txHash string) error
	// GetByAddress returns nil, nil if the burner does not exist.
	GetByAddress(ctx context.Context, address string) (*domain.BurnerWallet, error)
	CountByStatus(ctx context.Context) (map[domain.BurnerStatus]int64, error)
}

// UserRepository defines persistence operations for mini-app users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	SetMainWallet(ctx context.Context, id uuid.UUID, address, encryptedKey string) error
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}
