package postgres

import (
	"context"
	"errors"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const burnerColumns = `address, encrypted_pk, owner_user_id, status, created_at, swept_at, sweep_tx_hash`

// BurnerRepo implements ports.BurnerRepository.
type BurnerRepo struct {
	pool Pool
	now  func() time.Time
}

// NewBurnerRepo creates a new BurnerRepo.
func NewBurnerRepo(pool Pool) *BurnerRepo {
	return &BurnerRepo{pool: pool, now: time.Now}
}

// Create inserts a new active burner.
func (r *BurnerRepo) Create(ctx context.Context, ownerUserID uuid.UUID, address, encryptedPrivateKey string) (*domain.BurnerWallet, error) {
	b := &domain.BurnerWallet{
		Address:             address,
		EncryptedPrivateKey: encryptedPrivateKey,
		OwnerUserID:         ownerUserID,
		Status:              domain.BurnerStatusActive,
		CreatedAt:           r.now().UTC(),
	}

	query := `INSERT INTO burner_wallets (address, encrypted_pk, owner_user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, b.Address, b.EncryptedPrivateKey, b.OwnerUserID, string(b.Status), b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.ErrDuplicateAddress(err)
		}
		return nil, storageError("insert burner", err)
	}
	return b, nil
}

// ListActiveByOwner returns the owner's active burners, oldest first.
func (r *BurnerRepo) ListActiveByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]domain.BurnerWallet, error) {
	query := `SELECT ` + burnerColumns + `
		FROM burner_wallets
		WHERE owner_user_id = $1 AND status = 'active'
		ORDER BY created_at ASC, address ASC`

	rows, err := r.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, storageError("list burners by owner", err)
	}
	defer rows.Close()

	var burners []domain.BurnerWallet
	for rows.Next() {
		var b domain.BurnerWallet
		if err := scanBurner(rows, &b); err != nil {
			return nil, storageError("scan burner", err)
		}
		burners = append(burners, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate burners", err)
	}
	return burners, nil
}

// ListAllActiveWithOwnerAddress returns every active burner with the owner's
// current main wallet address. Owners without a main wallet yield "".
func (r *BurnerRepo) ListAllActiveWithOwnerAddress(ctx context.Context) ([]domain.BurnerWithOwner, error) {
	query := `SELECT b.address, b.encrypted_pk, b.owner_user_id, b.status, b.created_at, b.swept_at, b.sweep_tx_hash,
			COALESCE(u.main_wallet_address, '')
		FROM burner_wallets b
		LEFT JOIN users u ON u.id = b.owner_user_id
		WHERE b.status = 'active'
		ORDER BY b.created_at ASC, b.address ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageError("list active burners", err)
	}
	defer rows.Close()

	var out []domain.BurnerWithOwner
	for rows.Next() {
		var (
			item   domain.BurnerWithOwner
			status string
		)
		b := &item.Burner
		if err := rows.Scan(
			&b.Address, &b.EncryptedPrivateKey, &b.OwnerUserID, &status,
			&b.CreatedAt, &b.SweptAt, &b.SweepTxHash, &item.OwnerMainAddress,
		); err != nil {
			return nil, storageError("scan burner", err)
		}
		b.Status = domain.BurnerStatus(status)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate burners", err)
	}
	return out, nil
}

// MarkSwept flips an active burner to swept in a single statement. A burner
// that is already swept, or unknown, is left untouched and no error is
// returned.
func (r *BurnerRepo) MarkSwept(ctx context.Context, address string, txHash string) error {
	query := `UPDATE burner_wallets
		SET status = 'swept', swept_at = now(), sweep_tx_hash = NULLIF($2, '')
		WHERE address = $1 AND status = 'active'`

	if _, err := r.pool.Exec(ctx, query, address, txHash); err != nil {
		return storageError("mark burner swept", err)
	}
	return nil
}

// GetByAddress fetches a burner by its address. Returns nil, nil if absent.
func (r *BurnerRepo) GetByAddress(ctx context.Context, address string) (*domain.BurnerWallet, error) {
	query := `SELECT ` + burnerColumns + ` FROM burner_wallets WHERE address = $1`

	b := &domain.BurnerWallet{}
	if err := scanBurner(r.pool.QueryRow(ctx, query, address), b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get burner by address", err)
	}
	return b, nil
}

// CountByStatus returns the number of burners per status.
func (r *BurnerRepo) CountByStatus(ctx context.Context) (map[domain.BurnerStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM burner_wallets GROUP BY status`)
	if err != nil {
		return nil, storageError("count burners", err)
	}
	defer rows.Close()

	counts := make(map[domain.BurnerStatus]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storageError("scan burner count", err)
		}
		counts[domain.BurnerStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate burner counts", err)
	}
	return counts, nil
}

func scanBurner(row pgx.Row, b *domain.BurnerWallet) error {
	var status string
	if err := row.Scan(
		&b.Address, &b.EncryptedPrivateKey, &b.OwnerUserID, &status,
		&b.CreatedAt, &b.SweptAt, &b.SweepTxHash,
	); err != nil {
		return err
	}
	b.Status = domain.BurnerStatus(status)
	return nil
}
