package postgres

import (
	"context"
	"errors"

	"umkm-terminal/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, telegram_user_id, username, COALESCE(main_wallet_address, ''), COALESCE(encrypted_main_key, ''), created_at, updated_at`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, telegram_user_id, username, main_wallet_address, encrypted_main_key, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.TelegramUserID, u.Username, u.MainWalletAddress, u.EncryptedMainKey,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return storageError("insert user", err)
	}
	return nil
}

// GetByID fetches a user by id. Returns nil, nil if absent.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByTelegramID fetches a user by Telegram id. Returns nil, nil if absent.
func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramUserID int64) (*domain.User, error) {
	return r.getOne(ctx, "get user by telegram id", `SELECT `+userColumns+` FROM users WHERE telegram_user_id = $1`, telegramUserID)
}

// SetMainWallet stores the user's main wallet address and encrypted key.
func (r *UserRepo) SetMainWallet(ctx context.Context, id uuid.UUID, address, encryptedKey string) error {
	query := `UPDATE users SET main_wallet_address = $2, encrypted_main_key = $3, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, address, encryptedKey)
	if err != nil {
		return storageError("set main wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return storageError("set main wallet", errors.New("user not found: "+id.String()))
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.TelegramUserID, &u.Username, &u.MainWalletAddress, &u.EncryptedMainKey,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError(op, err)
	}
	return u, nil
}
