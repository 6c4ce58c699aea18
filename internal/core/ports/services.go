package ports

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"umkm-terminal/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

// KeyVault is the symmetric codec for private keys and session blobs.
// It never persists anything.
type KeyVault interface {
	Encrypt(plaintext string) (string, error)
	// Decrypt returns an error for any unusable ciphertext. Callers treat
	// that as "no usable secret", not as a fatal condition.
	Decrypt(ciphertext string) (string, error)
}

// ChainClient is the subset of the EVM JSON-RPC API the sweep needs.
// *ethclient.Client satisfies it.
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// SweepExecutor moves a burner's spendable balance to a destination.
// It never returns an error: every failure is folded into the attempt.
type SweepExecutor interface {
	Sweep(ctx context.Context, privateKeyHex string, destination string) domain.SweepAttempt
}

// Notifier delivers a free-text admin notification. Callers must not depend
// on the result for control flow.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// SweepLock serialises global sweeps across processes. Refresh extends a
// held lock to ttl from now and reports false once token no longer owns it.
type SweepLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error)
	Refresh(ctx context.Context, name string, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string, token string) error
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// --- Service Ports (Business Logic) ---

// BurnerService provisions and lists burner wallets.
type BurnerService interface {
	Generate(ctx context.Context, ownerUserID uuid.UUID) (*domain.BurnerWallet, *ecdsa.PrivateKey, error)
	List(ctx context.Context, ownerUserID uuid.UUID) ([]domain.BurnerWallet, error)
	Get(ctx context.Context, ownerUserID uuid.UUID, address string) (*domain.BurnerWallet, error)
	// Balance returns the on-chain balance in wei, cached briefly.
	Balance(ctx context.Context, address string) (*big.Int, error)
	Stats(ctx context.Context) (map[domain.BurnerStatus]int64, error)
}

// RecoveryService is the recovery orchestrator.
type RecoveryService interface {
	RecoverBurner(ctx context.Context, ownerUserID uuid.UUID, burnerAddress, destination string) (*domain.RecoveryEntry, error)
	RecoverOwner(ctx context.Context, ownerUserID uuid.UUID, destination string) (*domain.RecoverySummary, error)
	RecoverAll(ctx context.Context) (*domain.RecoverySummary, error)
}

// SessionService encodes and decodes the encrypted session cookie.
type SessionService interface {
	Issue(user *domain.User, privateKeyHex string) *domain.EncryptedSession
	Encode(session *domain.EncryptedSession) (string, error)
	// Decode returns nil, nil for an unusable or expired token.
	Decode(token string) (*domain.EncryptedSession, error)
	TTL() time.Duration
}

// AuthService authenticates Telegram Mini-App users.
type AuthService interface {
	Login(ctx context.Context, initData string) (*domain.User, *domain.EncryptedSession, error)
}

// AuditService records audit entries fire-and-forget.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
