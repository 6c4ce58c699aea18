package service

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/ttlcache"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// balanceCacheTTL bounds how stale a listed burner balance may be.
const balanceCacheTTL = 15 * time.Second

type burnerService struct {
	burnerRepo ports.BurnerRepository
	vault      ports.KeyVault
	chain      ports.ChainClient
	balances   *ttlcache.Cache[string, *big.Int]
	log        zerolog.Logger
}

// NewBurnerService creates the burner provisioning service. chain may be nil,
// in which case Balance reports a network error.
func NewBurnerService(
	burnerRepo ports.BurnerRepository,
	vault ports.KeyVault,
	chain ports.ChainClient,
	clock ttlcache.Clock,
	log zerolog.Logger,
) ports.BurnerService {
	return &burnerService{
		burnerRepo: burnerRepo,
		vault:      vault,
		chain:      chain,
		balances:   ttlcache.New[string, *big.Int](balanceCacheTTL, clock),
		log:        log,
	}
}

// Generate creates a fresh secp256k1 key, stores it vault-encrypted and
// returns the new burner with its key. The key never leaves the process.
func (s *burnerService) Generate(ctx context.Context, ownerUserID uuid.UUID) (*domain.BurnerWallet, *ecdsa.PrivateKey, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, apperror.InternalError(err)
	}

	address, _ := domain.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())

	encrypted, err := s.vault.Encrypt(hex.EncodeToString(crypto.FromECDSA(key)))
	if err != nil {
		return nil, nil, apperror.ErrEncryptionFailure(err)
	}

	burner, err := s.burnerRepo.Create(ctx, ownerUserID, address, encrypted)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("burner", burner.Address).
		Str("owner_id", ownerUserID.String()).
		Msg("burner provisioned")

	return burner, key, nil
}

// List returns the owner's active burners, oldest first.
func (s *burnerService) List(ctx context.Context, ownerUserID uuid.UUID) ([]domain.BurnerWallet, error) {
	return s.burnerRepo.ListActiveByOwner(ctx, ownerUserID)
}

// Get returns one burner of the owner. Foreign and unknown addresses are
// indistinguishable to the caller.
func (s *burnerService) Get(ctx context.Context, ownerUserID uuid.UUID, address string) (*domain.BurnerWallet, error) {
	normalized, ok := domain.NormalizeAddress(address)
	if !ok {
		return nil, apperror.ErrInvalidAddress()
	}

	burner, err := s.burnerRepo.GetByAddress(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if burner == nil || !burner.IsOwnedBy(ownerUserID) {
		return nil, apperror.ErrBurnerNotFound()
	}
	return burner, nil
}

func (s *burnerService) Balance(ctx context.Context, address string) (*big.Int, error) {
	normalized, ok := domain.NormalizeAddress(address)
	if !ok {
		return nil, apperror.ErrInvalidAddress()
	}
	if cached, ok := s.balances.Get(normalized); ok {
		return new(big.Int).Set(cached), nil
	}
	if s.chain == nil {
		return nil, apperror.ErrNetwork("no chain client configured")
	}

	balance, err := s.chain.BalanceAt(ctx, common.HexToAddress(normalized), nil)
	if err != nil {
		return nil, apperror.ErrNetwork(err.Error())
	}

	s.balances.Set(normalized, new(big.Int).Set(balance))
	return balance, nil
}

// Stats returns burner counts keyed by status.
func (s *burnerService) Stats(ctx context.Context) (map[domain.BurnerStatus]int64, error) {
	counts, err := s.burnerRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range []domain.BurnerStatus{domain.BurnerStatusActive, domain.BurnerStatusSwept} {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return counts, nil
}
