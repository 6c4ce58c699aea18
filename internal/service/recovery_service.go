package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Reasons recorded on entries that never reached the sweep executor.
const (
	reasonNoDestination  = "no_destination"
	reasonDecryption     = "decryption_failure"
	reasonKeyMismatch    = "key_mismatch"
	reasonRegistryFailed = "registry_error"
	reasonNotActive      = "not_active"
)

type recoveryService struct {
	burnerRepo ports.BurnerRepository
	vault      ports.KeyVault
	sweeper    ports.SweepExecutor
	notifier   ports.Notifier
	workers    int
	now        func() time.Time
	log        zerolog.Logger
}

// NewRecoveryService creates the recovery orchestrator. workers <= 1 keeps
// batches strictly sequential.
func NewRecoveryService(
	burnerRepo ports.BurnerRepository,
	vault ports.KeyVault,
	sweeper ports.SweepExecutor,
	notifier ports.Notifier,
	workers int,
	log zerolog.Logger,
) ports.RecoveryService {
	if workers < 1 {
		workers = 1
	}
	return &recoveryService{
		burnerRepo: burnerRepo,
		vault:      vault,
		sweeper:    sweeper,
		notifier:   notifier,
		workers:    workers,
		now:        time.Now,
		log:        log,
	}
}

// RecoverBurner sweeps one of the owner's burners to destination. Failures
// are returned as errors and leave the burner active.
func (s *recoveryService) RecoverBurner(ctx context.Context, ownerUserID uuid.UUID, burnerAddress, destination string) (*domain.RecoveryEntry, error) {
	address, ok := domain.NormalizeAddress(burnerAddress)
	if !ok {
		return nil, apperror.ErrInvalidAddress()
	}
	dest, ok := domain.NormalizeAddress(destination)
	if !ok {
		return nil, apperror.ErrInvalidAddress()
	}

	burner, err := s.burnerRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if burner == nil || !burner.IsOwnedBy(ownerUserID) || !burner.Status.CanTransitionTo(domain.BurnerStatusSwept) {
		return nil, apperror.ErrBurnerNotFound()
	}

	privateKey, err := s.vault.Decrypt(burner.EncryptedPrivateKey)
	if err != nil {
		return nil, apperror.ErrDecryptionFailure(err)
	}
	if !keyMatchesAddress(privateKey, burner.Address) {
		return nil, apperror.ErrDecryptionFailure(errors.New("stored key does not control burner address"))
	}

	// A broadcast transaction cannot be recalled, so the sweep and the mark
	// outlive the caller's cancellation.
	sweepCtx := context.WithoutCancel(ctx)

	attempt := s.sweeper.Sweep(sweepCtx, privateKey, dest)
	if !attempt.Succeeded() {
		s.log.Warn().
			Str("burner", burner.Address).
			Str("reason", attempt.ErrorReason()).
			Str("tx_hash", attempt.TxHash).
			Msg("manual recovery failed")
		return nil, sweepError(attempt)
	}

	if err := s.burnerRepo.MarkSwept(sweepCtx, burner.Address, attempt.TxHash); err != nil {
		// Funds already moved. The next run sees a drained burner.
		s.log.Error().Err(err).
			Str("burner", burner.Address).
			Str("tx_hash", attempt.TxHash).
			Msg("sweep confirmed but mark swept failed")
	}

	s.log.Info().
		Str("burner", burner.Address).
		Str("owner_id", ownerUserID.String()).
		Str("tx_hash", attempt.TxHash).
		Msg("burner recovered")

	return &domain.RecoveryEntry{
		BurnerAddress: burner.Address,
		OwnerUserID:   ownerUserID,
		Destination:   dest,
		Outcome:       domain.RecoveryOutcomeSwept,
		TxHash:        attempt.TxHash,
		Amount:        attempt.Amount,
	}, nil
}

// RecoverOwner runs a batch over every active burner of one owner, oldest
// first, sweeping to destination. The summary goes back to the owner only;
// admin broadcasts are reserved for RecoverAll.
func (s *recoveryService) RecoverOwner(ctx context.Context, ownerUserID uuid.UUID, destination string) (*domain.RecoverySummary, error) {
	dest, ok := domain.NormalizeAddress(destination)
	if !ok {
		return nil, apperror.ErrInvalidAddress()
	}

	burners, err := s.burnerRepo.ListActiveByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BurnerWithOwner, len(burners))
	for i, b := range burners {
		items[i] = domain.BurnerWithOwner{Burner: b, OwnerMainAddress: dest}
	}

	summary := s.runBatch(ctx, items)
	s.logSummary("owner recovery finished", summary)
	return summary, nil
}

// RecoverAll sweeps every active burner to its owner's main wallet as listed
// at the start of the run. Only a failure to list aborts the batch.
func (s *recoveryService) RecoverAll(ctx context.Context) (*domain.RecoverySummary, error) {
	items, err := s.burnerRepo.ListAllActiveWithOwnerAddress(ctx)
	if err != nil {
		return nil, err
	}

	summary := s.runBatch(ctx, items)
	s.logSummary("global sweep finished", summary)

	NotifyAsync(s.notifier, FormatRecoverySummary("UMKM Terminal burner sweep", summary), s.log)
	return summary, nil
}

// runBatch attempts every item once. Cancellation is observed only between
// burners; an attempt that has started always completes.
func (s *recoveryService) runBatch(ctx context.Context, items []domain.BurnerWithOwner) *domain.RecoverySummary {
	summary := domain.NewRecoverySummary(s.now())

	if s.workers == 1 {
		for _, item := range items {
			if ctx.Err() != nil {
				summary.Cancelled = true
				break
			}
			summary.Add(s.recoverOne(ctx, item))
		}
		summary.FinishedAt = s.now()
		return summary
	}

	entries := make([]*domain.RecoveryEntry, len(items))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, item := range items {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		g.Go(func() error {
			entry := s.recoverOne(ctx, item)
			entries[i] = &entry
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range entries {
		if e != nil {
			summary.Add(*e)
		}
	}
	summary.FinishedAt = s.now()
	return summary
}

// recoverOne never returns an error: every failure becomes the entry outcome.
func (s *recoveryService) recoverOne(ctx context.Context, item domain.BurnerWithOwner) domain.RecoveryEntry {
	b := item.Burner
	entry := domain.RecoveryEntry{
		BurnerAddress: b.Address,
		OwnerUserID:   b.OwnerUserID,
		Destination:   item.OwnerMainAddress,
	}
	log := s.log.With().Str("burner", b.Address).Str("owner_id", b.OwnerUserID.String()).Logger()

	if !b.Status.CanTransitionTo(domain.BurnerStatusSwept) {
		log.Debug().Str("status", string(b.Status)).Msg("burner no longer active, skipping")
		entry.Outcome = domain.RecoveryOutcomeSkipped
		entry.Reason = reasonNotActive
		return entry
	}

	dest, ok := domain.NormalizeAddress(item.OwnerMainAddress)
	if !ok {
		log.Warn().Msg("owner has no usable main wallet, skipping burner")
		return errored(entry, reasonNoDestination)
	}
	entry.Destination = dest

	privateKey, err := s.vault.Decrypt(b.EncryptedPrivateKey)
	if err != nil {
		log.Warn().Err(err).Msg("burner key could not be decrypted")
		return errored(entry, reasonDecryption)
	}
	if !keyMatchesAddress(privateKey, b.Address) {
		log.Warn().Msg("decrypted key does not control burner address")
		return errored(entry, reasonKeyMismatch)
	}

	sweepCtx := context.WithoutCancel(ctx)
	attempt := s.sweeper.Sweep(sweepCtx, privateKey, dest)
	entry.TxHash = attempt.TxHash

	if !attempt.Succeeded() {
		entry.Reason = attempt.ErrorReason()
		if attempt.Reason == domain.SweepReasonInsufficientFunds {
			entry.Outcome = domain.RecoveryOutcomeSkipped
			return entry
		}
		log.Warn().Str("reason", entry.Reason).Str("tx_hash", attempt.TxHash).Msg("sweep failed")
		entry.Outcome = domain.RecoveryOutcomeErrored
		return entry
	}

	entry.Amount = attempt.Amount
	if err := s.burnerRepo.MarkSwept(sweepCtx, b.Address, attempt.TxHash); err != nil {
		log.Error().Err(err).Str("tx_hash", attempt.TxHash).Msg("sweep confirmed but mark swept failed")
		return errored(entry, reasonRegistryFailed+": "+err.Error())
	}

	log.Info().Str("tx_hash", attempt.TxHash).Str("amount_eth", domain.FormatEther(attempt.Amount)).Msg("burner swept")
	entry.Outcome = domain.RecoveryOutcomeSwept
	return entry
}

func (s *recoveryService) logSummary(msg string, summary *domain.RecoverySummary) {
	s.log.Info().
		Int("processed", summary.Processed).
		Int("recovered", summary.Recovered).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Bool("cancelled", summary.Cancelled).
		Str("total_eth", domain.FormatEther(summary.TotalRecovered)).
		Msg(msg)
}

func errored(e domain.RecoveryEntry, reason string) domain.RecoveryEntry {
	e.Outcome = domain.RecoveryOutcomeErrored
	e.Reason = reason
	return e
}

// keyMatchesAddress reports whether privateKeyHex is a valid secp256k1 key
// controlling address.
func keyMatchesAddress(privateKeyHex, address string) bool {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return false
	}
	return strings.EqualFold(crypto.PubkeyToAddress(key.PublicKey).Hex(), address)
}

// sweepError maps a failed attempt onto the error returned to an
// interactive caller.
func sweepError(a domain.SweepAttempt) error {
	switch a.Reason {
	case domain.SweepReasonInsufficientFunds:
		return apperror.ErrInsufficientFunds(a.Detail)
	case domain.SweepReasonTimeout:
		detail := a.Detail
		if a.TxHash != "" {
			detail = a.TxHash + ": " + detail
		}
		return apperror.ErrSweepTimeout(detail)
	case domain.SweepReasonInvalidKey:
		return apperror.ErrDecryptionFailure(errors.New(a.Detail))
	case domain.SweepReasonInvalidTarget:
		return apperror.ErrInvalidAddress()
	default:
		return apperror.ErrNetwork(a.ErrorReason())
	}
}
