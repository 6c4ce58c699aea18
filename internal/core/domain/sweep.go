package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SweepResult is the outcome of one on-chain sweep attempt.
type SweepResult string

const (
	SweepResultSuccess SweepResult = "success"
	SweepResultFailure SweepResult = "failure"
)

// SweepFailureReason classifies why a sweep did not move funds.
type SweepFailureReason string

const (
	SweepReasonInsufficientFunds SweepFailureReason = "insufficient_funds"
	SweepReasonNetworkError      SweepFailureReason = "network_error"
	SweepReasonTimeout           SweepFailureReason = "timeout"
	SweepReasonReverted          SweepFailureReason = "reverted"
	SweepReasonInvalidKey        SweepFailureReason = "invalid_key"
	SweepReasonInvalidTarget     SweepFailureReason = "invalid_destination"
)

// SweepAttempt is the logical transaction unit of a recovery. It is not
// persisted; only a successful attempt may flip the burner to swept.
type SweepAttempt struct {
	BurnerAddress      string             `json:"burner_address"`
	DestinationAddress string             `json:"destination_address"`
	Result             SweepResult        `json:"result"`
	TxHash             string             `json:"tx_hash,omitempty"`
	Reason             SweepFailureReason `json:"reason,omitempty"`
	Detail             string             `json:"detail,omitempty"`
	Amount             *big.Int           `json:"amount,omitempty"` // wei moved
	Fee                *big.Int           `json:"fee,omitempty"`    // wei reserved for gas
}

// Succeeded returns true if the transfer was confirmed on chain.
func (a SweepAttempt) Succeeded() bool {
	return a.Result == SweepResultSuccess
}

// ErrorReason renders the failure reason with its detail, if any.
func (a SweepAttempt) ErrorReason() string {
	if a.Detail == "" {
		return string(a.Reason)
	}
	return string(a.Reason) + ": " + a.Detail
}

// RecoveryOutcome is the terminal state of one burner within a recovery run.
type RecoveryOutcome string

const (
	RecoveryOutcomeSwept   RecoveryOutcome = "swept"
	RecoveryOutcomeSkipped RecoveryOutcome = "skipped"
	RecoveryOutcomeErrored RecoveryOutcome = "errored"
)

// RecoveryEntry is the per-burner line of a recovery summary.
type RecoveryEntry struct {
	BurnerAddress string          `json:"burner_address"`
	OwnerUserID   uuid.UUID       `json:"owner_user_id"`
	Destination   string          `json:"destination,omitempty"`
	Outcome       RecoveryOutcome `json:"outcome"`
	TxHash        string          `json:"tx_hash,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Amount        *big.Int        `json:"amount,omitempty"`
}

// RecoverySummary aggregates a batch recovery run.
type RecoverySummary struct {
	Processed      int             `json:"processed"`
	Recovered      int             `json:"recovered"`
	Skipped        int             `json:"skipped"`
	Failed         int             `json:"failed"`
	TotalRecovered *big.Int        `json:"total_recovered"` // wei
	Cancelled      bool            `json:"cancelled"`
	Entries        []RecoveryEntry `json:"entries"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
}

// NewRecoverySummary returns an empty summary started at now.
func NewRecoverySummary(now time.Time) *RecoverySummary {
	return &RecoverySummary{
		TotalRecovered: new(big.Int),
		Entries:        []RecoveryEntry{},
		StartedAt:      now,
	}
}

// Add records one entry and updates the counters.
func (s *RecoverySummary) Add(e RecoveryEntry) {
	s.Processed++
	switch e.Outcome {
	case RecoveryOutcomeSwept:
		s.Recovered++
		if e.Amount != nil {
			s.TotalRecovered.Add(s.TotalRecovered, e.Amount)
		}
	case RecoveryOutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Entries = append(s.Entries, e)
}

// FormatEther renders a wei amount in ether with trailing zeros trimmed.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}
