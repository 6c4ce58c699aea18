package dto

import (
	"time"

	"umkm-terminal/internal/core/domain"
)

// SessionRequest is the request body for Mini-App login.
type SessionRequest struct {
	InitData string `json:"init_data" binding:"required,max=4096"`
}

// BurnerURI binds the :address path parameter.
type BurnerURI struct {
	Address string `uri:"address" binding:"required,eth_addr"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID                string `json:"id"`
	TelegramUserID    int64  `json:"telegram_user_id"`
	Username          string `json:"username"`
	MainWalletAddress string `json:"main_wallet_address"`
}

// SessionResponse is the response body for a successful login.
type SessionResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt int64        `json:"expires_at"` // Unix timestamp
}

// MeResponse describes the signed-in session.
type MeResponse struct {
	UserID         string `json:"user_id"`
	TelegramUserID int64  `json:"telegram_user_id"`
	Address        string `json:"address"`
	ExpiresAt      int64  `json:"expires_at"` // Unix timestamp
}

// BurnerResponse is the public view of a burner wallet. Balance fields are
// only filled for single-burner reads.
type BurnerResponse struct {
	Address     string  `json:"address"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	SweptAt     *string `json:"swept_at,omitempty"`
	SweepTxHash *string `json:"sweep_tx_hash,omitempty"`
	BalanceWei  *string `json:"balance_wei,omitempty"`
	BalanceEth  *string `json:"balance_eth,omitempty"`
}

// RecoverResponse is the response body for a manual single-burner recovery.
type RecoverResponse struct {
	Success   bool   `json:"success"`
	TxHash    string `json:"tx_hash"`
	AmountWei string `json:"amount_wei"`
	AmountEth string `json:"amount_eth"`
}

// RecoveryEntryResponse is one line of a recovery summary.
type RecoveryEntryResponse struct {
	BurnerAddress string `json:"burner_address"`
	Outcome       string `json:"outcome"`
	TxHash        string `json:"tx_hash,omitempty"`
	Reason        string `json:"reason,omitempty"`
	AmountWei     string `json:"amount_wei,omitempty"`
}

// RecoverySummaryResponse is the response body for batch recoveries.
type RecoverySummaryResponse struct {
	Processed         int                     `json:"processed"`
	Recovered         int                     `json:"recovered"`
	Skipped           int                     `json:"skipped"`
	Failed            int                     `json:"failed"`
	TotalRecoveredWei string                  `json:"total_recovered_wei"`
	TotalRecoveredEth string                  `json:"total_recovered_eth"`
	Cancelled         bool                    `json:"cancelled"`
	Entries           []RecoveryEntryResponse `json:"entries"`
	StartedAt         string                  `json:"started_at"`
	DurationMs        int64                   `json:"duration_ms"`
}

// StatsResponse is the response body for burner counts.
type StatsResponse struct {
	Active int64 `json:"active"`
	Swept  int64 `json:"swept"`
}

// NewUserResponse builds the public view of u.
func NewUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:             u.ID.String(),
		TelegramUserID: u.TelegramUserID,
		Username:       u.Username,
	}
	if u.MainWalletAddress != "" {
		resp.MainWalletAddress = domain.ChecksumAddress(u.MainWalletAddress)
	}
	return resp
}

// NewBurnerResponse builds the public view of b. The encrypted key is never
// copied.
func NewBurnerResponse(b *domain.BurnerWallet) BurnerResponse {
	resp := BurnerResponse{
		Address:     domain.ChecksumAddress(b.Address),
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		SweepTxHash: b.SweepTxHash,
	}
	if b.SweptAt != nil {
		s := b.SweptAt.UTC().Format(time.RFC3339)
		resp.SweptAt = &s
	}
	return resp
}

// NewRecoverySummaryResponse flattens a summary for JSON. Amounts are
// decimal wei strings since they overflow float64.
func NewRecoverySummaryResponse(s *domain.RecoverySummary) RecoverySummaryResponse {
	resp := RecoverySummaryResponse{
		Processed:         s.Processed,
		Recovered:         s.Recovered,
		Skipped:           s.Skipped,
		Failed:            s.Failed,
		TotalRecoveredWei: s.TotalRecovered.String(),
		TotalRecoveredEth: domain.FormatEther(s.TotalRecovered),
		Cancelled:         s.Cancelled,
		Entries:           make([]RecoveryEntryResponse, 0, len(s.Entries)),
		StartedAt:         s.StartedAt.UTC().Format(time.RFC3339),
	}
	if !s.FinishedAt.IsZero() {
		resp.DurationMs = s.FinishedAt.Sub(s.StartedAt).Milliseconds()
	}
	for _, e := range s.Entries {
		entry := RecoveryEntryResponse{
			BurnerAddress: domain.ChecksumAddress(e.BurnerAddress),
			Outcome:       string(e.Outcome),
			TxHash:        e.TxHash,
			Reason:        e.Reason,
		}
		if e.Amount != nil {
			entry.AmountWei = e.Amount.String()
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}
