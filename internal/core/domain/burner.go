package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// BurnerStatus represents the lifecycle state of a burner wallet.
type BurnerStatus string

const (
	BurnerStatusActive BurnerStatus = "active"
	BurnerStatusSwept  BurnerStatus = "swept"
)

// BurnerWallet is a single-use signing key provisioned for one deployment.
// Rows are never deleted; Status only ever moves from active to swept.
type BurnerWallet struct {
	Address             string       `json:"address"`
	EncryptedPrivateKey string       `json:"-"` // vault ciphertext, never expose
	OwnerUserID         uuid.UUID    `json:"owner_user_id"`
	Status              BurnerStatus `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
	SweptAt             *time.Time   `json:"swept_at,omitempty"`
	SweepTxHash         *string      `json:"sweep_tx_hash,omitempty"`
}

// BurnerWithOwner pairs an active burner with its owner's main wallet address
// as it was when the burners were listed.
type BurnerWithOwner struct {
	Burner           BurnerWallet
	OwnerMainAddress string
}

// IsActive returns true if the burner has not been swept yet.
func (b *BurnerWallet) IsActive() bool {
	return b.Status == BurnerStatusActive
}

// IsOwnedBy reports whether the burner belongs to the given user.
func (b *BurnerWallet) IsOwnedBy(userID uuid.UUID) bool {
	return b.OwnerUserID == userID
}

// CanTransitionTo reports whether next is a legal change of status. The
// lifecycle has a single edge, active -> swept; a repeated mark on a swept
// burner is a no-op rather than a transition.
func (s BurnerStatus) CanTransitionTo(next BurnerStatus) bool {
	return s == BurnerStatusActive && next == BurnerStatusSwept
}

// NormalizeAddress returns the canonical storage form of an address:
// lower-case, 0x-prefixed hex. ok is false for anything that is not a
// 20-byte hex address.
func NormalizeAddress(addr string) (string, bool) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", false
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), true
}

// ChecksumAddress renders a stored address in EIP-55 form for display.
func ChecksumAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}
