package domain

import (
	"time"

	"github.com/google/uuid"
)

// EncryptedSession is the cookie-carried session. PrivateKey is plaintext
// only in memory after decode; on the wire the whole struct is vault
// ciphertext.
type EncryptedSession struct {
	Address        string    `json:"address"`
	PrivateKey     string    `json:"private_key"`
	TelegramUserID int64     `json:"telegram_user_id"`
	UserID         uuid.UUID `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// IsExpired returns true once now has reached ExpiresAt.
func (s *EncryptedSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// User is an end user of the mini-app, keyed by Telegram id.
type User struct {
	ID                uuid.UUID `json:"id"`
	TelegramUserID    int64     `json:"telegram_user_id"`
	Username          string    `json:"username"`
	MainWalletAddress string    `json:"main_wallet_address"`
	EncryptedMainKey  string    `json:"-"` // vault ciphertext
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasMainWallet returns true if a main wallet has been provisioned.
func (u *User) HasMainWallet() bool {
	return u.MainWalletAddress != "" && u.EncryptedMainKey != ""
}
