package service

import (
	"encoding/json"
	"fmt"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
)

// SessionService implements ports.SessionService. A session token is the
// vault ciphertext of the JSON-encoded session.
type SessionService struct {
	vault ports.KeyVault
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionService creates a session codec. A nil clock uses time.Now.
func NewSessionService(vault ports.KeyVault, ttl time.Duration, clock func() time.Time) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{vault: vault, ttl: ttl, now: clock}
}

// TTL returns the session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue builds a fresh session for the user's main wallet.
func (s *SessionService) Issue(user *domain.User, privateKeyHex string) *domain.EncryptedSession {
	now := s.now().UTC()
	return &domain.EncryptedSession{
		Address:        user.MainWalletAddress,
		PrivateKey:     privateKeyHex,
		TelegramUserID: user.TelegramUserID,
		UserID:         user.ID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
}

// Encode serialises and encrypts the session.
func (s *SessionService) Encode(session *domain.EncryptedSession) (string, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}
	token, err := s.vault.Encrypt(string(raw))
	if err != nil {
		return "", fmt.Errorf("encrypting session: %w", err)
	}
	return token, nil
}

// Decode returns nil, nil when the token cannot be decrypted, does not
// parse, or has expired. No field of an expired session is returned.
func (s *SessionService) Decode(token string) (*domain.EncryptedSession, error) {
	if token == "" {
		return nil, nil
	}

	plain, err := s.vault.Decrypt(token)
	if err != nil {
		return nil, nil
	}

	var session domain.EncryptedSession
	if err := json.Unmarshal([]byte(plain), &session); err != nil {
		return nil, nil
	}

	if session.ExpiresAt.IsZero() || session.IsExpired(s.now()) {
		return nil, nil
	}

	return &session, nil
}
