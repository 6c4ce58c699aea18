package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for deriving the vault key from the master secret.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// ErrDecryption is returned for any ciphertext the vault cannot open:
// malformed layout, wrong key, or tampered bytes.
var ErrDecryption = errors.New("vault: ciphertext unusable")

// ScryptVault implements ports.KeyVault with AES-256-GCM under a key derived
// once from the master secret with scrypt.
type ScryptVault struct {
	aead cipher.AEAD
}

// NewScryptVault derives the AES-256 key from secret and salt.
func NewScryptVault(secret, salt string) (*ScryptVault, error) {
	if secret == "" {
		return nil, errors.New("vault secret must not be empty")
	}

	key, err := scrypt.Key([]byte(secret), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving vault key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &ScryptVault{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce.
// Returns "hex(nonce):hex(ciphertext+tag)".
func (v *ScryptVault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := v.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Every failure collapses to
// ErrDecryption so callers cannot distinguish a wrong key from corruption.
func (v *ScryptVault) Decrypt(ciphertext string) (string, error) {
	ivHex, bodyHex, ok := strings.Cut(ciphertext, ":")
	if !ok {
		return "", ErrDecryption
	}

	nonce, err := hex.DecodeString(ivHex)
	if err != nil || len(nonce) != v.aead.NonceSize() {
		return "", ErrDecryption
	}

	body, err := hex.DecodeString(bodyHex)
	if err != nil || len(body) < v.aead.Overhead() {
		return "", ErrDecryption
	}

	plaintext, err := v.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", ErrDecryption
	}

	return string(plaintext), nil
}
