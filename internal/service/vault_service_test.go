package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVaultSecret = "test-master-secret"

func newTestVault(t *testing.T) *ScryptVault {
	t.Helper()
	v, err := NewScryptVault(testVaultSecret, "test-salt")
	require.NoError(t, err)
	return v
}

func TestScryptVault_EmptySecret(t *testing.T) {
	_, err := NewScryptVault("", "salt")
	assert.Error(t, err)
}

func TestScryptVault_RoundTrip(t *testing.T) {
	v := newTestVault(t)

	inputs := []string{
		"",
		"4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		`{"address":"0xabc","telegram_user_id":42}`,
		"ünïcödé ✓",
		strings.Repeat("x", 4096),
	}

	for _, in := range inputs {
		ct, err := v.Encrypt(in)
		require.NoError(t, err)
		assert.NotEqual(t, in, ct)

		out, err := v.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestScryptVault_Layout(t *testing.T) {
	v := newTestVault(t)

	ct, err := v.Encrypt("secret")
	require.NoError(t, err)

	iv, body, ok := strings.Cut(ct, ":")
	require.True(t, ok, "ciphertext must be iv:ciphertext")
	assert.Len(t, iv, 24, "12-byte GCM nonce hex encoded")
	assert.NotEmpty(t, body)
}

func TestScryptVault_FreshNoncePerCall(t *testing.T) {
	v := newTestVault(t)

	c1, err := v.Encrypt("same")
	require.NoError(t, err)
	c2, err := v.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, c1, c2, "same plaintext should produce different ciphertext due to random nonce")
}

func TestScryptVault_DerivationIsDeterministic(t *testing.T) {
	v1 := newTestVault(t)
	v2 := newTestVault(t)

	ct, err := v1.Encrypt("shared")
	require.NoError(t, err)

	out, err := v2.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "shared", out)
}

func TestScryptVault_WrongKey(t *testing.T) {
	v1 := newTestVault(t)
	v2, err := NewScryptVault("another-secret", "test-salt")
	require.NoError(t, err)

	ct, err := v1.Encrypt("burner key")
	require.NoError(t, err)

	_, err = v2.Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestScryptVault_WrongSalt(t *testing.T) {
	v1 := newTestVault(t)
	v2, err := NewScryptVault(testVaultSecret, "other-salt")
	require.NoError(t, err)

	ct, err := v1.Encrypt("burner key")
	require.NoError(t, err)

	_, err = v2.Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestScryptVault_TamperedCiphertext(t *testing.T) {
	v := newTestVault(t)

	ct, err := v.Encrypt("secret")
	require.NoError(t, err)

	last := ct[len(ct)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	tampered := ct[:len(ct)-1] + string(flipped)

	_, err = v.Decrypt(tampered)
	assert.ErrorIs(t, err, ErrDecryption, "a bit flip must be detected, not decoded into garbage")
}

func TestScryptVault_MalformedInput(t *testing.T) {
	v := newTestVault(t)

	inputs := []string{
		"",
		"no-separator-here",
		"zz:abcdef",
		"000102030405060708090a0b:not-hex",
		"0001:abcdef",
		"000102030405060708090a0b:00",
	}

	for _, in := range inputs {
		out, err := v.Decrypt(in)
		assert.ErrorIs(t, err, ErrDecryption, "input %q", in)
		assert.Empty(t, out)
	}
}
