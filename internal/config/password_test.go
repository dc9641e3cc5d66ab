package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig_Defaults(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.Pepper)
}

func TestNewPasswordConfig_CostOutOfRange(t *testing.T) {
	for _, cost := range []string{"9", "15"} {
		t.Setenv("BCRYPT_COST", cost)
		_, err := NewPasswordConfig()
		assert.Error(t, err, "cost %s", cost)
	}
}

func TestNewPasswordConfig_InvalidCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	_, err := NewPasswordConfig()
	assert.Error(t, err)
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("team-quote-2024")
	require.NoError(t, err)
	assert.NotEqual(t, "team-quote-2024", hash)

	assert.True(t, cfg.VerifyPassword("team-quote-2024", hash))
	assert.False(t, cfg.VerifyPassword("wrong-password", hash))
}

func TestPasswordConfig_PepperChangesVerification(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "workspace-secret"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("team-quote-2024")
	require.NoError(t, err)

	// A hash made with a pepper only verifies with the same pepper.
	assert.True(t, peppered.VerifyPassword("team-quote-2024", hash))
	assert.False(t, plain.VerifyPassword("team-quote-2024", hash))
}

func TestPasswordConfig_VerifyMalformedHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	assert.False(t, cfg.VerifyPassword("team-quote-2024", "not-a-bcrypt-hash"))
}
