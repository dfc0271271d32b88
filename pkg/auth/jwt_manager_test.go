package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	token, err := mgr.Generate("profile-123", "founder")
	require.NoError(t, err)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "profile-123", claims.Subject)
	require.Equal(t, "founder", claims.Role)
}

func TestJWTManager_VerifyWrongSecret(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := mgr.Generate("profile-123", "member")
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestJWTManager_VerifyExpired(t *testing.T) {
	mgr := NewJWTManager("secret", -time.Minute)

	token, err := mgr.Generate("profile-123", "member")
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	require.Error(t, err)
}
