package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/msadour/user-space/internal/middleware"
)

func TestAuthenticate_Gates(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.userSvc.Register("a@x.com", "pw123456", "555")
	require.NoError(t, err)

	_, err = env.auth.Authenticate("nobody@x.com", "pw123456")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.auth.Authenticate("a@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// correct credentials, but e-mail not verified yet
	_, err = env.auth.Authenticate("a@x.com", "pw123456")
	require.ErrorIs(t, err, ErrAccountNotVerified)

	secret := env.mailer.secrets["a@x.com"]
	_, err = env.otp.Verify(secret, "a@x.com")
	require.NoError(t, err)

	user, err := env.auth.Authenticate("a@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)

	// uppercased input resolves to the same account
	_, err = env.auth.Authenticate("A@X.com", "pw123456")
	require.NoError(t, err)
}

func TestAuthenticate_PasswordNotSupplied(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.userSvc.Register("a@x.com", "pw123456", "555")
	require.NoError(t, err)
	_, err = env.otp.Verify(env.mailer.secrets["a@x.com"], "a@x.com")
	require.NoError(t, err)

	// provisioned account that has not chosen a password yet
	env.users.users[user.ID].PasswordSupplied = false

	_, err = env.auth.Authenticate("a@x.com", "pw123456")
	require.ErrorIs(t, err, ErrPasswordNotSupplied)
}

func TestIssueToken_ClaimsAndRevocation(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.userSvc.Register("a@x.com", "pw123456", "555")
	require.NoError(t, err)

	tokenStr, err := env.auth.IssueToken(user)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.TokenVersion, claims.TokenVersion)
	require.NotNil(t, claims.ExpiresAt)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	// the token carries no email and no password material
	require.NotContains(t, tokenStr, "a@x.com")

	// a password change bumps the stored version past the claim
	require.NoError(t, env.userSvc.SupplyPassword(user.ID, "newpw12345", "newpw12345"))
	stored, _ := env.users.GetByID(user.ID)
	require.NotEqual(t, claims.TokenVersion, stored.TokenVersion)
}

func TestHashPassword_NeverPlaintext(t *testing.T) {
	env := newTestEnv(t)
	hash, err := env.auth.HashPassword("pw123456")
	require.NoError(t, err)
	require.NotEqual(t, "pw123456", hash)
	require.NoError(t, env.auth.CheckPassword(hash, "pw123456"))
	require.Error(t, env.auth.CheckPassword(hash, "pw1234567"))
}
