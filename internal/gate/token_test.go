package gate_test

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/apartment-bureau/landing-service/internal/gate"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, secret, tokenType string, expiresAt time.Time) string {
	t.Helper()

	claims := &gate.Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)

	token, expiresAt, err := tm.Issue(time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, gate.TokenType, claims.Type)
}

func TestIssueDefaultsToOneYear(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)

	_, expiresAt, err := tm.Issue(0)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(365*24*time.Hour), expiresAt, time.Minute)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)
	expired := signClaims(t, testSecret, gate.TokenType, time.Now().Add(-time.Minute))

	_, err := tm.Verify(expired)
	require.ErrorIs(t, err, gate.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)
	foreign := signClaims(t, "other-secret", gate.TokenType, time.Now().Add(time.Hour))

	_, err := tm.Verify(foreign)
	require.ErrorIs(t, err, gate.ErrTokenMalformed)
}

func TestVerifyTamperedToken(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)

	token, _, err := tm.Issue(time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + ".x" + parts[1] + "." + parts[2]

	_, err = tm.Verify(tampered)
	require.ErrorIs(t, err, gate.ErrTokenMalformed)
}

func TestVerifyWrongType(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)
	wrongType := signClaims(t, testSecret, "refresh", time.Now().Add(time.Hour))

	_, err := tm.Verify(wrongType)
	require.ErrorIs(t, err, gate.ErrTokenWrongType)
}

func TestVerifyGarbage(t *testing.T) {
	tm := gate.NewTokenManager(testSecret)

	_, err := tm.Verify("not-a-token")
	require.ErrorIs(t, err, gate.ErrTokenMalformed)
}
