package gate

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenType is the required claim value for admin access tokens.
const TokenType = "admin_access"

// Verification failures. The middleware folds all of them into a single
// not-found outcome; the distinction exists for logs and tests only.
var (
	ErrTokenExpired   = errors.New("admin token expired")
	ErrTokenMalformed = errors.New("admin token malformed")
	ErrTokenWrongType = errors.New("admin token has wrong type")
)

// Claims describes the admin access token payload.
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed admin access tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue builds and signs a token valid for ttl.
func (tm *TokenManager) Issue(ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Type: TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature, expiry and token type. It has no side effects.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Type != TokenType {
		return nil, ErrTokenWrongType
	}
	return claims, nil
}
