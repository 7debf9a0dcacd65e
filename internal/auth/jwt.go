package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the JWT claims the service issues and verifies.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens.
type JWTManager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewJWTManager creates a JWTManager with the given signing secret and token lifetime.
func NewJWTManager(secret string, tokenTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), tokenTTL: tokenTTL}
}

// Generate issues a signed access token for the given principal.
func (m *JWTManager) Generate(userID uuid.UUID, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates an access token, returning its claims.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := ParseRole(claims.Role); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
