// internal/utils/jwt.go
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenIssuer = "map-store"

// TokenKind separates access tokens from refresh tokens so one can never
// stand in for the other.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenKind = errors.New("wrong token kind")
)

type JWTClaims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("your-secret-key-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func newClaims(userID uuid.UUID, kind TokenKind, ttlHours int) JWTClaims {
	now := time.Now()
	return JWTClaims{
		UserID: userID.String(),
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}
}

func signClaims(claims JWTClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func parseClaims(tokenString string, kind TokenKind) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.VerifyIssuer(tokenIssuer, true) {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: want %s, got %q", ErrWrongTokenKind, kind, claims.Kind)
	}
	return claims, nil
}

// GenerateJWT issues the short-lived access token sent as a Bearer header.
func GenerateJWT(userID uuid.UUID, email, role string, ttlHours int) (string, error) {
	claims := newClaims(userID, AccessToken, ttlHours)
	claims.Email = email
	claims.Role = role
	return signClaims(claims)
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	return parseClaims(tokenString, AccessToken)
}

// GenerateRefreshToken carries only the user id; role and email are read
// again from the database when it is exchanged.
func GenerateRefreshToken(userID uuid.UUID, ttlHours int) (string, error) {
	return signClaims(newClaims(userID, RefreshToken, ttlHours))
}

// ValidateRefreshToken returns the user id the token was issued to.
func ValidateRefreshToken(tokenString string) (string, error) {
	claims, err := parseClaims(tokenString, RefreshToken)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
