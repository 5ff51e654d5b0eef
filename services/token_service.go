// services/token_service.go
package services

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService mints and validates the signed bearer tokens that carry a
// user's identity. Tokens are stateless: there is no revocation list, logout
// is a client-side discard.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// TokenClaims is the JWT payload: user id, role and the standard expiry.
type TokenClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService reads JWT_SECRET and JWT_TTL_HOURS from the environment.
func NewTokenService() *TokenService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	ttl := defaultTokenTTL
	if h := os.Getenv("JWT_TTL_HOURS"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Hour
		}
	}
	return NewTokenServiceWith(secret, ttl)
}

// NewTokenServiceWith builds a TokenService with explicit parameters (tests).
func NewTokenServiceWith(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token asserting the given user identity, valid for the
// configured TTL.
func (t *TokenService) Issue(userID uint, role string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "tournament-management-system",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseClaims verifies the signature and expiry and returns the claims.
func (t *TokenService) ParseClaims(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Validate reports whether the token is well-formed, signed by us and not
// yet expired. Malformed or tampered tokens simply return false.
func (t *TokenService) Validate(tokenStr string) bool {
	_, err := t.ParseClaims(tokenStr)
	return err == nil
}

// ExtractUserID decodes the identity claim. Callers must Validate first;
// an invalid token returns an error here.
func (t *TokenService) ExtractUserID(tokenStr string) (uint, error) {
	claims, err := t.ParseClaims(tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
