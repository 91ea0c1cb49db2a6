// Package auth provides session tokens, password hashing, the request
// guard middleware, and Google identity verification.
//
// SESSION FLOW:
// 1. A user registers, logs in, or completes a Google login
// 2. The server issues a signed JWT carrying {id, email, role, name}
// 3. The client sends it back as `Authorization: Bearer <token>`
// 4. RequireAuth validates the signature and expiry, then puts the decoded
//    claims in the request context — no database lookup per request
//
// The token is self-contained: if a user's role or name changes server-side,
// tokens issued earlier keep the old claims until they expire (24h). That
// staleness is accepted; revocation would need server-side session state.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/model"
)

// tokenTTL is the session lifetime. One day keeps a casual job seeker
// logged in for a browsing session without accumulating immortal tokens.
const tokenTTL = 24 * time.Hour

const issuer = "jobboard"

// Claims is the JWT payload: the registered claims plus the identity
// fields every handler needs. Embedding jwt.RegisteredClaims gives us
// standard expiry/issuer validation for free.
//
// Downstream code treats Claims as the request's identity — the id for
// ownership checks, the role for capability checks, email/name for display.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

// TokenService signs and verifies session tokens with an HMAC secret.
// The same secret is used for both operations; rotate it to invalidate
// every outstanding session at once.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Generate issues a signed 24-hour token for the given user.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, tokenTTL)
}

// GenerateWithDuration issues a token with a custom lifetime.
// Exists so tests can mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning its claims.
//
// The jwt library checks the signature, expiry, and issuer. We pin the
// algorithm to HS256 via WithValidMethods — without that, a token crafted
// with a different (or "none") algorithm could slip through ("algorithm
// confusion"). Failures come back as apperror.ErrInvalidToken so the
// handlers map them uniformly.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.InvalidToken("token expired")
		}
		return nil, apperror.InvalidToken("invalid token")
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.InvalidToken("invalid token claims")
	}
	if c.UserID == 0 {
		return nil, apperror.InvalidToken("token has no user id")
	}

	return c, nil
}
