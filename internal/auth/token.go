package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/google/uuid"

	"stayhub/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims carries the authenticated identity inside the access token.
// The registered ID (jti) lets individual tokens be revoked on logout.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	signer   jwt.Signer
	verifier jwt.Verifier
	ttl      time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	key := []byte(secret)
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt signer: %w", err)
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt verifier: %w", err)
	}
	return &TokenManager{signer: signer, verifier: verifier, ttl: ttl}, nil
}

func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds a signed token for the user and returns it along with
// its revocation ID.
func (tm *TokenManager) Issue(user *models.User) (string, string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	builder := jwt.NewBuilder(tm.signer)
	token, err := builder.Build(claims)
	if err != nil {
		return "", "", fmt.Errorf("failed to build token: %w", err)
	}
	return token.String(), claims.ID, nil
}

// Verify parses and validates a raw token and returns the identity it
// carries.
func (tm *TokenManager) Verify(raw string) (*models.Identity, error) {
	var claims Claims
	if err := jwt.ParseClaims([]byte(raw), tm.verifier, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if !claims.IsValidAt(time.Now()) {
		return nil, ErrExpiredToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return &models.Identity{
		UserID:  claims.UserID,
		Role:    claims.Role,
		TokenID: claims.ID,
	}, nil
}
