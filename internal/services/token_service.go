package services

import (
	"errors"
	"time"

	"notegrid/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the lifetime of every issued token. There is no revocation
// list; logout is client-side token discard, so rotating the signing secret
// is the only way to invalidate outstanding tokens.
const TokenTTL = 24 * time.Hour

// Verification failures, distinguished internally for logging. The HTTP
// surface collapses all of them into one message.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenService signs and verifies the compact identity tokens carried by
// every request.
type TokenService interface {
	Issue(user *models.User, tenantName string) (string, error)
	Verify(tokenString string) (*models.Identity, error)
}

// TokenClaims is the wire shape of an identity token.
type TokenClaims struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	Role       string `json:"role"`
	TenantName string `json:"tenant_name"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service signing with the given
// process-wide secret. The secret is injected at construction, never read
// from ambient state.
func NewTokenService(secret string) TokenService {
	return NewTokenServiceWithClock(secret, time.Now)
}

// NewTokenServiceWithClock injects the clock used for issuance and expiry
// checks.
func NewTokenServiceWithClock(secret string, now func() time.Time) TokenService {
	return &tokenService{secret: []byte(secret), now: now}
}

func (s *tokenService) Issue(user *models.User, tenantName string) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID:     user.ID.String(),
		TenantID:   user.TenantID.String(),
		Role:       user.Role,
		TenantName: tenantName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) Verify(tokenString string) (*models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	identity := &models.Identity{
		UserID:     userID,
		TenantID:   tenantID,
		Role:       claims.Role,
		TenantName: claims.TenantName,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
