// Package identity issues and resolves the bearer tokens that identify callers.
package identity

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/repository"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or subject checks.
var ErrInvalidToken = errors.New("invalid token")

const leeway = 30 * time.Second

// Service signs HS256 access tokens and maps them back to users.
type Service struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewService constructs an identity Service.
func NewService(users repository.UserRepository, signKey []byte, accessTTL time.Duration) *Service {
	return &Service{users: users, signKey: signKey, accessTTL: accessTTL, now: time.Now}
}

// Issue creates a signed HS256 JWT whose subject is the decimal user id.
func (s *Service) Issue(userID int64) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Verify checks the token and returns the user id it was issued for.
func (s *Service) Verify(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	}, jwt.WithLeeway(leeway), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Resolve verifies token and loads its user. A valid token for a user that no
// longer exists resolves to nil without error.
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, error) {
	id, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	v := strings.TrimSpace(header)
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		t := strings.TrimSpace(v[7:])
		if t != "" {
			return t, true
		}
	}
	return "", false
}
