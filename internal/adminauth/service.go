package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredentials marks a failed password check.
var ErrInvalidCredentials = errors.New("adminauth: invalid credentials")

// ErrInvalidToken marks a token that failed signature, expiry, or
// session validation.
var ErrInvalidToken = errors.New("adminauth: invalid token")

// Service authenticates the admin and manages session tokens.
type Service struct {
	password string
	secret   []byte
	ttl      time.Duration
	sessions *SessionStore
	now      func() time.Time
}

// NewService creates the auth service. The password and secret come
// from config; an empty password disables login entirely.
func NewService(password, secret string, ttl time.Duration, sessions *SessionStore) *Service {
	if sessions == nil {
		panic("adminauth: session store cannot be nil")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		password: password,
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login checks the password and mints a session token.
func (s *Service) Login(ctx context.Context, password string) (token string, expiresAt time.Time, err error) {
	if s.password == "" || len(s.secret) == 0 {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt = now.Add(s.ttl)
	sessionID := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("adminauth: failed to sign token: %w", err)
	}
	if err := s.sessions.Create(ctx, sessionID, s.ttl); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate checks a token's signature and expiry, then confirms the
// session is still live in Redis.
func (s *Service) Validate(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if err := s.sessions.Validate(ctx, claims.ID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// Logout revokes the session behind a token. An already-invalid token
// is reported as ErrInvalidToken.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, claims.ID)
}

func (s *Service) parse(tokenString string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return jwt.RegisteredClaims{}, ErrInvalidToken
	}
	return claims, nil
}
