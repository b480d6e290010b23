// Package jwtauth emite y verifica los bearer tokens (HS256) del backend de prueba.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"petlar-client/internal/ports/auth"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrNotConfigured = errors.New("jwtauth: secret not configured")
	ErrTokenEmpty    = errors.New("jwtauth: token is empty")
	ErrInvalidToken  = errors.New("jwtauth: invalid token")
)

type Config struct {
	Secret string
	// Issuer por defecto "petlar".
	Issuer string
	// TTL por defecto DefaultTTL.
	TTL time.Duration
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Tokens implementa auth.TokenIssuer y auth.AuthVerifier.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(cfg Config) (*Tokens, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}
	iss := strings.TrimSpace(cfg.Issuer)
	if iss == "" {
		iss = "petlar"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), issuer: iss, ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) Issue(userID, email string) (string, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", time.Time{}, errors.New("jwtauth: user id required")
	}

	now := t.now()
	exp := now.Add(t.ttl)
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwtauth: sign: %w", err)
	}
	return signed, exp, nil
}

func (t *Tokens) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c,
		func(tk *jwt.Token) (any, error) {
			if tk.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return t.secret, nil
		},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	uid := strings.TrimSpace(c.Subject)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return auth.Claims{UserID: uid, Email: c.Email}, nil
}

var (
	_ auth.TokenIssuer  = (*Tokens)(nil)
	_ auth.AuthVerifier = (*Tokens)(nil)
)
