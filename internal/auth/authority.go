// Package auth issues and verifies the signed admin session token and gates
// routes on it.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the dashboard knows about.
const RoleAdmin = "admin"

// DefaultTTL is the lifetime of a freshly issued session.
const DefaultTTL = 24 * time.Hour

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token has expired")
	ErrMalformed        = errors.New("malformed token")
)

// Session is the verified payload of a session token.
type Session struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// claims is the JWT body. expiresAt duplicates exp on purpose: the library
// enforces exp, callers enforce expiresAt, and both must hold.
type claims struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
	jwt.RegisteredClaims
}

// Options configures an Authority.
type Options struct {
	Secret   []byte
	Username string
	Password string
	TTL      time.Duration
	// Secure marks the session cookie HTTPS-only.
	Secure bool
}

// Authority owns encoding, decoding and verification of session tokens.
// It is safe for concurrent use; its key never changes after construction.
type Authority struct {
	secret   []byte
	username string
	password string
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

// New creates an Authority. An empty secret is rejected.
func New(opts Options) (*Authority, error) {
	if len(opts.Secret) == 0 {
		return nil, fmt.Errorf("auth: secret is empty")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{
		secret:   append([]byte(nil), opts.Secret...),
		username: opts.Username,
		password: opts.Password,
		ttl:      ttl,
		secure:   opts.Secure,
		now:      time.Now,
	}, nil
}

// WithClock returns a copy of a that reads time from now.
func (a *Authority) WithClock(now func() time.Time) *Authority {
	cp := *a
	cp.now = now
	return &cp
}

// Issue signs a new token for subject and role, expiring TTL from now.
func (a *Authority) Issue(subject, role string) (string, Session, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    subject,
		Role:      role,
		ExpiresAt: expiresAt,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, Session{Subject: subject, Role: role, ExpiresAt: expiresAt}, nil
}

// Verify decodes token and checks its algorithm (HS256 only), signature and
// registered exp claim. It does not look at the payload expiresAt; see Valid.
func (a *Authority) Verify(token string) (*Session, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &Session{Subject: c.UserID, Role: c.Role, ExpiresAt: c.ExpiresAt}, nil
}

// Valid reports whether token verifies and its payload has not expired.
func (a *Authority) Valid(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}
	s, err := a.Verify(token)
	if err != nil {
		return nil, false
	}
	if !s.ExpiresAt.After(a.now()) {
		return nil, false
	}
	return s, true
}

// ValidateCredentials reports whether username and password exactly match
// the configured admin pair. Both are compared in constant time.
func (a *Authority) ValidateCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}
