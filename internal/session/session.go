// Package session owns the bearer credential for the active user and
// decides whether it is still usable.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Fixed storage keys for the client-persisted credentials.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Credential sources reported by Source.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

var (
	// ErrNoCredential means no access credential is stored.
	ErrNoCredential = errors.New("no credential")
	// ErrAuthExpired means the credential's exp claim is at or before now.
	ErrAuthExpired = errors.New("credential expired")
	// ErrMalformedCredential means the credential could not be decoded.
	// Callers treat it exactly like ErrAuthExpired.
	ErrMalformedCredential = errors.New("malformed credential")
)

// Storage persists credentials on the client.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

// Clock returns the current time. Injected so expiry checks are testable.
type Clock func() time.Time

// Session is the process-wide credential holder passed to the gateway and
// the store.
type Session struct {
	storage  Storage
	now      Clock
	envToken string
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(s *Session) { s.now = c }
}

// WithEnvToken supplies a credential that takes precedence over storage and
// is never written to it.
func WithEnvToken(token string) Option {
	return func(s *Session) { s.envToken = stripBearer(strings.TrimSpace(token)) }
}

// New returns a Session backed by storage.
func New(storage Storage, opts ...Option) *Session {
	s := &Session{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }

// Login persists the credentials issued by the server.
func (s *Session) Login(access, refresh string) error {
	access = stripBearer(strings.TrimSpace(access))
	if access == "" {
		return fmt.Errorf("empty access token")
	}
	if err := s.storage.Set(AccessTokenKey, access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if refresh = strings.TrimSpace(refresh); refresh != "" {
		if err := s.storage.Set(RefreshTokenKey, refresh); err != nil {
			return fmt.Errorf("save refresh token: %w", err)
		}
	}
	return nil
}

// Logout purges both stored credentials.
func (s *Session) Logout() error {
	if err := s.storage.Remove(AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("purge credentials: %w", err)
	}
	return nil
}

// Source reports where the access credential comes from, or "" if none.
func (s *Session) Source() string {
	if s.envToken != "" {
		return SourceEnv
	}
	if tok, _ := s.token(); tok != "" {
		return SourceFile
	}
	return ""
}

// AccessToken returns the current bearer credential or "" when there is none.
// Storage failures are logged and yield "".
func (s *Session) AccessToken() string {
	tok, err := s.token()
	if err != nil {
		log.Warn().Err(err).Msg("read access token")
		return ""
	}
	return tok
}

func (s *Session) token() (string, error) {
	if s.envToken != "" {
		return s.envToken, nil
	}
	v, ok, err := s.storage.Get(AccessTokenKey)
	if err != nil || !ok {
		return "", err
	}
	return stripBearer(strings.TrimSpace(v)), nil
}

// Claims decodes the credential's payload without verifying the signature.
func (s *Session) Claims() (jwt.MapClaims, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, ErrNoCredential
	}
	return decodeClaims(tok)
}

// ExpiresAt returns the exp claim, or nil when the credential has none.
func (s *Session) ExpiresAt() (*time.Time, error) {
	claims, err := s.Claims()
	if err != nil {
		return nil, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: exp: %v", ErrMalformedCredential, err)
	}
	if exp == nil {
		return nil, nil
	}
	return &exp.Time, nil
}

// Check validates the stored credential against the clock. A credential
// without an exp claim never expires.
func (s *Session) Check() error {
	exp, err := s.ExpiresAt()
	if err != nil {
		return err
	}
	if exp != nil && !s.now().Before(*exp) {
		return ErrAuthExpired
	}
	return nil
}

func decodeClaims(tok string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	return claims, nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
