package session

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// LoginPath is where the guard redirects when no usable session exists.
const LoginPath = "/auth/login"

// Guard gates protected views behind a usable session.
type Guard struct {
	session  *Session
	redirect func(target string)
}

// NewGuard returns a Guard that calls redirect when the session is unusable.
func NewGuard(s *Session, redirect func(target string)) *Guard {
	return &Guard{session: s, redirect: redirect}
}

// EnsureSession reports whether a usable credential exists. Otherwise it
// purges stored credentials (unless there were none, or the rejected one came
// from the environment) and redirects to LoginPath. It never returns an
// error; the redirect is the failure signal.
func (g *Guard) EnsureSession() bool {
	err := g.session.Check()
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, ErrNoCredential):
	case g.session.Source() == SourceEnv:
		log.Info().Err(err).Msg("environment credential rejected, stored credentials kept")
	default:
		log.Info().Err(err).Msg("session rejected, purging credentials")
		if perr := g.session.Logout(); perr != nil {
			log.Error().Err(perr).Msg("purge credentials")
		}
	}
	g.redirect(LoginPath)
	return false
}
