package session

import (
	"context"
	"sync/atomic"
	"time"
	"warboard/internal/config"
	"warboard/internal/constants"
	"warboard/internal/domain"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

const loginKey = "login"

type Authenticator interface {
	Login(ctx context.Context, email, password string) error
}

type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: constants.LoginAttempts, Delay: constants.LoginRetryDelay}
}

// Manager owns the single upstream session of the process. Once a login
// succeeds the session is considered valid for the process lifetime.
type Manager struct {
	auth     Authenticator
	email    string
	password string
	policy   RetryPolicy
	logger   zerolog.Logger

	loggedIn atomic.Bool
	group    singleflight.Group
}

func NewManager(auth Authenticator, cfg *config.Config, logger zerolog.Logger) *Manager {
	return New(auth, cfg.CocEmail, cfg.CocPassword, DefaultRetryPolicy(), logger)
}

func New(auth Authenticator, email, password string, policy RetryPolicy, logger zerolog.Logger) *Manager {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Manager{
		auth:     auth,
		email:    email,
		password: password,
		policy:   policy,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

func (m *Manager) LoggedIn() bool {
	return m.loggedIn.Load()
}

// EnsureLoggedIn returns once a session exists. Concurrent callers share a
// single in-flight login; each caller stops waiting when its own ctx ends
// while the shared attempt carries on for the others.
func (m *Manager) EnsureLoggedIn(ctx context.Context) error {
	if m.loggedIn.Load() {
		return nil
	}
	if m.email == "" || m.password == "" {
		return &domain.AuthError{Err: domain.ErrMissingCredentials}
	}

	ch := m.group.DoChan(loginKey, func() (any, error) {
		if m.loggedIn.Load() {
			return nil, nil
		}
		return nil, m.login(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (m *Manager) login(ctx context.Context) error {
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(m.policy.Attempts-1), retry.NewConstant(m.policy.Delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := m.auth.Login(ctx, m.email, m.password); err != nil {
			m.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("attempts_left", m.policy.Attempts-attempt).
				Msg("login failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		m.logger.Error().Err(err).Int("attempts", attempt).Msg("giving up on upstream login")
		return &domain.AuthError{Err: err}
	}

	m.loggedIn.Store(true)
	m.logger.Info().Int("attempts", attempt).Msg("upstream session established")
	return nil
}
