package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/workai-app/workai-cli/internal/domain"
	"github.com/workai-app/workai-cli/internal/ports"
)

// SessionBackend is the slice of the HTTP client the session lifecycle
// needs.
type SessionBackend interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
	Me(ctx context.Context, bearer string) (domain.User, error)
	ZoomDisconnect(ctx context.Context, bearer string) error
}

// LoginInput carries login credentials, validated before any network
// call is made.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterInput carries account-creation fields. ConfirmPassword is
// checked locally and never sent over the wire.
type RegisterInput struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	Plan            string `validate:"required"`
	IsYearly        bool
}

// SessionService owns the process-wide session: the persisted bearer
// token, the authenticated user, and the lifecycle state around both.
type SessionService struct {
	store    ports.TokenStore
	backend  SessionBackend
	validate *validator.Validate
	logger   zerolog.Logger

	mu      sync.RWMutex
	state   domain.SessionState
	session domain.Session
}

func NewSessionService(store ports.TokenStore, backend SessionBackend, logger zerolog.Logger) *SessionService {
	return &SessionService{
		store:    store,
		backend:  backend,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "session").Logger(),
		state:    domain.StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the active session, if authenticated.
func (s *SessionService) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.state == domain.StateAuthenticated
}

// Bearer returns the active session token, or ErrNotAuthenticated.
func (s *SessionService) Bearer() (string, error) {
	session, ok := s.Current()
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	return session.BearerToken, nil
}

// Bootstrap restores the session from the stored bearer token. With no
// stored token it settles to anonymous without touching the network.
// When validation fails, every stored token is cleared so a stale
// session cannot keep half-working provider connections alive.
func (s *SessionService) Bootstrap(ctx context.Context) error {
	bearer, err := s.store.Get(ctx, domain.TokenKindSession)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			s.setState(domain.StateAnonymous, domain.Session{})
			return nil
		}
		s.setState(domain.StateAnonymous, domain.Session{})
		return fmt.Errorf("read session token: %w", err)
	}

	s.setState(domain.StateValidating, domain.Session{})
	user, err := s.backend.Me(ctx, bearer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stored session rejected, clearing tokens")
		if clearErr := s.clearAll(ctx); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("failed to clear tokens for rejected session")
		}
		s.setState(domain.StateAnonymous, domain.Session{})
		return nil
	}

	s.setState(domain.StateAuthenticated, domain.Session{User: user, BearerToken: bearer})
	return nil
}

// Login authenticates against the backend and persists the session
// token.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (domain.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Session{}, fmt.Errorf("validate login input: %w", err)
	}

	session, err := s.backend.Login(ctx, input.Email, input.Password)
	if err != nil {
		return domain.Session{}, err
	}

	if err := s.store.Set(ctx, domain.TokenKindSession, session.BearerToken); err != nil {
		return domain.Session{}, fmt.Errorf("store session token: %w", err)
	}

	s.setState(domain.StateAuthenticated, session)
	s.logger.Info().Str("email", session.User.Email).Msg("logged in")
	return session, nil
}

// Register creates an account and starts a session with the returned
// token.
func (s *SessionService) Register(ctx context.Context, input RegisterInput) (domain.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Session{}, fmt.Errorf("validate registration input: %w", err)
	}

	session, err := s.backend.Register(ctx, domain.Registration{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
		Plan:      input.Plan,
		IsYearly:  input.IsYearly,
	})
	if err != nil {
		return domain.Session{}, err
	}

	if err := s.store.Set(ctx, domain.TokenKindSession, session.BearerToken); err != nil {
		return domain.Session{}, fmt.Errorf("store session token: %w", err)
	}

	s.setState(domain.StateAuthenticated, session)
	s.logger.Info().Str("email", session.User.Email).Msg("registered")
	return session, nil
}

// Logout tears the session down. The backend disconnect is best
// effort: local state is cleared whether or not the backend heard the
// request.
func (s *SessionService) Logout(ctx context.Context) error {
	if bearer, err := s.Bearer(); err == nil {
		if err := s.backend.ZoomDisconnect(ctx, bearer); err != nil {
			s.logger.Debug().Err(err).Msg("zoom disconnect during logout failed")
		}
	}

	err := s.clearAll(ctx)
	s.setState(domain.StateAnonymous, domain.Session{})
	if err != nil {
		return fmt.Errorf("clear stored tokens: %w", err)
	}
	s.logger.Info().Msg("logged out")
	return nil
}

func (s *SessionService) clearAll(ctx context.Context) error {
	var errs []error
	for _, kind := range domain.TokenKinds() {
		if err := s.store.Delete(ctx, kind); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}

func (s *SessionService) setState(state domain.SessionState, session domain.Session) {
	s.mu.Lock()
	s.state = state
	s.session = session
	s.mu.Unlock()
}
