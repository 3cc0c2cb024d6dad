package application

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workai-app/workai-cli/internal/domain"
)

type fakeSessionBackend struct {
	loginSession    domain.Session
	loginErr        error
	registerSession domain.Session
	registerErr     error
	meUser          domain.User
	meErr           error
	meCalls         int
	disconnectErr   error
	disconnectCalls int
}

func (f *fakeSessionBackend) Login(_ context.Context, _, _ string) (domain.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeSessionBackend) Register(_ context.Context, _ domain.Registration) (domain.Session, error) {
	return f.registerSession, f.registerErr
}

func (f *fakeSessionBackend) Me(_ context.Context, _ string) (domain.User, error) {
	f.meCalls++
	return f.meUser, f.meErr
}

func (f *fakeSessionBackend) ZoomDisconnect(_ context.Context, _ string) error {
	f.disconnectCalls++
	return f.disconnectErr
}

func TestBootstrapWithoutTokenStaysOffline(t *testing.T) {
	t.Parallel()

	backend := &fakeSessionBackend{}
	svc := NewSessionService(newMemoryTokenStore(), backend, zerolog.Nop())

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, domain.StateAnonymous, svc.State())
	assert.Zero(t, backend.meCalls, "bootstrap without a token must not hit the network")
}

type observingTokenStore struct {
	*memoryTokenStore
	onGet func()
}

func (s *observingTokenStore) Get(ctx context.Context, kind domain.TokenKind) (string, error) {
	s.onGet()
	return s.memoryTokenStore.Get(ctx, kind)
}

func TestBootstrapChecksStoreBeforeValidating(t *testing.T) {
	t.Parallel()

	store := &observingTokenStore{memoryTokenStore: newMemoryTokenStore()}
	svc := NewSessionService(store, &fakeSessionBackend{}, zerolog.Nop())

	var stateAtRead domain.SessionState
	store.onGet = func() { stateAtRead = svc.State() }

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, domain.StateUninitialized, stateAtRead, "store must be read before any state transition")
	assert.Equal(t, domain.StateAnonymous, svc.State())
}

func TestBootstrapRestoresValidSession(t *testing.T) {
	t.Parallel()

	store := newMemoryTokenStore()
	require.NoError(t, store.Set(context.Background(), domain.TokenKindSession, "session-1"))

	backend := &fakeSessionBackend{meUser: domain.User{ID: "u1", Email: "ada@example.com"}}
	svc := NewSessionService(store, backend, zerolog.Nop())

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, domain.StateAuthenticated, svc.State())
	session, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "session-1", session.BearerToken)
	assert.Equal(t, "ada@example.com", session.User.Email)
}

func TestBootstrapRejectedSessionClearsEverything(t *testing.T) {
	t.Parallel()

	store := newMemoryTokenStore()
	for _, kind := range domain.TokenKinds() {
		require.NoError(t, store.Set(context.Background(), kind, "value-"+string(kind)))
	}

	backend := &fakeSessionBackend{meErr: &domain.APIError{StatusCode: 401, Message: "Unauthorized"}}
	svc := NewSessionService(store, backend, zerolog.Nop())

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, domain.StateAnonymous, svc.State())
	for _, kind := range domain.TokenKinds() {
		_, ok := store.get(kind)
		assert.False(t, ok, "kind %s must be cleared", kind)
	}
}

func TestLoginPersistsSessionToken(t *testing.T) {
	t.Parallel()

	store := newMemoryTokenStore()
	backend := &fakeSessionBackend{loginSession: domain.Session{
		BearerToken: "session-2",
		User:        domain.User{ID: "u1", Email: "ada@example.com"},
	}}
	svc := NewSessionService(store, backend, zerolog.Nop())

	session, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "session-2", session.BearerToken)
	assert.Equal(t, domain.StateAuthenticated, svc.State())

	stored, _ := store.get(domain.TokenKindSession)
	assert.Equal(t, "session-2", stored)
}

func TestLoginValidatesInputBeforeNetwork(t *testing.T) {
	t.Parallel()

	svc := NewSessionService(newMemoryTokenStore(), &fakeSessionBackend{}, zerolog.Nop())

	_, err := svc.Login(context.Background(), LoginInput{Email: "not-an-email", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate login input")
	assert.Equal(t, domain.StateUninitialized, svc.State())
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	t.Parallel()

	svc := NewSessionService(newMemoryTokenStore(), &fakeSessionBackend{}, zerolog.Nop())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "first-password",
		ConfirmPassword: "other-password",
		Plan:            "pro",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate registration input")
}

func TestLogoutClearsTokensEvenIfDisconnectFails(t *testing.T) {
	t.Parallel()

	store := newMemoryTokenStore()
	for _, kind := range domain.TokenKinds() {
		require.NoError(t, store.Set(context.Background(), kind, "value"))
	}

	backend := &fakeSessionBackend{
		meUser:        domain.User{ID: "u1"},
		disconnectErr: errors.New("backend unreachable"),
	}
	svc := NewSessionService(store, backend, zerolog.Nop())
	require.NoError(t, svc.Bootstrap(context.Background()))

	require.NoError(t, svc.Logout(context.Background()))

	assert.Equal(t, 1, backend.disconnectCalls)
	assert.Equal(t, domain.StateAnonymous, svc.State())
	for _, kind := range domain.TokenKinds() {
		_, ok := store.get(kind)
		assert.False(t, ok)
	}
	_, err := svc.Bearer()
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
