package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/tokenstore"
)

// AuthAPI is the part of the RelaOne API the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (api.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (api.AuthResult, error)
	Verify(ctx context.Context, token string) (api.AuthResult, error)
}

// Store is the session of one browser.
//
// Observers only ever see whole transitions. Logout and Invalidate win over any
// network call that is still in flight: such a call's result is dropped.
type Store struct {
	// opMu orders token persistence and the matching dispatch.
	opMu sync.Mutex
	// dispatchMu keeps observer notifications in transition order.
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     State
	observers map[uint64]func(State)
	nextObs   uint64

	// epoch is bumped by every logout and invalidation.
	epoch atomic.Uint64

	initOnce sync.Once

	tokens tokenstore.TokenStore
	api    AuthAPI
	now    func() time.Time
}

// NewStore creates an uninitialised, signed-out store.
func NewStore(tokens tokenstore.TokenStore, authAPI AuthAPI) *Store {
	return &Store{
		observers: make(map[uint64]func(State)),
		tokens:    tokens,
		api:       authAPI,
		now:       time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.clone()
}

// Subscribe registers fn to be called after every transition. fn must not
// dispatch. The returned func removes the observer.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.observers, id)
	}
}

// Dispatch applies a and notifies the observers.
func (s *Store) Dispatch(a Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.clone()

	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	log.Trace().Str("action", a.Type.String()).Bool("authenticated", snapshot.IsAuthenticated).
		Msg("session transition")

	for _, fn := range observers {
		fn(snapshot)
	}
}

// Login persists token and signs user in.
func (s *Store) Login(ctx context.Context, user *models.UserProfile, token string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.tokens.Set(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.Dispatch(LoginSucceeded(user, token))

	return nil
}

// Logout tells the API the token is gone, then clears the token and the state
// whatever the API said. It never fails and can be called any number of times.
func (s *Store) Logout(ctx context.Context) {
	s.epoch.Add(1)

	token := s.Snapshot().Token
	if token == "" {
		persisted, err := s.tokens.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("logout: can't read persisted token")
		}

		token = persisted
	}

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			log.Warn().Err(err).Msg("logout: api call failed, signing out locally")
		}
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.clearLocked(ctx, LoggedOut())
}

// Invalidate drops the session without calling the API. Used when the API
// answered a request with 401.
func (s *Store) Invalidate(ctx context.Context) {
	s.epoch.Add(1)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.clearLocked(ctx, Invalidated())
}

// clearLocked removes the persisted token and resets the state. opMu must be held.
func (s *Store) clearLocked(ctx context.Context, a Action) {
	if err := s.tokens.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("can't clear persisted token")
	}

	s.Dispatch(a)
}

// SetLoading flags a pending operation.
func (s *Store) SetLoading(loading bool) { s.Dispatch(SetLoading(loading)) }

// SetError records err, normalised.
func (s *Store) SetError(err error) { s.Dispatch(SetError(NewErrorInfo(err))) }

// ClearError drops the recorded error.
func (s *Store) ClearError() { s.Dispatch(ClearError()) }

// ReplaceUser swaps the profile of the signed-in user.
func (s *Store) ReplaceUser(user *models.UserProfile) { s.Dispatch(UserReplaced(user)) }

// SignIn logs in with creds. Failures are recorded on the state and returned
// as *ErrorInfo.
func (s *Store) SignIn(ctx context.Context, creds api.Credentials) error {
	return s.authenticate(ctx, func(ctx context.Context) (api.AuthResult, error) {
		return s.api.Login(ctx, creds)
	})
}

// SignUp registers reg and signs the new account in.
func (s *Store) SignUp(ctx context.Context, reg api.Registration) error {
	return s.authenticate(ctx, func(ctx context.Context) (api.AuthResult, error) {
		return s.api.Register(ctx, reg)
	})
}

func (s *Store) authenticate(ctx context.Context, call func(context.Context) (api.AuthResult, error)) error {
	epoch := s.epoch.Load()

	s.Dispatch(ClearError())
	s.Dispatch(SetLoading(true))

	res, err := call(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.epoch.Load() != epoch {
		return ErrSuperseded
	}

	if err != nil {
		info := NewErrorInfo(err)
		s.Dispatch(SetError(info))

		return info
	}

	if err = s.tokens.Set(ctx, res.Token); err != nil {
		info := NewErrorInfo(fmt.Errorf("persist token: %w", err))
		s.Dispatch(SetError(info))

		return info
	}

	s.Dispatch(LoginSucceeded(res.User, res.Token))

	return nil
}

// Refresh rotates the token. A 401 invalidates the session.
func (s *Store) Refresh(ctx context.Context) error {
	epoch := s.epoch.Load()

	token := s.Snapshot().Token
	if token == "" {
		return ErrNotSignedIn
	}

	res, err := s.api.Refresh(ctx, token)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.epoch.Load() != epoch {
		return ErrSuperseded
	}

	if err != nil {
		if api.IsUnauthorized(err) {
			s.epoch.Add(1)
			s.clearLocked(ctx, Invalidated())
		}

		return NewErrorInfo(err)
	}

	if res.Token != token {
		if err = s.tokens.Set(ctx, res.Token); err != nil {
			return fmt.Errorf("persist token: %w", err)
		}
	}

	s.Dispatch(TokenRefreshed(res.Token, res.User))

	return nil
}
