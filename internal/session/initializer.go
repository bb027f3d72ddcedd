package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/api"
)

// Initialize reconciles the persisted token with the API, once per store.
// Later calls return immediately. It never fails: any problem settles the
// session signed out with the persisted token removed.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		epoch := s.epoch.Load()

		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("session initialization panicked")
				s.fail(ctx, epoch)
			}
		}()

		s.initialize(ctx, epoch)
	})
}

func (s *Store) initialize(ctx context.Context, epoch uint64) {
	// signed in through this store, nothing to reconcile
	if s.Snapshot().IsAuthenticated {
		s.Dispatch(Settled())
		return
	}

	token, err := s.tokens.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("can't read persisted token")
		s.fail(ctx, epoch)

		return
	}

	if token == "" {
		s.settleSignedOut(epoch)
		return
	}

	if expired(token, s.now()) {
		log.Debug().Msg("persisted token expired, skipping verification")
		s.fail(ctx, epoch)

		return
	}

	res, err := s.verify(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("persisted token rejected")
		s.fail(ctx, epoch)

		return
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.overtakenLocked(epoch) {
		s.Dispatch(Settled())
		return
	}

	if res.User == nil || res.Token == "" {
		s.clearLocked(ctx, Initialized(nil, ""))
		return
	}

	if res.Token != token {
		if err = s.tokens.Set(ctx, res.Token); err != nil {
			log.Warn().Err(err).Msg("can't persist refreshed token")
			s.clearLocked(ctx, Initialized(nil, ""))

			return
		}
	}

	s.Dispatch(Initialized(res.User, res.Token))
}

// verify calls the API and turns a panic into an error.
func (s *Store) verify(ctx context.Context, token string) (res api.AuthResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrVerifyPanicked, r)
		}
	}()

	return s.api.Verify(ctx, token)
}

// fail settles the session signed out and drops the persisted token, unless a
// logout or sign-in got there first. Their outcome is kept then.
func (s *Store) fail(ctx context.Context, epoch uint64) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.overtakenLocked(epoch) {
		s.Dispatch(Settled())
		return
	}

	s.clearLocked(ctx, Initialized(nil, ""))
}

func (s *Store) settleSignedOut(epoch uint64) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.overtakenLocked(epoch) {
		s.Dispatch(Settled())
		return
	}

	s.Dispatch(Initialized(nil, ""))
}

// overtakenLocked reports whether a logout, an invalidation or a sign-in
// happened since epoch was read. opMu must be held.
func (s *Store) overtakenLocked(epoch uint64) bool {
	return s.epoch.Load() != epoch || s.Snapshot().IsAuthenticated
}

// expired reports whether token is a JWT whose exp lies before now.
// Opaque tokens and tokens without exp are left to the API.
func expired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims

	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}

	if claims.ExpiresAt == nil {
		return false
	}

	return !now.Before(claims.ExpiresAt.Time)
}
