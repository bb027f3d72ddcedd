// Package session maps browser session cookies to client sessions.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/config"
	appsession "github.com/relaone/relaone-web/internal/session"
	"github.com/relaone/relaone-web/internal/tokenstore"
	"github.com/relaone/relaone-web/internal/uniuri"
)

// Manager hands out one *appsession.Store per browser.
//
// Live stores are kept in an LRU cache. An evicted store is rebuilt on the next
// request from the persisted token and initialised again.
type Manager struct {
	cookieName string
	expiry     time.Duration
	secure     bool

	backend tokenstore.Backend
	api     appsession.AuthAPI
	stores  *lru.Cache[string, *appsession.Store]
}

// NewManager creates a manager persisting tokens in backend.
func NewManager(cfg *config.Config, backend tokenstore.Backend, authAPI appsession.AuthAPI) (*Manager, error) {
	if cfg == nil || backend == nil || authAPI == nil {
		return nil, ErrNilDependency
	}

	stores, err := lru.New[string, *appsession.Store](cfg.Webserver.Session.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cookieName: cfg.Webserver.Session.CookieName,
		expiry:     cfg.Webserver.Session.Expiry(),
		secure:     !cfg.DevMode,
		backend:    backend,
		api:        authAPI,
		stores:     stores,
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.cookieName }

// Acquire returns the store of the browser behind c, issuing a new session
// cookie when the browser has none or a malformed one.
func (m *Manager) Acquire(c *fiber.Ctx) (*appsession.Store, string) {
	sid := c.Cookies(m.cookieName)

	if !uniuri.Valid(sid, uniuri.SessionLen) {
		sid = uniuri.MustNewLen(uniuri.SessionLen)

		log.Debug().Str("ip", c.IP()).Msg("issuing new browser session")
	}

	// refresh the cookie on every request so an active browser keeps its session
	m.setCookie(c, sid, int(m.expiry.Seconds()))

	return m.Store(sid), sid
}

// Store returns the store for sid, creating it when it is not cached.
func (m *Manager) Store(sid string) *appsession.Store {
	if store, ok := m.stores.Get(sid); ok {
		return store
	}

	store := appsession.NewStore(tokenstore.Scoped(m.backend, sid, m.expiry), m.api)

	// a concurrent request may have created the store first
	if prev, ok, _ := m.stores.PeekOrAdd(sid, store); ok {
		return prev
	}

	return store
}

// Rotate moves the signed-in session sid to a freshly issued id and points the
// cookie of c at it. The token under sid is dropped without telling the API,
// so an id set before the sign-in never carries it.
func (m *Manager) Rotate(ctx context.Context, c *fiber.Ctx, sid string) (*appsession.Store, string, error) {
	old := m.Store(sid)

	state := old.Snapshot()
	if !state.SignedIn() {
		return old, sid, appsession.ErrNotSignedIn
	}

	next := uniuri.MustNewLen(uniuri.SessionLen)
	store := appsession.NewStore(tokenstore.Scoped(m.backend, next, m.expiry), m.api)

	if err := store.Login(ctx, state.User, state.Token); err != nil {
		return old, sid, fmt.Errorf("rotate session: %w", err)
	}

	old.Invalidate(ctx)
	m.stores.Remove(sid)
	m.stores.Add(next, store)

	m.setCookie(c, next, int(m.expiry.Seconds()))

	log.Debug().Str("ip", c.IP()).Msg("rotated browser session")

	return store, next, nil
}

// Len returns the number of cached stores.
func (m *Manager) Len() int { return m.stores.Len() }

// End logs the browser behind c out and expires its cookie.
func (m *Manager) End(ctx context.Context, c *fiber.Ctx) {
	sid := c.Cookies(m.cookieName)
	if uniuri.Valid(sid, uniuri.SessionLen) {
		m.Store(sid).Logout(ctx)
		m.stores.Remove(sid)
	}

	m.setCookie(c, "", -1)
}

// Close releases the token backend.
func (m *Manager) Close() error {
	m.stores.Purge()

	return m.backend.Close()
}

func (m *Manager) setCookie(c *fiber.Ctx, value string, maxAge int) {
	var expires time.Time
	if maxAge < 0 {
		expires = time.Unix(0, 0)
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
