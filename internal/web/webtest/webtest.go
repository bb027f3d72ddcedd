// Package webtest provides a fake RelaOne API and fiber helpers for the web
// package tests.
package webtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/models"
	"github.com/relaone/relaone-web/internal/tokenstore"
	"github.com/relaone/relaone-web/internal/uniuri"
	"github.com/relaone/relaone-web/internal/web/handler"
	websession "github.com/relaone/relaone-web/internal/web/session"
)

// CookieName is the session cookie of Config.
const CookieName = "relaone_session"

// Views is a fiber.Views stub. It writes the template name, followed by the
// "Error" value of the data map when there is one.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["Error"].(string); exists && v != "" {
			_, _ = io.WriteString(w, ": "+v)
		}
	}

	return nil
}

// Config returns a config suitable for tests.
func Config(apiURL string) *config.Config {
	return &config.Config{
		Title: "RelaOne",
		Webserver: config.Webserver{
			Session: config.Session{
				CookieName:    CookieName,
				ExpirySeconds: 3600,
				CacheSize:     64,
			},
		},
		API: config.API{
			BaseURL:        apiURL,
			AuthPath:       "/auth",
			TimeoutSeconds: 5,
		},
		TokenStore: config.TokenStore{Driver: config.DriverMemory},
	}
}

type account struct {
	password string
	user     models.UserProfile
}

// API is an in-memory RelaOne REST backend.
type API struct {
	URL string

	mu       sync.Mutex
	accounts map[string]account
	tokens   map[string]string // token to email
	events   []api.Event
	down     bool
	calls    map[string]int
}

// NewAPI starts a fake API, stopped when t ends.
func NewAPI(t *testing.T) *API {
	t.Helper()

	a := &API{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		calls:    make(map[string]int),
	}

	server := httptest.NewServer(http.HandlerFunc(a.serve))
	t.Cleanup(server.Close)

	a.URL = server.URL + "/api"

	return a
}

// AddUser registers an account and returns a token issued to it.
func (a *API) AddUser(user models.UserProfile, password string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accounts[user.Email] = account{password: password, user: user}

	return a.issueLocked(user.Email)
}

// AddEvents appends events to the event list.
func (a *API) AddEvents(events ...api.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, events...)
}

// Revoke makes token unknown to the API.
func (a *API) Revoke(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.tokens, token)
}

// SetDown makes every call answer 500.
func (a *API) SetDown(down bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.down = down
}

// Calls returns how often path was requested.
func (a *API) Calls(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.calls[path]
}

func (a *API) issueLocked(email string) string {
	token := "tok-" + uniuri.New()
	a.tokens[token] = email

	return token
}

func (a *API) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	a.calls[path]++

	if a.down {
		reply(w, http.StatusInternalServerError, false, "internal error", nil)
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	email, known := a.tokens[token]

	switch path {
	case "/auth/login":
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)

		acc, ok := a.accounts[creds.Email]
		if !ok || acc.password != creds.Password {
			reply(w, http.StatusUnauthorized, false, "Invalid email or password", nil)
			return
		}

		reply(w, http.StatusOK, true, "", api.AuthResult{Token: a.issueLocked(creds.Email), User: &acc.user})

	case "/auth/register":
		var reg api.Registration
		_ = json.NewDecoder(r.Body).Decode(&reg)

		if _, taken := a.accounts[reg.Email]; taken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "Registration failed",
				"errors":  map[string]any{"email": "already registered"},
			})

			return
		}

		user := models.UserProfile{ID: "u-" + uniuri.New(), Name: reg.Name, Email: reg.Email, Role: reg.Role}
		a.accounts[reg.Email] = account{password: reg.Password, user: user}

		reply(w, http.StatusCreated, true, "", api.AuthResult{Token: a.issueLocked(reg.Email), User: &user})

	case "/auth/refresh":
		if !known {
			reply(w, http.StatusUnauthorized, false, "Unauthorized", nil)
			return
		}

		reply(w, http.StatusOK, true, "", map[string]string{"token": token})

	case "/auth/me":
		if !known {
			reply(w, http.StatusUnauthorized, false, "Unauthorized", nil)
			return
		}

		user := a.accounts[email].user
		reply(w, http.StatusOK, true, "", map[string]any{"user": user})

	case "/auth/logout":
		delete(a.tokens, token)
		reply(w, http.StatusOK, true, "", nil)

	case "/events":
		if token != "" && !known {
			reply(w, http.StatusUnauthorized, false, "Unauthorized", nil)
			return
		}

		reply(w, http.StatusOK, true, "", a.events)

	default:
		reply(w, http.StatusNotFound, false, "not found", nil)
	}
}

func reply(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

// Env is a handler dependency set backed by a fake API and a memory token store.
type Env struct {
	API     *API
	Config  *config.Config
	Backend *tokenstore.Memory
	Client  *api.Client
	Deps    *handler.Deps
}

// NewEnv builds an Env.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	fake := NewAPI(t)
	cfg := Config(fake.URL)
	backend := tokenstore.NewMemory()
	client := api.New(cfg.API)

	manager, err := websession.NewManager(cfg, backend, client)
	require.NoError(t, err)

	return &Env{
		API:     fake,
		Config:  cfg,
		Backend: backend,
		Client:  client,
		Deps: &handler.Deps{
			Sessions: manager,
			Events:   client,
			Routes:   guard.DefaultRoutes(),
			Rules:    guard.DefaultAccessRules(),
		},
	}
}

// Browser returns a session cookie whose persisted token is token. An empty
// token gives a fresh browser with no stored session.
func (e *Env) Browser(t *testing.T, token string) *http.Cookie {
	t.Helper()

	sid := uniuri.MustNewLen(uniuri.SessionLen)

	if token != "" {
		require.NoError(t, e.Backend.Set(context.Background(), tokenstore.ScopedKey(sid), []byte(token), 0))
	}

	return &http.Cookie{Name: CookieName, Value: sid}
}

// Do sends req to app, with cookie when not nil.
func Do(t *testing.T, app *fiber.App, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()

	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// Body reads and closes the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

// SessionCookie returns the session cookie set by resp, nil when there is none.
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			return c
		}
	}

	return nil
}
