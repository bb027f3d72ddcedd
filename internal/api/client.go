// Package api is the HTTP client for the RelaOne REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/models"
)

// HeaderRequestID is sent with every call so API logs can be correlated.
const HeaderRequestID = "X-Request-ID"

const maxBodySize = 1 << 20

// Client talks to the RelaOne API.
type Client struct {
	baseURL  string
	authPath string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for cfg.
func New(cfg config.API, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		authPath: "/" + strings.Trim(cfg.AuthPath, "/"),
		http:     &http.Client{Timeout: cfg.Timeout()},
	}

	if c.authPath == "/" {
		c.authPath = ""
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login exchanges credentials for a token and the user profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	return c.authenticate(ctx, "/login", creds)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	return c.authenticate(ctx, "/register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (AuthResult, error) {
	var res AuthResult

	if err := c.do(ctx, http.MethodPost, c.authPath+path, "", body, &res); err != nil {
		return AuthResult{}, err
	}

	if res.Token == "" {
		return AuthResult{}, ErrMissingToken
	}

	if res.User == nil {
		return AuthResult{}, ErrMissingUser
	}

	return res, nil
}

// Logout invalidates token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	return c.do(ctx, http.MethodPost, c.authPath+"/logout", token, nil, nil)
}

// Refresh rotates token. The answer may or may not carry the user.
func (c *Client) Refresh(ctx context.Context, token string) (AuthResult, error) {
	if token == "" {
		return AuthResult{}, ErrEmptyToken
	}

	var res AuthResult

	if err := c.do(ctx, http.MethodPost, c.authPath+"/refresh", token, nil, &res); err != nil {
		return AuthResult{}, err
	}

	if res.Token == "" {
		res.Token = token
	}

	return res, nil
}

// Me returns the profile belonging to token.
func (c *Client) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	var raw json.RawMessage

	if err := c.do(ctx, http.MethodGet, c.authPath+"/me", token, nil, &raw); err != nil {
		return nil, err
	}

	// both {"user": {...}} and a bare profile are in use
	var wrapped struct {
		User *models.UserProfile `json:"user"`
	}

	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var user models.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		return nil, ErrMissingUser
	}

	return &user, nil
}

// Verify checks token by refreshing it and returns the current token and profile.
func (c *Client) Verify(ctx context.Context, token string) (AuthResult, error) {
	res, err := c.Refresh(ctx, token)
	if err != nil {
		return AuthResult{}, err
	}

	if res.User != nil {
		return res, nil
	}

	res.User, err = c.Me(ctx, res.Token)
	if err != nil {
		return AuthResult{}, err
	}

	return res, nil
}

// ListEvents returns the public event list. token is sent when not empty.
func (c *Client) ListEvents(ctx context.Context, token string) ([]Event, error) {
	var raw json.RawMessage

	if err := c.do(ctx, http.MethodGet, "/events", token, nil, &raw); err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err == nil {
		return events, nil
	}

	var wrapped struct {
		Events []Event `json:"events"`
	}

	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &Error{Status: http.StatusOK, Message: "malformed events answer"}
	}

	return wrapped.Events, nil
}

// do sends one request. Transport failures come back wrapped, API rejections as *Error.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Str("method", method).Str("path", path).
			Msg("relaone api unreachable")

		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	log.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("relaone api call")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var env envelope

	decodeErr := json.Unmarshal(raw, &env)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if !ok || (decodeErr == nil && env.Success != nil && !*env.Success) {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

		if decodeErr == nil {
			apiErr.Errors = decodeFieldErrors(env.Errors)

			if env.Message != "" {
				apiErr.Message = env.Message
			}
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if decodeErr != nil || len(env.Data) == 0 {
		return &Error{Status: resp.StatusCode, Message: "malformed api answer"}
	}

	if err = json.Unmarshal(env.Data, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "malformed api answer"}
	}

	return nil
}
