package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaone/relaone-web/internal/api"
	"github.com/relaone/relaone-web/internal/config"
	"github.com/relaone/relaone-web/internal/models"
)

func newClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return api.New(config.API{BaseURL: server.URL + "/api", AuthPath: "/auth", TimeoutSeconds: 5})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Login(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Empty(t, r.Header.Get("Authorization"))

			_, err := uuid.Parse(r.Header.Get(api.HeaderRequestID))
			assert.NoError(t, err)

			var creds api.Credentials
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "vera@example.org", creds.Email)

			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"token": "T1",
					"user":  map[string]any{"id": "u1", "name": "Vera", "email": "vera@example.org", "role": "volunteer"},
				},
			})
		})

		res, err := client.Login(context.Background(), api.Credentials{Email: "vera@example.org", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "T1", res.Token)
		require.NotNil(t, res.User)
		assert.Equal(t, models.RoleVolunteer, res.User.Role)
	})

	t.Run("server rejection with object field errors", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  map[string]any{"email": []string{"already taken"}, "password": "too short"},
			})
		})

		_, err := client.Login(context.Background(), api.Credentials{})

		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		assert.Equal(t, "Validation failed", apiErr.Message)
		assert.Equal(t, "already taken", apiErr.Field("email"))
		assert.Equal(t, "too short", apiErr.Field("password"))
		assert.Equal(t, []string{"email", "password"}, apiErr.Errors.Fields())
	})

	t.Run("success false on 200 is a rejection", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid credentials"})
		})

		_, err := client.Login(context.Background(), api.Credentials{})

		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
		assert.False(t, api.IsUnauthorized(err))
	})

	t.Run("missing user is an error", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "T"}})
		})

		_, err := client.Login(context.Background(), api.Credentials{})
		require.ErrorIs(t, err, api.ErrMissingUser)
	})

	t.Run("transport failure keeps the raw error", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		client := api.New(config.API{BaseURL: "http://" + addr, AuthPath: "/auth", TimeoutSeconds: 1})

		_, err = client.Login(context.Background(), api.Credentials{})
		require.Error(t, err)

		var apiErr *api.Error
		assert.False(t, errors.As(err, &apiErr))

		var opErr *net.OpError
		assert.ErrorAs(t, err, &opErr)
	})
}

func TestClient_Register_ArrayFieldErrors(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)

		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Bad request",
			"errors": []map[string]string{
				{"path": "email", "msg": "invalid email"},
				{"param": "name", "message": "required"},
				{"field": "email", "msg": "already taken"},
			},
		})
	})

	_, err := client.Register(context.Background(), api.Registration{})

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.FieldErrors{
		"email": {"invalid email", "already taken"},
		"name":  {"required"},
	}, apiErr.Errors)
}

func TestClient_Verify(t *testing.T) {
	t.Run("refresh carries the user", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/refresh", r.URL.Path)
			assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))

			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"token": "T2", "user": map[string]any{"id": "a1", "role": "admin"}},
			})
		})

		res, err := client.Verify(context.Background(), "T1")
		require.NoError(t, err)
		assert.Equal(t, "T2", res.Token)
		assert.Equal(t, models.RoleAdmin, res.User.Role)
	})

	t.Run("refresh without user falls back to me", func(t *testing.T) {
		var calls []string

		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.URL.Path)

			switch r.URL.Path {
			case "/api/auth/refresh":
				writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "T2"}})
			case "/api/auth/me":
				assert.Equal(t, "Bearer T2", r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, map[string]any{
					"success": true,
					"data":    map[string]any{"user": map[string]any{"id": "o1", "role": "organization"}},
				})
			}
		})

		res, err := client.Verify(context.Background(), "T1")
		require.NoError(t, err)
		assert.Equal(t, "T2", res.Token)
		assert.Equal(t, "o1", res.User.ID)
		assert.Equal(t, []string{"/api/auth/refresh", "/api/auth/me"}, calls)
	})

	t.Run("401 is unauthorized", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Token expired"})
		})

		_, err := client.Verify(context.Background(), "T1")
		assert.True(t, api.IsUnauthorized(err))
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := api.New(config.API{BaseURL: "http://127.0.0.1"}).Verify(context.Background(), "")
		require.ErrorIs(t, err, api.ErrEmptyToken)
	})
}

func TestClient_Logout(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Logout(context.Background(), "T1"))
	require.ErrorIs(t, client.Logout(context.Background(), ""), api.ErrEmptyToken)
}

func TestClient_ListEvents(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events", r.URL.Path)

		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"id": "e1", "title": "Beach cleanup"}},
			})

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"events": []map[string]any{{"id": "e2", "title": "Food bank"}}},
		})
	})

	events, err := client.ListEvents(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Beach cleanup", events[0].Title)

	events, err = client.ListEvents(context.Background(), "T")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e2", events[0].ID)
}

func TestClient_ErrorKeepsMessageWhateverTheErrorsShape(t *testing.T) {
	tests := []struct {
		name   string
		errors any
		want   api.FieldErrors
	}{
		{
			name:   "object of objects",
			errors: map[string]any{"email": map[string]string{"msg": "Email taken"}},
			want:   api.FieldErrors{"email": {"Email taken"}},
		},
		{
			name:   "list of strings",
			errors: []string{"Email taken"},
			want:   api.FieldErrors{api.GeneralField: {"Email taken"}},
		},
		{
			name:   "plain string",
			errors: "Email taken",
			want:   api.FieldErrors{api.GeneralField: {"Email taken"}},
		},
		{
			name:   "number",
			errors: 42,
			want:   nil,
		},
		{
			name:   "object with a number",
			errors: map[string]any{"email": 42, "name": "required"},
			want:   api.FieldErrors{"name": {"required"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"success": false,
					"message": "Validation failed",
					"errors":  tt.errors,
				})
			})

			_, err := client.Register(context.Background(), api.Registration{})

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
			assert.Equal(t, "Validation failed", apiErr.Message)
			assert.Equal(t, tt.want, apiErr.Errors)
		})
	}
}

func TestFieldErrors_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want api.FieldErrors
	}{
		{name: "null", in: `null`, want: nil},
		{name: "object of lists", in: `{"email": ["taken", "invalid"]}`, want: api.FieldErrors{"email": {"taken", "invalid"}}},
		{name: "object of strings", in: `{"email": "taken"}`, want: api.FieldErrors{"email": {"taken"}}},
		{name: "object of message objects", in: `{"email": {"message": "taken"}}`, want: api.FieldErrors{"email": {"taken"}}},
		{name: "list of items", in: `[{"path": "email", "msg": "taken"}, {"msg": "try later"}]`, want: api.FieldErrors{"email": {"taken"}, "_": {"try later"}}},
		{name: "list of strings", in: `["taken"]`, want: api.FieldErrors{"_": {"taken"}}},
		{name: "string", in: `"oops"`, want: api.FieldErrors{"_": {"oops"}}},
		{name: "unknown value is skipped", in: `{"email": 42}`, want: nil},
		{name: "boolean", in: `true`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f api.FieldErrors

			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}
