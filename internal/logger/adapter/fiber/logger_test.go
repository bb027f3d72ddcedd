package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/relaone/relaone-web/internal/logger/adapter/fiber"

	"github.com/relaone/relaone-web/internal/logger"
)

// expectedLoggerJSONFormat implements loggers default json format.
type expectedLoggerJSONFormat struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		config     adapter.Config
		want       *expectedLoggerJSONFormat
	}{
		{
			name:       "get / log json",
			targetPath: "/",
			want: &expectedLoggerJSONFormat{
				IP:     "0.0.0.0",
				Status: 200,
				URI:    "/",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "multiple slashes are logged unchanged",
			targetPath: "//events",
			want: &expectedLoggerJSONFormat{
				IP:     "0.0.0.0",
				Status: 404,
				URI:    "//events",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "query string is kept",
			targetPath: "/?from=%2Fevents",
			want: &expectedLoggerJSONFormat{
				IP:     "0.0.0.0",
				Status: 200,
				URI:    "/?from=%2Fevents",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "signed in user id is logged",
			targetPath: "/me",
			want: &expectedLoggerJSONFormat{
				IP:     "0.0.0.0",
				Status: 200,
				URI:    "/me",
				Method: fiber.MethodGet,
				Host:   "example.com",
				UserID: "u-42",
			},
		},
		{
			name:       "chain error is logged",
			targetPath: "/boom",
			want: &expectedLoggerJSONFormat{
				IP:     "0.0.0.0",
				Status: 418,
				URI:    "/boom",
				Method: fiber.MethodGet,
				Host:   "example.com",
				Error:  "teapot",
			},
		},
		{
			name:       "checkalive is not logged",
			targetPath: "/checkalive",
			config: adapter.Config{
				Config:        logger.Log{DisableCheckAlive: true},
				CheckAliveURI: "/checkalive",
			},
			want: nil,
		},
		{
			name:       "skipped by next",
			targetPath: "/",
			config: adapter.Config{
				Next: func(_ *fiber.Ctx) bool { return true },
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testMiddlewareHelper(t, tt.targetPath, tt.config)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got expectedLoggerJSONFormat
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, *tt.want, got)
		})
	}
}

func testMiddlewareHelper(t *testing.T, targetPath string, adapterConfig adapter.Config) string {
	t.Helper()

	var buf bytes.Buffer

	adapterConfig.Output = &buf

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(adapter.New(adapterConfig))

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	})
	app.Get("/me", func(ctx *fiber.Ctx) error {
		ctx.Locals(adapter.LocalsUserID, "u-42")
		return ctx.SendString("me")
	})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "teapot")
	})
	app.Get("/checkalive", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	return buf.String()
}
