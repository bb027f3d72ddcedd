package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaone/relaone-web/internal/guard"
	"github.com/relaone/relaone-web/internal/web/metrics"
)

func TestHandler(t *testing.T) {
	metrics.ObserveDecision("profile", guard.RedirectLogin)
	metrics.SetLiveSessions(3)

	app := fiber.New()
	app.Get(metrics.Path, metrics.Handler())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, metrics.Path, nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `relaone_guard_decisions_total{kind="redirect_login",route="profile"} 1`)
	assert.Contains(t, string(body), "relaone_live_sessions 3")
}
