package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/interview-grader/internal/util"
)

func TestRateLimiterRejectsBurst(t *testing.T) {
	app := fiber.New()
	app.Get("/", RateLimiter(1, time.Minute), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	first, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, first.StatusCode)

	second, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "60", second.Header.Get(fiber.HeaderRetryAfter))
}

func TestEnvironmentSetsLocals(t *testing.T) {
	app := fiber.New()
	app.Use(Environment("production"))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(util.LocalsEnv).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "production", string(body))
}
