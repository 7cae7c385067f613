package util

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.txt")
	require.NoError(t, os.WriteFile(path, []byte("  What is a goroutine? A light thread.  \n"), 0o600))

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine? A light thread.", text)
}

func TestExtractTextRejects(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n "), 0o600))
	_, err := ExtractText(empty)
	assert.ErrorIs(t, err, ErrNoText)

	_, err = ExtractText(filepath.Join(dir, "notes.docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func decode(t *testing.T, body io.Reader) OrderedErrorResponse {
	t.Helper()
	var out OrderedErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestErrorResponseHidesDetailsInProduction(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		t.Run(env, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				c.Locals(LocalsEnv, env)
				return ErrorResponse(c, ErrorResponseFormat{Code: fiber.StatusBadGateway, Message: "boom"}, errors.New("upstream down"))
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.False(t, body.Success)
			assert.Equal(t, "boom", body.Message)
			if env == "production" {
				assert.Empty(t, body.DevMessage)
				assert.Empty(t, body.Trace)
			} else {
				assert.Equal(t, "upstream down", body.DevMessage)
				assert.NotEmpty(t, body.Trace)
			}
		})
	}
}

func TestErrorResponseFormError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ErrorResponse(c, ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid request"},
			NewFormError("invalid request", map[string]string{"question": "required"}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, map[string]any{"question": "required"}, body.Details)
}

func TestSuccessResponseDefaultsToOK(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SuccessResponse(c, SuccessResponseFormat{Message: "ok", Data: fiber.Map{"n": 1}})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
