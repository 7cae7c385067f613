package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/interview-grader/internal/config"
)

func TestOpenRouterGenerateText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"SCORE: 8\nPASSED: YES"}}]}`))
	}))
	defer srv.Close()

	s, err := NewOpenRouterService(&config.OpenRouterConfig{APIKey: "secret", Model: "openai/gpt-4o-mini", BaseURL: srv.URL + "/"}, nil)
	require.NoError(t, err)

	out, err := s.GenerateText(context.Background(), "grade", 0.1)
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 8\nPASSED: YES", out)
	assert.Equal(t, "openai/gpt-4o-mini", got["model"])
	assert.InDelta(t, 0.1, got["temperature"], 1e-6)
}

func TestOpenRouterErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid model"}}`))
	}))
	defer srv.Close()

	s, err := NewOpenRouterService(&config.OpenRouterConfig{APIKey: "k", Model: "x", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = s.GenerateText(context.Background(), "grade", 0.1)
	assert.ErrorContains(t, err, "invalid model")

	_, err = NewOpenRouterService(&config.OpenRouterConfig{}, nil)
	assert.Error(t, err)
}

type countingEmbedder struct{ calls int }

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls++
	return []float32{float32(len(text))}, nil
}

func TestCachedEmbedder(t *testing.T) {
	inner := &countingEmbedder{}
	e, err := NewCachedEmbedder(inner, 2)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := e.Embed(ctx, "goroutine")
	require.NoError(t, err)
	again, err := e.Embed(ctx, "  goroutine ")
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, 1, inner.calls)

	_, _ = e.Embed(ctx, "channel")
	_, _ = e.Embed(ctx, "mutex")
	assert.Equal(t, 2, e.Len())
	_, _ = e.Embed(ctx, "goroutine")
	assert.Equal(t, 4, inner.calls)
}
