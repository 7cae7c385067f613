package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer(t *testing.T) {
	raw := "abcdefghij" // 10 runes

	tests := []struct {
		name string
		out  string
		err  error
		want string
	}{
		{name: "shorter output kept", out: "abc", want: "abc"},
		{name: "output at 1.5x kept", out: strings.Repeat("x", 15), want: strings.Repeat("x", 15)},
		{name: "output above 1.5x discarded", out: strings.Repeat("x", 16), want: raw},
		{name: "blank output discarded", out: "   ", want: raw},
		{name: "error falls back", err: errors.New("timeout"), want: raw},
		{name: "output is trimmed", out: "  short one \n", want: "short one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(&fakeCondenser{out: tt.out, err: tt.err}, nil)
			assert.Equal(t, tt.want, n.Normalize(context.Background(), raw))
		})
	}
}

func TestNormalizerCountsRunes(t *testing.T) {
	raw := "Giải thích goroutine" // 20 runes, more bytes
	out := strings.Repeat("ê", 30)

	n := NewNormalizer(&fakeCondenser{out: out}, nil)
	assert.Equal(t, out, n.Normalize(context.Background(), raw))
}
