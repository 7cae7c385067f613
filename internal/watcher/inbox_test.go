package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExtension(t *testing.T) {
	assert.True(t, MatchExtension("a/b/interview.TXT", []string{".txt"}))
	assert.True(t, MatchExtension("x.pdf", []string{"txt", "pdf"}))
	assert.False(t, MatchExtension("x.docx", []string{".txt", ".pdf"}))
	assert.True(t, MatchExtension("anything", nil))
}

func TestInboxProcessesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "early.txt"), []byte("What is Go?"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.docx"), []byte("x"), 0o600))

	var (
		mu   sync.Mutex
		seen []string
	)
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(path))
		if filepath.Base(path) == "bad.txt" {
			return errors.New("unreadable")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewInbox(dir, []string{".txt"}, 20*time.Millisecond, handler, nil).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, ProcessedDir, "early.txt"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("???"), 0o600))
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, FailedDir, "bad.txt"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"early.txt", "bad.txt"}, seen)
	_, err := os.Stat(filepath.Join(dir, "ignored.docx"))
	assert.NoError(t, err)
}
