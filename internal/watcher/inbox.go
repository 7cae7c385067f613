// Package watcher turns a directory into an inbox: files dropped into it are
// handed to a callback once writes settle, then moved aside.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
)

const (
	defaultDebounce = 2 * time.Second

	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// FileHandler processes one inbox file.
type FileHandler func(ctx context.Context, path string) error

type Inbox struct {
	dir        string
	extensions []string
	debounce   time.Duration
	handle     FileHandler
	logger     *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func NewInbox(dir string, extensions []string, debounce time.Duration, handle FileHandler, log *zap.Logger) *Inbox {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Inbox{
		dir:        dir,
		extensions: extensions,
		debounce:   debounce,
		handle:     handle,
		logger:     logger.OrNop(log),
		pending:    make(map[string]*time.Timer),
	}
}

// Run processes files already in the inbox, then watches for new ones until
// ctx is cancelled. In-flight handlers are awaited before returning.
func (in *Inbox) Run(ctx context.Context) error {
	for _, sub := range []string{in.dir, filepath.Join(in.dir, ProcessedDir), filepath.Join(in.dir, FailedDir)} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", sub, err)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(in.dir); err != nil {
		return fmt.Errorf("watch %s: %w", in.dir, err)
	}
	in.logger.Info("watching inbox", zap.String("dir", in.dir), zap.Strings("extensions", in.extensions))

	if err := in.sync(ctx); err != nil {
		in.logger.Warn("initial inbox scan failed", zap.Error(err))
	}

	defer in.wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				in.schedule(ctx, ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			in.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (in *Inbox) sync(ctx context.Context) error {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			in.schedule(ctx, filepath.Join(in.dir, e.Name()))
		}
	}
	return nil
}

// schedule (re)arms the debounce timer for path.
func (in *Inbox) schedule(ctx context.Context, path string) {
	if filepath.Dir(path) != filepath.Clean(in.dir) || !MatchExtension(path, in.extensions) {
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.pending[path]; ok {
		if t.Stop() {
			in.wg.Done()
		}
	}
	in.wg.Add(1)
	in.pending[path] = time.AfterFunc(in.debounce, func() {
		defer in.wg.Done()
		in.mu.Lock()
		delete(in.pending, path)
		in.mu.Unlock()
		in.process(ctx, path)
	})
}

func (in *Inbox) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	in.logger.Info("processing inbox file", zap.String("path", path))
	target := ProcessedDir
	if err := in.handle(ctx, path); err != nil {
		in.logger.Error("inbox file failed", zap.String("path", path), zap.Error(err))
		target = FailedDir
	}

	dest := filepath.Join(in.dir, target, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		in.logger.Warn("move inbox file", zap.String("path", path), zap.Error(err))
	}
}

// wait cancels timers that have not fired and waits for running handlers.
func (in *Inbox) wait() {
	in.mu.Lock()
	for path, t := range in.pending {
		if t.Stop() {
			in.wg.Done()
		}
		delete(in.pending, path)
	}
	in.mu.Unlock()
	in.wg.Wait()
}

// MatchExtension reports whether path has one of extensions (case-insensitive,
// leading dot optional). An empty list matches everything.
func MatchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}
