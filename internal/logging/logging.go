package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// secretPatterns matches credential formats that may show up in paths,
// error messages or environment-derived values.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|authorization)\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)bearer\s+\S+`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]+`),
	regexp.MustCompile(`AKIA[A-Z0-9]{16}`),
}

const redactedPlaceholder = "[REDACTED]"

// ScrubSecrets replaces known secret patterns in a string.
func ScrubSecrets(s string) string {
	for _, pat := range secretPatterns {
		s = pat.ReplaceAllString(s, redactedPlaceholder)
	}
	return s
}

// RotatingWriter appends to a log file and moves it to <path>.1 once it
// would grow past maxBytes. Rotated files older than maxAge are removed.
type RotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	maxAge   time.Duration
	file     *os.File
	size     int64
}

func NewRotatingWriter(path string, maxBytes int64, maxAge time.Duration) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:     path,
		maxBytes: maxBytes,
		maxAge:   maxAge,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) open() error {
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	rw.file = f
	rw.size = info.Size()
	return nil
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, os.ErrClosed
	}
	if rw.size > 0 && rw.size+int64(len(p)) > rw.maxBytes {
		// Keep writing to the current file if rotation fails.
		_ = rw.rotate()
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	renameErr := os.Rename(rw.path, rw.path+".1")
	if err := rw.open(); err != nil {
		return err
	}
	if renameErr != nil {
		return fmt.Errorf("rotate log file: %w", renameErr)
	}
	rw.removeExpired()
	return nil
}

func (rw *RotatingWriter) removeExpired() {
	dir := filepath.Dir(rw.path)
	base := filepath.Base(rw.path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-rw.maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), base+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}

// Close closes the underlying file. Further writes fail with os.ErrClosed.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file == nil {
		return nil
	}
	err := rw.file.Close()
	rw.file = nil
	return err
}

// ScrubbingHandler wraps a slog.Handler to scrub secret patterns from the
// message and string attributes.
type ScrubbingHandler struct {
	inner slog.Handler
}

func NewScrubbingHandler(inner slog.Handler) *ScrubbingHandler {
	return &ScrubbingHandler{inner: inner}
}

func (h *ScrubbingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ScrubbingHandler) Handle(ctx context.Context, r slog.Record) error {
	scrubbed := slog.NewRecord(r.Time, r.Level, ScrubSecrets(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		scrubbed.AddAttrs(scrubAttr(a))
		return true
	})
	return h.inner.Handle(ctx, scrubbed)
}

func (h *ScrubbingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = scrubAttr(a)
	}
	return &ScrubbingHandler{inner: h.inner.WithAttrs(scrubbed)}
}

func (h *ScrubbingHandler) WithGroup(name string) slog.Handler {
	return &ScrubbingHandler{inner: h.inner.WithGroup(name)}
}

func scrubAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, ScrubSecrets(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		scrubbed := make([]any, len(group))
		for i, ga := range group {
			scrubbed[i] = scrubAttr(ga)
		}
		return slog.Group(a.Key, scrubbed...)
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, ScrubSecrets(err.Error()))
		}
	}
	return a
}

// fanoutHandler sends each record to every handler that accepts its level.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Options configures Setup.
type Options struct {
	Level slog.Level
	// Format of the stderr handler: "text" (default) or "json".
	Format string
	// File enables a rotating JSON log file at this path when non-empty.
	File   string
	Stderr io.Writer
}

const (
	maxLogBytes = 5 * 1024 * 1024
	maxLogAge   = 7 * 24 * time.Hour
)

// Setup builds the launcher logger. Stderr receives records at opts.Level;
// the log file, when enabled, receives everything from debug up so that a
// failed launch can be diagnosed after the fact. Returns a cleanup function
// closing the log file.
func Setup(opts Options) (*slog.Logger, func(), error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var console slog.Handler
	if opts.Format == "json" {
		console = slog.NewJSONHandler(stderr, handlerOpts)
	} else {
		console = slog.NewTextHandler(stderr, handlerOpts)
	}

	if opts.File == "" {
		return slog.New(NewScrubbingHandler(console)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	rw, err := NewRotatingWriter(opts.File, maxLogBytes, maxLogAge)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	file := slog.NewJSONHandler(rw, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(NewScrubbingHandler(fanoutHandler{console, file}))
	return logger, func() { rw.Close() }, nil
}

// LaunchLogger tags parent with a fresh launch ID and the binary path so
// the records of one launch can be grouped in the log file.
func LaunchLogger(parent *slog.Logger, binaryPath string) *slog.Logger {
	return parent.With("launch_id", uuid.NewString(), "binary", binaryPath)
}
