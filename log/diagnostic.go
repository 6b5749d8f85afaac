// Package log routes the scripted module's diagnostic output into slog and
// builds the loggers the CLI hands to the bridge.
package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// DiagnosticWriter is an io.Writer that turns module print output into slog
// records. Each newline-terminated line becomes one record with the line as
// the message; a trailing partial line stays buffered until the next write
// completes it or Flush is called.
//
// It is safe for concurrent use and suitable as the diagnostic sink of a
// bridge.
type DiagnosticWriter struct {
	logger *slog.Logger
	cfg    writerConfig

	mu  sync.Mutex
	buf bytes.Buffer
}

// WriterOption configures a DiagnosticWriter.
type WriterOption func(*writerConfig)

type writerConfig struct {
	level slog.Level
	attrs []slog.Attr
}

func defaultWriterConfig() writerConfig {
	return writerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the level at which module output is recorded.
func WithLevel(level slog.Level) WriterOption {
	return func(c *writerConfig) {
		c.level = level
	}
}

// WithAttrs attaches attributes to every record the writer emits.
func WithAttrs(attrs ...slog.Attr) WriterOption {
	return func(c *writerConfig) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// NewDiagnosticWriter creates a DiagnosticWriter emitting on logger.
// A nil logger falls back to slog.Default().
func NewDiagnosticWriter(logger *slog.Logger, opts ...WriterOption) *DiagnosticWriter {
	cfg := defaultWriterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagnosticWriter{logger: logger, cfg: cfg}
}

// Write implements io.Writer. It always accepts the full payload; the
// underlying handler's failures are the handler's problem, not the
// module's.
func (w *DiagnosticWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// No newline yet; keep the partial line for the next write.
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
	}
	return len(p), nil
}

// Flush records any buffered partial line. Call it after the session when
// the module's final write lacked a trailing newline.
func (w *DiagnosticWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() == 0 {
		return
	}
	line := w.buf.String()
	w.buf.Reset()
	w.emit(line)
}

func (w *DiagnosticWriter) emit(line string) {
	if line == "" {
		return
	}
	w.logger.LogAttrs(context.Background(), w.cfg.level, line, w.cfg.attrs...)
}
