package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	clog "github.com/charmbracelet/log"
	"gopkg.in/lumberjack.v2"
)

// Logger writes JSON lines. A nil *Logger discards everything.
type Logger struct {
	l *clog.Logger
	w io.WriteCloser
}

type Options struct {
	Path       string
	Level      string
	Prefix     string
	MaxSizeMB  int
	MaxBackups int
}

func NewLogger(opts Options) (*Logger, error) {
	if opts.Path == "" {
		return newLogger(nopCloser{Writer: io.Discard}, opts), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, err
	}
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    max(1, opts.MaxSizeMB),
		MaxBackups: opts.MaxBackups,
		LocalTime:  true,
	}
	return newLogger(w, opts), nil
}

// NewWriterLogger logs to w, which is never closed by the Logger.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(nopCloser{Writer: w}, Options{Level: level})
}

// Discard returns a Logger that drops every entry.
func Discard() *Logger {
	return NewWriterLogger(io.Discard, "error")
}

func newLogger(w io.WriteCloser, opts Options) *Logger {
	l := clog.NewWithOptions(w, clog.Options{
		Formatter:       clog.JSONFormatter,
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           ParseLevel(opts.Level),
	})
	return &Logger{l: l, w: w}
}

func ParseLevel(s string) clog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return clog.DebugLevel
	case "warn":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Debug(msg, keyvals(fields)...)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Info(msg, keyvals(fields)...)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Warn(msg, keyvals(fields)...)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Error(msg, keyvals(fields)...)
}

func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// keyvals flattens fields in key order so lines are stable.
func keyvals(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
