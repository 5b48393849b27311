package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const redactedValue = "[REDACTED]"

var sensitiveKeyParts = []string{"private", "passphrase", "password", "secret", "mnemonic", "token"}

// Options controls what the CLI prints. Warnings and errors are always shown.
type Options struct {
	Verbose bool
	Debug   bool
	// Out receives debug and info lines, Err warnings and errors.
	// Nil means os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer
}

// Handler is a slog.Handler printing "[level] message key=value" lines with
// colored prefixes. Attributes whose key looks sensitive are redacted.
type Handler struct {
	opts   Options
	attrs  []slog.Attr
	prefix string
	mu     *sync.Mutex
}

func New(opts Options) *slog.Logger {
	return slog.New(NewHandler(opts))
}

func NewHandler(opts Options) *Handler {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &Handler{opts: opts, mu: &sync.Mutex{}}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	switch {
	case h.opts.Debug:
		return level >= slog.LevelDebug
	case h.opts.Verbose:
		return level >= slog.LevelInfo
	default:
		return level >= slog.LevelWarn
	}
}

func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	b.WriteString(levelPrefix(rec.Level))
	b.WriteString(rec.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	w := h.opts.Out
	if rec.Level >= slog.LevelWarn {
		w = h.opts.Err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), qualify(h.prefix, attrs)...)
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	if prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

func levelPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.RedString("[error] ")
	case level >= slog.LevelWarn:
		return color.YellowString("[warn] ")
	case level >= slog.LevelInfo:
		return color.GreenString("[info] ")
	default:
		return color.CyanString("[debug] ")
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key+".", ga)
		}
		return
	}
	val := a.Value.String()
	if IsSensitiveKey(key) {
		val = redactedValue
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	if val == "" || strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}
	b.WriteString(val)
}

// IsSensitiveKey reports whether values logged under key must be hidden.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}
