// Package logging builds the slog logger shared by the CLI and the reader.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type Config struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	// Color enables ANSI colors for the text format. Leave it off when
	// writing to a file.
	Color bool
}

// ParseLevel maps a level name to its slog level. Unknown names return an
// error and slog.LevelInfo.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Setup returns a logger writing to w. Every record carries a session id
// so runs can be told apart in a shared log file.
func Setup(cfg Config, w io.Writer) *slog.Logger {
	level, _ := ParseLevel(cfg.Level)

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = &colorHandler{
			mu:      &sync.Mutex{},
			out:     w,
			level:   level,
			noColor: !cfg.Color,
		}
	}

	return slog.New(handler).With("session", uuid.NewString())
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// colorHandler writes one line per record: time, level tag, message and
// key=value attributes.
type colorHandler struct {
	mu      *sync.Mutex
	out     io.Writer
	level   slog.Level
	noColor bool
	attrs   []slog.Attr
	groups  []string
}

var (
	timeColor  = color.New(color.FgHiBlack)
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

func (h *colorHandler) paint(c *color.Color, s string) string {
	if h.noColor {
		return s
	}
	return c.Sprint(s)
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.paint(timeColor, r.Time.Format("15:04:05")+" "))

	switch {
	case r.Level >= slog.LevelError:
		buf.WriteString(h.paint(errorColor, "ERR "))
	case r.Level >= slog.LevelWarn:
		buf.WriteString(h.paint(warnColor, "WRN "))
	case r.Level >= slog.LevelInfo:
		buf.WriteString(h.paint(infoColor, "INF "))
	default:
		buf.WriteString(h.paint(debugColor, "DBG "))
	}

	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range h.attrs {
		h.writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, prefix, a)
		return true
	})
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, buf.String())
	return err
}

func (h *colorHandler) writeAttr(buf *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix+a.Key+".", ga)
		}
		return
	}
	buf.WriteString(h.paint(timeColor, " "+prefix+a.Key+"="))
	buf.WriteString(a.Value.String())
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	clone := *h
	clone.groups = append(newGroups, name)
	return &clone
}
