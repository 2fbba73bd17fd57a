// Package logging builds the JSON line logger shared by the service components.
//
// Each record is one JSON object with "ts" (RFC3339Nano in the configured
// location), "level" in lower case, "msg" and any component attributes.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New returns a JSON logger writing to w. A nil w writes to stdout and a nil loc uses UTC.
func New(w io.Writer, loc *time.Location) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				return slog.String("level", strings.ToLower(a.Value.String()))
			}
			return a
		},
	})
	return slog.New(h)
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component returns l annotated with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With(slog.String("component", name))
}
