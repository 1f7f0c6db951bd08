// Package observability provides structured logging and walk metrics for the
// zaremba search commands.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const attrService = "service"

// serviceName tags every log record and metric scope.
const serviceName = "zaremba"

// Log format names accepted by NewLogger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger builds an slog.Logger writing to w with the requested level and
// format, the service attribute pre-attached. Unknown levels default to
// info; unknown formats to text.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String(attrService, serviceName))
}

func parseLevel(level string) slog.Level {
	var l slog.Level

	err := l.UnmarshalText([]byte(level))
	if err != nil {
		return slog.LevelInfo
	}

	return l
}

// ValidateLevel reports whether level parses as an slog level.
func ValidateLevel(level string) error {
	var l slog.Level

	err := l.UnmarshalText([]byte(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}

	return nil
}
