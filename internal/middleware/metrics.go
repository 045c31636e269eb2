package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/handlers"
	"github.com/faktbot/faktbot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		command := extractCommandName(c)
		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(command, status, time.Since(start))

		return err
	}
}

// extractCommandName keeps label cardinality bounded: callbacks report only
// their prefix, free text reports its command token.
func extractCommandName(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		if idx := strings.Index(cb.Data, ":"); idx > 0 {
			return cb.Data[:idx]
		}
		return cb.Data
	}

	if text := c.Text(); text != "" {
		if strings.HasPrefix(text, "/") {
			return strings.Fields(text)[0]
		}
		return "text"
	}

	return "unknown"
}
