package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/handlers"
	apperrors "github.com/faktbot/faktbot/internal/errors"
)

// RecoveryMiddleware turns panics in handlers into logged errors so a single
// bad update cannot take the bot down.
func RecoveryMiddleware(log *slog.Logger) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						"panic", r,
						"stack", string(debug.Stack()),
					)
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware routes handler errors through the central error
// handler and replies to the user with the localized message it produces.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			userMsg, _ := errHandler.Handle(ctx, err)
			if userMsg == "" {
				return nil
			}

			if callback := c.Callback(); callback != nil {
				return c.Respond(&telebot.CallbackResponse{Text: userMsg})
			}

			return c.Send(userMsg)
		}
	}
}

// LoggingMiddleware logs each processed update with its latency.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			start := time.Now()

			var userID int64
			if sender := c.Sender(); sender != nil {
				userID = sender.ID
			}

			kind := "message"
			if c.Callback() != nil {
				kind = "callback"
			}

			err := next(c)

			attrs := []any{
				"kind", kind,
				"user_id", userID,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
				log.Error("update processed with error", attrs...)
				return err
			}

			log.Info("update processed", attrs...)
			return nil
		}
	}
}
