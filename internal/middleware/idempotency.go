package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/handlers"
	"github.com/faktbot/faktbot/internal/idempotency"
)

const idempotencyTTL = 24 * time.Hour

// Idempotency ensures handlers execute at most once per Telegram update key.
// A replayed update is acknowledged silently: the first execution already
// produced the user-visible effect.
func Idempotency(manager idempotency.Manager, log *slog.Logger) handlers.Middleware {
	if manager == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := extractIdempotencyKey(c)
			if key == "" {
				return next(c)
			}

			ctx := context.Background()

			result, err := manager.Execute(ctx, key, idempotencyTTL, func(context.Context) error {
				return next(c)
			})
			if err != nil {
				if errors.Is(err, idempotency.ErrRequestInProgress) {
					return nil
				}

				return err
			}

			if result != nil && result.FromCache {
				log.Debug("duplicate update suppressed", slog.String("key", key))
			}

			return nil
		}
	}
}

// extractIdempotencyKey derives the update identity. Callbacks carry a unique
// callback ID; plain messages are keyed by chat and message ID.
func extractIdempotencyKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if cb := c.Callback(); cb != nil && cb.ID != "" {
		return idempotency.GenerateKey("callback", cb.ID)
	}

	msg := c.Message()
	if msg == nil || msg.ID == 0 {
		return ""
	}

	return idempotency.GenerateKey("message", msg.Chat.ID, msg.ID)
}
