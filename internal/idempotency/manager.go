// Package idempotency guarantees at-most-once handling of Telegram updates.
// The transport may redeliver an update (or a user may double-tap a button
// before the first edit lands); the manager collapses those into one handler
// execution.
package idempotency

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrRequestInProgress = errors.New("request with this key is already in progress")

const lockTTL = time.Minute

type Operation func(ctx context.Context) error

type Result struct {
	FromCache bool
}

type Manager interface {
	Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error)
}

type manager struct {
	store Store
	log   *slog.Logger
}

func NewManager(store Store, log *slog.Logger) Manager {
	if log == nil {
		log = slog.Default()
	}

	return &manager{
		store: store,
		log:   log,
	}
}

func (m *manager) Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if fn == nil {
		return nil, errors.New("operation fn cannot be nil")
	}

	if record, err := m.store.Get(ctx, key); err == nil && record != nil && record.Status == StatusCompleted {
		return &Result{FromCache: true}, nil
	}

	locked, err := m.store.Lock(ctx, key, lockTTL)
	if err != nil {
		return nil, err
	}

	if !locked {
		record, err := m.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		if record != nil && record.Status == StatusCompleted {
			return &Result{FromCache: true}, nil
		}

		// lock held by a concurrent delivery of the same update
		return nil, ErrRequestInProgress
	}

	defer func() {
		if releaseErr := m.store.ReleaseLock(ctx, key); releaseErr != nil {
			m.log.Error("failed to release idempotency lock", slog.String("key", key), slog.Any("error", releaseErr))
		}
	}()

	if err := fn(ctx); err != nil {
		return nil, err
	}

	if err := m.store.Set(ctx, key, &Record{Status: StatusCompleted}, ttl); err != nil {
		m.log.Error("failed to store idempotency record", slog.String("key", key), slog.Any("error", err))
	}

	return &Result{FromCache: false}, nil
}
