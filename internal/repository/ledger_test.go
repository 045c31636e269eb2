package repository_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktbot/faktbot/internal/database"
	"github.com/faktbot/faktbot/internal/repository"
	"github.com/faktbot/faktbot/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupLedger(t *testing.T) repository.Ledger {
	t.Helper()

	ctx := context.Background()

	db, err := database.Open(ctx, config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := database.NewMigrator(db, testLogger())
	require.NoError(t, migrator.ApplyDir(ctx, "../../migrations"))

	return repository.NewLedger(db, testLogger())
}

func TestLedger_HasSeenUnknownPair(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	seen, err := ledger.HasSeen(ctx, 1, "42")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestLedger_MarkSeenThenHasSeen(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.MarkSeen(ctx, 1, "42"))

	seen, err := ledger.HasSeen(ctx, 1, "42")
	require.NoError(t, err)
	assert.True(t, seen)

	// same fact for another user is untouched
	seen, err = ledger.HasSeen(ctx, 2, "42")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestLedger_MarkSeenIdempotent(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.MarkSeen(ctx, 7, "abc"))
	require.NoError(t, ledger.MarkSeen(ctx, 7, "abc"))

	seen, err := ledger.HasSeen(ctx, 7, "abc")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestLedger_LanguageDefaultsToRussian(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	lang, err := ledger.Language(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "ru", lang)
}

func TestLedger_SetLanguageUpserts(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.SetLanguage(ctx, 5, "en"))

	lang, err := ledger.Language(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	// last write wins
	require.NoError(t, ledger.SetLanguage(ctx, 5, "ru"))

	lang, err = ledger.Language(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "ru", lang)
}

func TestLedger_SetLanguageRejectsUnknown(t *testing.T) {
	ledger := setupLedger(t)

	err := ledger.SetLanguage(context.Background(), 5, "de")
	assert.Error(t, err)
}
