package facts

import (
	"context"
	"log/slog"

	"github.com/faktbot/faktbot/internal/domain"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/repository"
	"github.com/faktbot/faktbot/internal/translate"
	"github.com/faktbot/faktbot/pkg/metrics"
)

// Attempt budgets for one acquisition. Duplicates and fetch failures are
// counted separately so a flaky source does not masquerade as an exhausted
// fact pool.
const (
	MaxDuplicateAttempts = 5
	MaxFetchFailures     = 3
)

// Acquirer finds a fact the user has not seen yet. It is the only writer of
// the seen-facts ledger.
type Acquirer struct {
	source     Source
	ledger     repository.Ledger
	translator translate.Translator
	locales    *i18n.Manager
	log        *slog.Logger
}

// NewAcquirer wires the acquisition engine.
func NewAcquirer(source Source, ledger repository.Ledger, translator translate.Translator, locales *i18n.Manager, log *slog.Logger) *Acquirer {
	if translator == nil {
		translator = translate.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Acquirer{
		source:     source,
		ledger:     ledger,
		translator: translator,
		locales:    locales,
		log:        log,
	}
}

// AcquireUnique fetches candidates until one is novel for the user or a budget
// runs out. The outcome is always a displayable string: the (possibly
// translated) fact text, the exhaustion sentinel, or the source-down notice.
// Only a ledger write failure is surfaced as an error; losing that write is
// the one failure this system must not shrug off.
func (a *Acquirer) AcquireUnique(ctx context.Context, userID int64, lang string) (string, error) {
	duplicates := 0
	failures := 0

	for duplicates < MaxDuplicateAttempts && failures < MaxFetchFailures {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fact, err := a.source.FetchOne(ctx)
		if err != nil {
			failures++
			metrics.RecordFetchAttempt(metrics.FetchResultFailure)
			a.log.Warn("fetch attempt failed",
				slog.Int64("user_id", userID),
				slog.Int("failures", failures),
				slog.Any("error", err),
			)
			continue
		}

		seen, err := a.ledger.HasSeen(ctx, userID, fact.ID)
		if err != nil {
			return "", apperrors.NewLedgerError(err)
		}

		if seen {
			duplicates++
			metrics.RecordFetchAttempt(metrics.FetchResultDuplicate)
			continue
		}

		// Committed before the fact leaves this function; a crash after this
		// point can at worst lose the delivery, never the ledger entry.
		if err := a.ledger.MarkSeen(ctx, userID, fact.ID); err != nil {
			return "", apperrors.NewLedgerError(err)
		}

		metrics.RecordFetchAttempt(metrics.FetchResultNovel)
		metrics.RecordFactDelivered(lang)

		return a.localize(ctx, fact.Text, lang), nil
	}

	t := a.locales.Translator(lang)

	if failures >= MaxFetchFailures {
		a.log.Warn("fact source unavailable, giving up", slog.Int64("user_id", userID))
		return t.T("fact.source_down"), nil
	}

	metrics.RecordExhaustion()
	a.log.Info("fact pool exhausted for user", slog.Int64("user_id", userID))

	return t.T("fact.exhausted"), nil
}

// localize runs Russian-bound text through the translator. A translation
// failure falls back to the untranslated text rather than failing the
// interaction.
func (a *Acquirer) localize(ctx context.Context, text, lang string) string {
	if lang != domain.LangRU {
		return text
	}

	translated, err := a.translator.Translate(ctx, text, "auto", domain.LangRU)
	if err != nil {
		a.log.Warn("translation failed, sending original text", slog.Any("error", err))
		return text
	}

	return translated
}
