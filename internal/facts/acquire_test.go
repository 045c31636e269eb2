package facts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktbot/faktbot/internal/domain"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/i18n"
)

type fakeSource struct {
	mu    sync.Mutex
	facts []domain.Fact
	errs  []error
	pos   int
}

// FetchOne walks the configured responses in order, cycling at the end.
func (s *fakeSource) FetchOne(context.Context) (domain.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.pos
	s.pos++

	if len(s.errs) > 0 {
		if err := s.errs[idx%len(s.errs)]; err != nil {
			return domain.Fact{}, err
		}
	}

	return s.facts[idx%len(s.facts)], nil
}

type memLedger struct {
	mu    sync.Mutex
	seen  map[string]bool
	langs map[int64]string

	hasSeenErr  error
	markSeenErr error
}

func newMemLedger() *memLedger {
	return &memLedger{
		seen:  make(map[string]bool),
		langs: make(map[int64]string),
	}
}

func pairKey(userID int64, factID string) string {
	return fmt.Sprintf("%d/%s", userID, factID)
}

func (l *memLedger) HasSeen(_ context.Context, userID int64, factID string) (bool, error) {
	if l.hasSeenErr != nil {
		return false, l.hasSeenErr
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[pairKey(userID, factID)], nil
}

func (l *memLedger) MarkSeen(_ context.Context, userID int64, factID string) error {
	if l.markSeenErr != nil {
		return l.markSeenErr
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[pairKey(userID, factID)] = true
	return nil
}

func (l *memLedger) Language(_ context.Context, userID int64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lang, ok := l.langs[userID]; ok {
		return lang, nil
	}
	return domain.DefaultLanguage, nil
}

func (l *memLedger) SetLanguage(_ context.Context, userID int64, lang string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.langs[userID] = lang
	return nil
}

type upperTranslator struct {
	err error
}

func (t upperTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return strings.ToUpper(text), nil
}

func testLocales(t *testing.T) *i18n.Manager {
	t.Helper()

	m, err := i18n.LoadFromDir("../i18n/locales", domain.DefaultLanguage)
	require.NoError(t, err)
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fact(id, text string) domain.Fact {
	return domain.Fact{ID: id, Text: text}
}

func TestAcquireUniqueDeliversNovelFact(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "Honey never spoils.")}}
	ledger := newMemLedger()

	a := NewAcquirer(source, ledger, nil, testLocales(t), discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangEN)
	require.NoError(t, err)
	assert.Equal(t, "Honey never spoils.", text)

	seen, err := ledger.HasSeen(context.Background(), 1, "f1")
	require.NoError(t, err)
	assert.True(t, seen, "delivered fact must be recorded before delivery")
}

func TestAcquireUniqueSkipsSeenFacts(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{
		fact("f1", "first"),
		fact("f2", "second"),
		fact("f3", "third"),
	}}
	ledger := newMemLedger()
	require.NoError(t, ledger.MarkSeen(context.Background(), 1, "f1"))
	require.NoError(t, ledger.MarkSeen(context.Background(), 1, "f2"))

	a := NewAcquirer(source, ledger, nil, testLocales(t), discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangEN)
	require.NoError(t, err)
	assert.Equal(t, "third", text)
}

func TestAcquireUniqueIsPerUser(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "shared fact")}}
	ledger := newMemLedger()

	a := NewAcquirer(source, ledger, nil, testLocales(t), discardLogger())

	first, err := a.AcquireUnique(context.Background(), 1, domain.LangEN)
	require.NoError(t, err)

	// Same fact, different user: still novel.
	second, err := a.AcquireUnique(context.Background(), 2, domain.LangEN)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAcquireUniqueExhaustsAfterDuplicates(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "only one")}}
	ledger := newMemLedger()
	require.NoError(t, ledger.MarkSeen(context.Background(), 1, "f1"))

	locales := testLocales(t)
	a := NewAcquirer(source, ledger, nil, locales, discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangRU)
	require.NoError(t, err, "exhaustion is an outcome, not an error")
	assert.Equal(t, locales.Translator(domain.LangRU).T("fact.exhausted"), text)
	assert.Equal(t, MaxDuplicateAttempts, source.pos)
}

func TestAcquireUniqueReportsSourceDown(t *testing.T) {
	source := &fakeSource{
		facts: []domain.Fact{fact("f1", "unreachable")},
		errs:  []error{ErrSourceUnavailable},
	}
	ledger := newMemLedger()

	locales := testLocales(t)
	a := NewAcquirer(source, ledger, nil, locales, discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangRU)
	require.NoError(t, err, "an unreachable source is an outcome, not an error")
	assert.Equal(t, locales.Translator(domain.LangRU).T("fact.source_down"), text)
	assert.Equal(t, MaxFetchFailures, source.pos)
}

func TestAcquireUniqueFailureThenSuccess(t *testing.T) {
	source := &fakeSource{
		facts: []domain.Fact{fact("f1", "eventually")},
		errs:  []error{ErrSourceUnavailable, nil},
	}
	ledger := newMemLedger()

	a := NewAcquirer(source, ledger, nil, testLocales(t), discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangEN)
	require.NoError(t, err)
	assert.Equal(t, "eventually", text)
}

func TestAcquireUniqueSurfacesLedgerErrors(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "text")}}
	ledger := newMemLedger()
	ledger.markSeenErr = errors.New("disk full")

	a := NewAcquirer(source, ledger, nil, testLocales(t), discardLogger())

	_, err := a.AcquireUnique(context.Background(), 1, domain.LangEN)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
}

func TestAcquireUniqueTranslatesForRussian(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "cats sleep a lot")}}

	a := NewAcquirer(source, newMemLedger(), upperTranslator{}, testLocales(t), discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangRU)
	require.NoError(t, err)
	assert.Equal(t, "CATS SLEEP A LOT", text)
}

func TestAcquireUniqueSkipsTranslationForEnglish(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "cats sleep a lot")}}

	a := NewAcquirer(source, newMemLedger(), upperTranslator{}, testLocales(t), discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangEN)
	require.NoError(t, err)
	assert.Equal(t, "cats sleep a lot", text)
}

func TestAcquireUniqueTranslationFailureFallsBack(t *testing.T) {
	source := &fakeSource{facts: []domain.Fact{fact("f1", "original text")}}
	translator := upperTranslator{err: errors.New("translator down")}

	a := NewAcquirer(source, newMemLedger(), translator, testLocales(t), discardLogger())

	text, err := a.AcquireUnique(context.Background(), 1, domain.LangRU)
	require.NoError(t, err)
	assert.Equal(t, "original text", text)
}

func TestAcquireUniqueHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{facts: []domain.Fact{fact("f1", "never delivered")}}
	a := NewAcquirer(source, newMemLedger(), nil, testLocales(t), discardLogger())

	_, err := a.AcquireUnique(ctx, 1, domain.LangEN)
	assert.ErrorIs(t, err, context.Canceled)
}
