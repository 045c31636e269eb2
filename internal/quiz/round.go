// Package quiz implements the true/false game: round construction and the
// stateless answer-verification protocol. The ground truth of a round is
// carried inside the answer buttons' callback payloads, so no round state is
// kept server-side and resolving an answer needs no lookup.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/faktbot/faktbot/internal/domain"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/facts"
	"github.com/faktbot/faktbot/pkg/metrics"
)

// CallbackUnique prefixes every quiz answer callback payload.
const CallbackUnique = "quiz_answer"

// Round describes one presented quiz instance. It is never stored; its one
// essential bit travels in the answer tokens.
type Round struct {
	IsTrueFact    bool
	DisplayedText string
}

// Answer is a decoded answer token: the ground truth the round was built with
// and the choice the user submitted.
type Answer struct {
	Truth  bool
	Choice bool
}

// Outcome is the terminal result of a round.
type Outcome struct {
	Correct     bool
	WasTrueFact bool
}

// Verify computes correctness. Pure, so replaying the same token always
// yields the same outcome.
func Verify(truth, choice bool) bool {
	return truth == choice
}

// Resolve turns a decoded answer into its outcome and records it.
func Resolve(a Answer) Outcome {
	correct := Verify(a.Truth, a.Choice)
	metrics.RecordQuizAnswer(correct)

	return Outcome{
		Correct:     correct,
		WasTrueFact: a.Truth,
	}
}

// EncodeAnswerData builds the callback payload for one answer button:
// "<truth>:<choice>". Both bits ride along so verification is self-contained.
func EncodeAnswerData(truth, choice bool) string {
	return boolToken(truth) + ":" + boolToken(choice)
}

// DecodeAnswerData parses an answer payload. Anything that is not exactly two
// recognised bool tokens is rejected; a forged or truncated token must never
// crash the round.
func DecodeAnswerData(data string) (Answer, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		return Answer{}, apperrors.NewTokenError(fmt.Sprintf("malformed quiz token %q", data))
	}

	truth, ok := parseBoolToken(parts[0])
	if !ok {
		return Answer{}, apperrors.NewTokenError(fmt.Sprintf("bad truth bit %q", parts[0]))
	}

	choice, ok := parseBoolToken(parts[1])
	if !ok {
		return Answer{}, apperrors.NewTokenError(fmt.Sprintf("bad choice bit %q", parts[1]))
	}

	return Answer{Truth: truth, Choice: choice}, nil
}

func boolToken(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func parseBoolToken(s string) (value, ok bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// RoundFactory builds rounds: a coin flip picks the branch, the truthful
// branch goes through the unique-fact pipeline, the lie branch through the
// falsehood catalog.
type RoundFactory struct {
	acquirer *facts.Acquirer
	catalog  *facts.FalsehoodCatalog
	log      *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRoundFactory wires a factory with clock-seeded randomness.
func NewRoundFactory(acquirer *facts.Acquirer, catalog *facts.FalsehoodCatalog, log *slog.Logger) *RoundFactory {
	return NewRoundFactoryWithSource(acquirer, catalog, log, rand.NewSource(time.Now().UnixNano()))
}

// NewRoundFactoryWithSource injects the randomness source, for tests.
func NewRoundFactoryWithSource(acquirer *facts.Acquirer, catalog *facts.FalsehoodCatalog, log *slog.Logger, src rand.Source) *RoundFactory {
	if log == nil {
		log = slog.Default()
	}

	return &RoundFactory{
		acquirer: acquirer,
		catalog:  catalog,
		log:      log,
		rnd:      rand.New(src),
	}
}

// NewRound builds one round for the user. Quiz content is Russian-language,
// matching the falsehood catalog.
func (f *RoundFactory) NewRound(ctx context.Context, userID int64) (Round, error) {
	isTrue := f.flip()

	var text string
	if isTrue {
		acquired, err := f.acquirer.AcquireUnique(ctx, userID, domain.LangRU)
		if err != nil {
			return Round{}, err
		}
		text = acquired
	} else {
		text = f.catalog.RandomStatement()
	}

	metrics.RecordQuizRound(isTrue)
	f.log.Info("quiz round presented", slog.Int64("user_id", userID), slog.Bool("is_true", isTrue))

	return Round{
		IsTrueFact:    isTrue,
		DisplayedText: text,
	}, nil
}

func (f *RoundFactory) flip() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.rnd.Intn(2) == 0
}
