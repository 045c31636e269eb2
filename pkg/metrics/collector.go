package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for fact fetch attempts.
const (
	FetchResultNovel     = "novel"
	FetchResultDuplicate = "duplicate"
	FetchResultFailure   = "failure"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	factFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fact_fetch_attempts_total",
			Help: "Fact source fetch attempts labeled by result (novel, duplicate, failure)",
		},
		[]string{"result"},
	)
	factsDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facts_delivered_total",
			Help: "Facts delivered to users labeled by language",
		},
		[]string{"lang"},
	)
	factsExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "facts_exhausted_total",
			Help: "Acquisitions that ended with the exhaustion sentinel",
		},
	)
	quizRoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_rounds_total",
			Help: "Quiz rounds presented labeled by ground truth",
		},
		[]string{"truth"},
	)
	quizAnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Quiz answers resolved labeled by correctness",
		},
		[]string{"correct"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordFetchAttempt tracks one acquisition loop iteration.
func RecordFetchAttempt(result string) {
	if result == "" {
		result = "unknown"
	}

	factFetchAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordFactDelivered counts a successfully delivered novel fact.
func RecordFactDelivered(lang string) {
	if lang == "" {
		lang = "unknown"
	}

	factsDeliveredTotal.WithLabelValues(lang).Inc()
}

// RecordExhaustion counts an acquisition that ran out of budget.
func RecordExhaustion() {
	factsExhaustedTotal.Inc()
}

// RecordQuizRound tracks a presented round by its ground truth.
func RecordQuizRound(isTrue bool) {
	quizRoundsTotal.WithLabelValues(boolLabel(isTrue)).Inc()
}

// RecordQuizAnswer tracks a resolved round by correctness.
func RecordQuizAnswer(correct bool) {
	quizAnswersTotal.WithLabelValues(boolLabel(correct)).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

func boolLabel(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
