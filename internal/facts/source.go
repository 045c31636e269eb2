// Package facts implements the fact acquisition pipeline: the remote source
// adapter, the per-user deduplicating acquisition engine, and the falsehood
// catalog that feeds the quiz.
package facts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/faktbot/faktbot/internal/domain"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/pkg/config"
)

// ErrSourceUnavailable marks a failed fetch: network error, bad status, or a
// response missing the id or text field.
var ErrSourceUnavailable = errors.New("fact source unavailable")

// Source fetches one candidate fact per call. Implementations do not retry;
// retries belong to the acquisition engine.
type Source interface {
	FetchOne(ctx context.Context) (domain.Fact, error)
}

// HTTPSource fetches facts from a remote JSON endpoint. A circuit breaker
// keeps a down upstream from being hammered across interactions.
type HTTPSource struct {
	url     string
	client  *http.Client
	breaker *apperrors.CircuitBreaker
	log     *slog.Logger
}

// NewHTTPSource builds the source adapter from configuration.
func NewHTTPSource(cfg config.FactSourceConfig, log *slog.Logger) *HTTPSource {
	if log == nil {
		log = slog.Default()
	}

	return &HTTPSource{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: apperrors.NewCircuitBreaker(),
		log:     log,
	}
}

// FetchOne performs a single GET against the fact endpoint.
func (s *HTTPSource) FetchOne(ctx context.Context) (domain.Fact, error) {
	var fact domain.Fact

	err := s.breaker.Call(func() error {
		fetched, fetchErr := s.fetch(ctx)
		if fetchErr != nil {
			return fetchErr
		}
		fact = fetched
		return nil
	})
	if err != nil {
		s.log.Warn("fact fetch failed", slog.Any("error", err))
		return domain.Fact{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return fact, nil
}

func (s *HTTPSource) fetch(ctx context.Context) (domain.Fact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return domain.Fact{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Fact{}, fmt.Errorf("request fact: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Fact{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var fact domain.Fact
	if err := json.NewDecoder(resp.Body).Decode(&fact); err != nil {
		return domain.Fact{}, fmt.Errorf("decode fact: %w", err)
	}

	if fact.ID == "" || fact.Text == "" {
		return domain.Fact{}, errors.New("fact response missing id or text")
	}

	return fact, nil
}
