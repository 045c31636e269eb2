// Package translate adapts the external translation collaborator.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/pkg/config"
)

// DefaultEndpoint is the public Google translate web endpoint used when the
// config does not override it.
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Noop returns text unchanged. Used when translation is disabled.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

// GoogleTranslator calls the unauthenticated Google translate endpoint.
type GoogleTranslator struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewGoogleTranslator builds the translator client from configuration.
func NewGoogleTranslator(cfg config.TranslatorConfig, log *slog.Logger) *GoogleTranslator {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = slog.Default()
	}

	return &GoogleTranslator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

// Translate fetches a translation, retrying transient failures a couple of
// times before giving up.
func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	var result string
	err := apperrors.WithRetry(ctx, func() error {
		translated, callErr := g.call(ctx, text, source, target)
		if callErr != nil {
			return apperrors.NewExternalAPIError("translator", callErr)
		}
		result = translated
		return nil
	})
	if err != nil {
		return "", err
	}

	return result, nil
}

func (g *GoogleTranslator) call(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request translation: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return parseResponse(body)
}

// parseResponse unpacks the endpoint's nested-array payload:
// [[["перевод","original",...],...],...]. Only the translated segments are
// used.
func parseResponse(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}

	if len(raw) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}

	segments, ok := raw[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translation payload shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		pair, ok := seg.([]any)
		if !ok || len(pair) == 0 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("translation payload had no text segments")
	}

	return b.String(), nil
}
