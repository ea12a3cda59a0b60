// Package trend implements live hashtag lookups against the RiteKit API,
// falling back to the static niche map when the upstream is unavailable.
package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/salonsuite/bella/domain/trend"
)

// MaxHashtags caps how many tags a live lookup contributes.
const MaxHashtags = 8

// RiteKitSource resolves trend sets from the static niche map and upgrades
// the hashtags with a live RiteKit auto-hashtag call. The HTTP call runs
// behind a circuit breaker so a flapping upstream degrades to static
// content instead of adding latency to every generation request.
type RiteKitSource struct {
	client   *http.Client
	baseURL  string
	clientID string
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// RiteKitOption is a functional option for RiteKitSource.
type RiteKitOption func(*RiteKitSource)

// WithHTTPClient sets the HTTP client used for lookups.
func WithHTTPClient(client *http.Client) RiteKitOption {
	return func(s *RiteKitSource) { s.client = client }
}

// WithBaseURL overrides the RiteKit API base URL.
func WithBaseURL(baseURL string) RiteKitOption {
	return func(s *RiteKitSource) { s.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// NewRiteKitSource creates a RiteKitSource. An empty clientID disables live
// lookups entirely; Lookup then always answers from the static map.
func NewRiteKitSource(clientID string, logger *slog.Logger, opts ...RiteKitOption) *RiteKitSource {
	s := &RiteKitSource{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  "https://api.ritekit.com",
		clientID: clientID,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ritekit",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("hashtag circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return s
}

// Lookup returns the trend set for a niche. The audio direction always
// comes from the static map; hashtags come from RiteKit when the live call
// succeeds and from the static set otherwise.
func (s *RiteKitSource) Lookup(ctx context.Context, niche string) (trend.Set, error) {
	set := trend.StaticLookup(niche)

	if s.clientID == "" {
		return set, nil
	}

	hashtags, err := s.autoHashtags(ctx, niche)
	if err != nil {
		s.logger.Debug("live hashtag lookup failed, using static set",
			slog.String("niche", niche),
			slog.String("error", err.Error()),
		)
		return set, nil
	}

	return set.WithHashtags(hashtags), nil
}

type autoHashtagResponse struct {
	Result   bool `json:"result"`
	Hashtags []struct {
		Tag string `json:"tag"`
	} `json:"hashtags"`
}

// autoHashtags calls GET /v1/stats/auto-hashtag through the breaker and
// returns a space-joined "#tag" string with at most MaxHashtags entries.
func (s *RiteKitSource) autoHashtags(ctx context.Context, text string) (string, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.fetch(ctx, text)
	})
	if err != nil {
		return "", err
	}

	tags, ok := result.([]string)
	if !ok || len(tags) == 0 {
		return "", fmt.Errorf("no hashtags returned for %q", text)
	}

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		parts = append(parts, tag)
	}
	return strings.Join(parts, " "), nil
}

func (s *RiteKitSource) fetch(ctx context.Context, text string) ([]string, error) {
	query := url.Values{}
	query.Set("text", text)
	query.Set("client_id", s.clientID)

	endpoint := s.baseURL + "/v1/stats/auto-hashtag?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build hashtag request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hashtag request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hashtag API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed autoHashtagResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode hashtag response: %w", err)
	}

	tags := make([]string, 0, MaxHashtags)
	for _, item := range parsed.Hashtags {
		if item.Tag == "" {
			continue
		}
		tags = append(tags, item.Tag)
		if len(tags) == MaxHashtags {
			break
		}
	}
	return tags, nil
}

var _ trend.Source = (*RiteKitSource)(nil)
