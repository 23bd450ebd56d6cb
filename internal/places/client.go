// Package places fetches a business's public rating and reviews from the Google Places API.
// The API key stays on the server.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/observability"
)

// DefaultBaseURL is the Places web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

var (
	// ErrPlaceNotFound is returned when a text query matches no place.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("places API key not configured")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("places API temporarily unavailable")
)

// Candidate is a findplacefromtext match.
type Candidate struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Address string `json:"formatted_address"`
}

// Review is one review in a details response.
type Review struct {
	AuthorName      string `json:"author_name"`
	Rating          int    `json:"rating"`
	Text            string `json:"text"`
	RelativeTime    string `json:"relative_time_description"`
	Time            int64  `json:"time"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// Details is a place details result.
type Details struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Reviews          []Review `json:"reviews"`
}

// Client calls the Places API through a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "places-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			// A query with no match is an answer, not an outage.
			return err == nil || errors.Is(err, ErrPlaceNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		breaker:    breaker,
		logger:     logger,
		metrics:    metrics,
	}
}

// FindPlace returns the best match for a free-text query.
func (c *Client) FindPlace(ctx context.Context, query string) (*Candidate, error) {
	params := url.Values{
		"input":     {query},
		"inputtype": {"textquery"},
		"fields":    {"place_id,name,formatted_address"},
	}
	var payload struct {
		Candidates   []Candidate `json:"candidates"`
		Status       string      `json:"status"`
		ErrorMessage string      `json:"error_message"`
	}
	if err := c.call(ctx, "findplace", "/findplacefromtext/json", params, &payload, func() error {
		return checkStatus(payload.Status, payload.ErrorMessage)
	}); err != nil {
		return nil, err
	}
	if len(payload.Candidates) == 0 {
		return nil, ErrPlaceNotFound
	}
	return &payload.Candidates[0], nil
}

// Details returns rating and reviews for placeID.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"place_id,name,rating,user_ratings_total,reviews"},
	}
	var payload struct {
		Result       Details `json:"result"`
		Status       string  `json:"status"`
		ErrorMessage string  `json:"error_message"`
	}
	if err := c.call(ctx, "details", "/details/json", params, &payload, func() error {
		return checkStatus(payload.Status, payload.ErrorMessage)
	}); err != nil {
		return nil, err
	}
	if payload.Result.PlaceID == "" {
		payload.Result.PlaceID = placeID
	}
	return &payload.Result, nil
}

func (c *Client) call(ctx context.Context, op, path string, params url.Values, dst interface{}, check func() error) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	params.Set("key", c.apiKey)

	_, err := c.breaker.Execute(func() (interface{}, error) {
		if err := c.get(ctx, path, params, dst); err != nil {
			return nil, err
		}
		return nil, check()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.ObservePlacesRequest(op, "rejected")
		return ErrUnavailable
	case errors.Is(err, ErrPlaceNotFound):
		c.metrics.ObservePlacesRequest(op, "not_found")
		return err
	case err != nil:
		c.metrics.ObservePlacesRequest(op, "error")
		c.logger.Warn("Places request failed", zap.String("operation", op), zap.Error(err))
		return err
	}
	c.metrics.ObservePlacesRequest(op, "ok")
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the key; never surface it.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("places request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places request %s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read places response: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

func checkStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return ErrPlaceNotFound
	default:
		if message != "" {
			return fmt.Errorf("places API status %s: %s", status, message)
		}
		return fmt.Errorf("places API status %s", status)
	}
}
