package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"reviewdesk-backend-go/internal/models"
)

// Default endpoints, tried in this order.
const (
	DefaultIPAPIBaseURL  = "https://ipapi.co"
	DefaultIPAPIComURL   = "http://ip-api.com"
	DefaultIPInfoBaseURL = "https://ipinfo.io"
)

// ErrIncompletePayload is returned when a provider answers 2xx without the fields we need.
var ErrIncompletePayload = errors.New("geolocation payload missing required field")

// Provider looks up the location of an IP address. An empty ip asks the provider
// about the caller's own address.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ip string) (models.LocationInfo, error)
}

// httpProvider is a JSON-over-HTTP geolocation endpoint.
type httpProvider struct {
	name   string
	client *http.Client
	urlFor func(ip string) string
	decode func(body []byte) (models.LocationInfo, error)
}

func (p *httpProvider) Name() string { return p.name }

func (p *httpProvider) Lookup(ctx context.Context, ip string) (models.LocationInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.urlFor(ip), nil)
	if err != nil {
		return models.LocationInfo{}, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.LocationInfo{}, fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.LocationInfo{}, fmt.Errorf("%s: unexpected status %d", p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return models.LocationInfo{}, fmt.Errorf("%s: read body: %w", p.name, err)
	}

	loc, err := p.decode(body)
	if err != nil {
		return models.LocationInfo{}, fmt.Errorf("%s: %w", p.name, err)
	}
	loc.Source = p.name
	loc.Accuracy = "city"
	return normalize(loc), nil
}

// NewIPAPIProvider queries ipapi.co.
func NewIPAPIProvider(client *http.Client, baseURL string) Provider {
	baseURL = strings.TrimRight(baseURL, "/")
	return &httpProvider{
		name:   "ipapi",
		client: client,
		urlFor: func(ip string) string {
			if ip == "" {
				return baseURL + "/json/"
			}
			return baseURL + "/" + ip + "/json/"
		},
		decode: func(body []byte) (models.LocationInfo, error) {
			var payload struct {
				IP          string `json:"ip"`
				City        string `json:"city"`
				Region      string `json:"region"`
				CountryName string `json:"country_name"`
				Timezone    string `json:"timezone"`
				Error       bool   `json:"error"`
				Reason      string `json:"reason"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return models.LocationInfo{}, fmt.Errorf("decode payload: %w", err)
			}
			if payload.Error {
				return models.LocationInfo{}, fmt.Errorf("%w: %s", ErrIncompletePayload, payload.Reason)
			}
			if payload.IP == "" {
				return models.LocationInfo{}, fmt.Errorf("%w: ip", ErrIncompletePayload)
			}
			return models.LocationInfo{
				IP:       payload.IP,
				City:     payload.City,
				Region:   payload.Region,
				Country:  payload.CountryName,
				Timezone: payload.Timezone,
			}, nil
		},
	}
}

// NewIPAPIComProvider queries ip-api.com.
func NewIPAPIComProvider(client *http.Client, baseURL string) Provider {
	baseURL = strings.TrimRight(baseURL, "/")
	const fields = "?fields=status,message,query,city,regionName,country,timezone"
	return &httpProvider{
		name:   "ip-api",
		client: client,
		urlFor: func(ip string) string {
			return baseURL + "/json/" + ip + fields
		},
		decode: func(body []byte) (models.LocationInfo, error) {
			var payload struct {
				Status     string `json:"status"`
				Message    string `json:"message"`
				Query      string `json:"query"`
				City       string `json:"city"`
				RegionName string `json:"regionName"`
				Country    string `json:"country"`
				Timezone   string `json:"timezone"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return models.LocationInfo{}, fmt.Errorf("decode payload: %w", err)
			}
			if payload.Status != "success" {
				return models.LocationInfo{}, fmt.Errorf("%w: status %q %s", ErrIncompletePayload, payload.Status, payload.Message)
			}
			if payload.Query == "" {
				return models.LocationInfo{}, fmt.Errorf("%w: query", ErrIncompletePayload)
			}
			return models.LocationInfo{
				IP:       payload.Query,
				City:     payload.City,
				Region:   payload.RegionName,
				Country:  payload.Country,
				Timezone: payload.Timezone,
			}, nil
		},
	}
}

// NewIPInfoProvider queries ipinfo.io.
func NewIPInfoProvider(client *http.Client, baseURL string) Provider {
	baseURL = strings.TrimRight(baseURL, "/")
	return &httpProvider{
		name:   "ipinfo",
		client: client,
		urlFor: func(ip string) string {
			if ip == "" {
				return baseURL + "/json"
			}
			return baseURL + "/" + ip + "/json"
		},
		decode: func(body []byte) (models.LocationInfo, error) {
			var payload struct {
				IP       string `json:"ip"`
				City     string `json:"city"`
				Region   string `json:"region"`
				Country  string `json:"country"`
				Timezone string `json:"timezone"`
				Bogon    bool   `json:"bogon"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return models.LocationInfo{}, fmt.Errorf("decode payload: %w", err)
			}
			if payload.IP == "" || payload.Bogon {
				return models.LocationInfo{}, fmt.Errorf("%w: ip", ErrIncompletePayload)
			}
			return models.LocationInfo{
				IP:       payload.IP,
				City:     payload.City,
				Region:   payload.Region,
				Country:  payload.Country,
				Timezone: payload.Timezone,
			}, nil
		},
	}
}

// DefaultProviders returns the production chain in lookup order.
func DefaultProviders(client *http.Client) []Provider {
	return []Provider{
		NewIPAPIProvider(client, DefaultIPAPIBaseURL),
		NewIPAPIComProvider(client, DefaultIPAPIComURL),
		NewIPInfoProvider(client, DefaultIPInfoBaseURL),
	}
}

func normalize(loc models.LocationInfo) models.LocationInfo {
	orUnknown := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return models.Unknown
		}
		return s
	}
	loc.IP = orUnknown(loc.IP)
	loc.City = orUnknown(loc.City)
	loc.Region = orUnknown(loc.Region)
	loc.Country = orUnknown(loc.Country)
	loc.Timezone = orUnknown(loc.Timezone)
	return loc
}
