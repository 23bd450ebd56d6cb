// Package geo resolves a client IP address to an approximate location.
//
// Providers are tried in a fixed order, each with its own timeout. The first
// success wins; when every provider fails the result degrades to a record that
// only carries the client's time zone.
package geo

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/observability"
	"reviewdesk-backend-go/pkg/cache"
)

// DefaultTimeout bounds a single provider attempt.
const DefaultTimeout = 5 * time.Second

const cacheKeyPrefix = "geo:"

// Resolver runs the provider chain.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *observability.Metrics
	cache     cache.Cache
	cacheTTL  time.Duration
	now       func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithCache caches successful lookups per IP.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithMetrics records one counter sample per provider attempt.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a Resolver over providers, in lookup order.
func NewResolver(logger *zap.Logger, providers []Provider, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		providers: providers,
		timeout:   DefaultTimeout,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails. ip may be empty or private, in which case providers are asked
// about the server's own egress address. timeZone is the client's IANA zone, used
// only by the fallback record.
func (r *Resolver) Resolve(ctx context.Context, ip, timeZone string) models.LocationInfo {
	lookupIP := publicIP(ip)

	if loc, ok := r.cached(ctx, lookupIP); ok {
		return loc
	}

	for _, p := range r.providers {
		loc, err := r.attempt(ctx, p, lookupIP)
		if err != nil {
			r.logger.Warn("Geolocation provider failed",
				zap.String("provider", p.Name()),
				zap.String("ip", ip),
				zap.Error(err),
			)
			r.metrics.ObserveGeoLookup(p.Name(), "error")
			continue
		}
		r.metrics.ObserveGeoLookup(p.Name(), "ok")
		r.store(ctx, lookupIP, loc)
		return loc
	}

	r.logger.Info("All geolocation providers failed, using time zone fallback", zap.String("ip", ip))
	r.metrics.ObserveGeoLookup("timezone", "fallback")
	return r.fallback(timeZone)
}

func (r *Resolver) attempt(ctx context.Context, p Provider, ip string) (models.LocationInfo, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return p.Lookup(attemptCtx, ip)
}

// fallback carries nothing but the time zone; the client IP is not echoed back.
func (r *Resolver) fallback(timeZone string) models.LocationInfo {
	if timeZone == "" {
		timeZone, _ = r.now().Zone()
	}
	return models.UnknownLocation(timeZone)
}

func (r *Resolver) cached(ctx context.Context, ip string) (models.LocationInfo, bool) {
	if r.cache == nil || ip == "" {
		return models.LocationInfo{}, false
	}
	var loc models.LocationInfo
	found, err := cache.GetJSON(ctx, r.cache, cacheKeyPrefix+ip, &loc)
	if err != nil {
		r.logger.Warn("Geolocation cache read failed", zap.String("ip", ip), zap.Error(err))
		return models.LocationInfo{}, false
	}
	return loc, found
}

func (r *Resolver) store(ctx context.Context, ip string, loc models.LocationInfo) {
	if r.cache == nil || ip == "" {
		return
	}
	if err := cache.SetJSON(ctx, r.cache, cacheKeyPrefix+ip, loc, r.cacheTTL); err != nil {
		r.logger.Warn("Geolocation cache write failed", zap.String("ip", ip), zap.Error(err))
	}
}

// publicIP returns ip when it is a routable address and "" otherwise.
func publicIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast() {
		return ""
	}
	return parsed.String()
}
