package telemetry

import (
	"context"
	"telemetryd/internal/providers"
	"telemetryd/internal/settings"
	"telemetryd/internal/structures"
	"time"
)

const markerCacheKey = "telemetry:last_send"

// ThrottleGate bounds check-ins to one per TTL window. The durable marker
// is lastSentAt in the settings store; the cache entry is a fast path that
// expires with the window.
type ThrottleGate struct {
	consent *ConsentStore
	store   settings.Store
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	ttl     time.Duration
	now     func() time.Time
}

func NewThrottleGate(conf *structures.Config, consent *ConsentStore, store settings.Store, cache providers.CacheProviderInterface, logger providers.Logger) *ThrottleGate {
	return &ThrottleGate{
		consent: consent,
		store:   store,
		cache:   cache,
		logger:  logger,
		ttl:     conf.Telemetry.ThrottleTTL,
		now:     time.Now,
	}
}

func (g *ThrottleGate) TTL() time.Duration {
	return g.ttl
}

func (g *ThrottleGate) IsEligible(ctx context.Context) bool {
	if !g.consent.HasOptedIn(ctx) {
		return false
	}
	return !g.markerActive(ctx)
}

// MarkSent starts a new window.
func (g *ThrottleGate) MarkSent(ctx context.Context) {
	stamp := g.now().UTC().Format(time.RFC3339)
	g.cache.SetWithTTL(markerCacheKey, []byte(stamp), g.ttl)
	if err := g.store.Set(ctx, settings.KeyLastSentAt, stamp); err != nil {
		g.logger.Errorf(providers.TypeTelemetry, "Unable to persist throttle marker: %s", err)
	}
}

// LastSentAt returns the zero time when nothing was sent yet.
func (g *ThrottleGate) LastSentAt(ctx context.Context) time.Time {
	raw, ok, err := g.store.Get(ctx, settings.KeyLastSentAt)
	if err != nil || !ok {
		return time.Time{}
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return last
}

func (g *ThrottleGate) markerActive(ctx context.Context) bool {
	if _, ok := g.cache.Get(markerCacheKey); ok {
		return true
	}

	raw, ok, err := g.store.Get(ctx, settings.KeyLastSentAt)
	if err != nil {
		// An unreadable marker is not an absent one.
		g.logger.Warnf(providers.TypeTelemetry, "Unable to read throttle marker: %s", err)
		return true
	}
	if !ok {
		return false
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		g.logger.Warnf(providers.TypeTelemetry, "Discarding malformed throttle marker %q", raw)
		return false
	}

	remaining := g.ttl - g.now().Sub(last)
	if remaining <= 0 {
		return false
	}
	g.cache.SetWithTTL(markerCacheKey, []byte(raw), remaining)
	return true
}
