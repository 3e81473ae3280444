package telemetry

import (
	"context"
	"telemetryd/internal/providers"
	"telemetryd/internal/settings"

	"github.com/google/uuid"
)

// IdentityProvider owns the site UUID.
type IdentityProvider struct {
	store  settings.Store
	logger providers.Logger
}

func NewIdentityProvider(store settings.Store, logger providers.Logger) *IdentityProvider {
	return &IdentityProvider{store: store, logger: logger}
}

// GetUUID returns the persisted identity, generating and storing a new v4
// UUID when none exists or the stored one is malformed.
func (p *IdentityProvider) GetUUID(ctx context.Context) string {
	raw, ok, err := p.store.Get(ctx, settings.KeyUUID)
	if err != nil {
		p.logger.Warnf(providers.TypeTelemetry, "Unable to read site uuid: %s", err)
	}
	if ok && IsUUID(raw) {
		return raw
	}
	return p.add(ctx)
}

func (p *IdentityProvider) add(ctx context.Context) string {
	id := uuid.NewString()
	if err := p.store.Set(ctx, settings.KeyUUID, id); err != nil {
		p.logger.Errorf(providers.TypeTelemetry, "Unable to persist site uuid: %s", err)
	}
	return id
}

// IsUUID accepts only the canonical 8-4-4-4-12 hex form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
