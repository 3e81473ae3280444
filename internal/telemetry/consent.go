package telemetry

import (
	"context"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"
	"telemetryd/internal/settings"
)

// ConsentStore tracks the opt-in and prompt-dismissal flags. Only explicit
// administrator actions write them.
type ConsentStore struct {
	store  settings.Store
	logger providers.Logger
}

func NewConsentStore(store settings.Store, logger providers.Logger) *ConsentStore {
	return &ConsentStore{store: store, logger: logger}
}

// HasOptedIn is false on any read error, no data leaves without consent.
func (c *ConsentStore) HasOptedIn(ctx context.Context) bool {
	v, err := settings.GetBool(ctx, c.store, settings.KeyOptedIn)
	if err != nil {
		c.logger.Warnf(providers.TypeTelemetry, "Unable to read consent: %s", err)
		return false
	}
	return v
}

func (c *ConsentStore) PromptDismissed(ctx context.Context) (bool, error) {
	return settings.GetBool(ctx, c.store, settings.KeyPromptDismissed)
}

func (c *ConsentStore) State(ctx context.Context) (models.ConsentState, error) {
	optedIn, err := settings.GetBool(ctx, c.store, settings.KeyOptedIn)
	if err != nil {
		return models.ConsentState{}, err
	}
	dismissed, err := c.PromptDismissed(ctx)
	if err != nil {
		return models.ConsentState{}, err
	}
	return models.ConsentState{OptedIn: optedIn, PromptDismissed: dismissed}, nil
}

func (c *ConsentStore) OptIn(ctx context.Context) error {
	return settings.SetBool(ctx, c.store, settings.KeyOptedIn, true)
}

func (c *ConsentStore) DismissPrompt(ctx context.Context) error {
	return settings.SetBool(ctx, c.store, settings.KeyPromptDismissed, true)
}
