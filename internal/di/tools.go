package di

import (
	"telemetryd/internal/providers"
	"telemetryd/internal/services"
	"telemetryd/internal/settings"
	"telemetryd/internal/structures"
)

// Tools is the daemon graph without the HTTP server, for one-shot commands.
type Tools struct {
	Config  *structures.Config
	Logger  providers.Logger
	Store   settings.Store
	Service services.TelemetryServiceInterface
}
