//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"telemetryd/internal"
	"telemetryd/internal/controllers"
	"telemetryd/internal/providers"
	"telemetryd/internal/records"
	"telemetryd/internal/scheduler"
	"telemetryd/internal/services"
	"telemetryd/internal/settings"
	"telemetryd/internal/structures"
	"telemetryd/internal/telemetry"
)

var telemetrySet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,
	providers.NewSiteInfoProvider,

	settings.NewZstdCompressor,
	settings.NewStore,
	records.NewFileRecordStore,

	telemetry.NewIdentityProvider,
	telemetry.NewConsentStore,
	telemetry.NewThrottleGate,
	telemetry.NewAggregator,
	telemetry.NewTransmitter,
	telemetry.NewOptinPrompt,
	services.NewTelemetryService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		telemetrySet,
		scheduler.NewScheduler,
		controllers.NewOptinController,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitTools(cfg *structures.CliFlags) (*Tools, error) {

	wire.Build(
		telemetrySet,
		wire.Struct(new(Tools), "*"),
	)

	return nil, nil
}
