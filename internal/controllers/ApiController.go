package controllers

import (
	"net/http"
	"telemetryd/internal/providers"
	"telemetryd/internal/services"
	"telemetryd/internal/telemetry"

	json "github.com/goccy/go-json"
)

const PreviewCacheKey = "telemetry:preview"

type ApiController struct {
	logger  providers.Logger
	service services.TelemetryServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.TelemetryServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Unable to compute %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// Preview shows an administrator exactly what the next check-in would send.
// Nothing is transmitted and the throttle marker is left alone.
func (ac *ApiController) Preview(w http.ResponseWriter, r *http.Request) {
	if !viewerFromRequest(r).Can(telemetry.CapabilityManageOptions) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	ac.serveFromCacheOrCompute(w, PreviewCacheKey, func() (any, error) {
		return ac.service.Preview(r.Context())
	})
}
