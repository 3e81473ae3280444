package controllers

import (
	"errors"
	"net/http"
	"telemetryd/internal/providers"
	"telemetryd/internal/telemetry"
)

type OptinController struct {
	logger providers.Logger
	prompt *telemetry.OptinPrompt
	cache  providers.CacheProviderInterface
}

func NewOptinController(logger providers.Logger, prompt *telemetry.OptinPrompt, cache providers.CacheProviderInterface) *OptinController {
	return &OptinController{
		logger: logger,
		prompt: prompt,
		cache:  cache,
	}
}

type noticesResponse struct {
	Alerts   []telemetry.Notice `json:"alerts"`
	OptedIn  bool               `json:"opted_in"`
	Prompted bool               `json:"prompted"`
}

// Notices is hit on every admin page load. The Allow link of the rendered
// prompt points back here with pum_optin_check=optin.
func (oc *OptinController) Notices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := viewerFromRequest(r)

	accepted, err := oc.prompt.HandleOptinCheck(ctx, viewer, r.URL.Query().Get(telemetry.OptinQueryParam))
	if err != nil {
		oc.writeActionError(w, err)
		return
	}
	if accepted {
		oc.cache.Del(PreviewCacheKey)
	}

	alerts := oc.prompt.Notices(ctx, viewer, optinURL(r), []telemetry.Notice{})
	writeJSON(w, http.StatusOK, noticesResponse{
		Alerts:   alerts,
		OptedIn:  oc.prompt.State(ctx) == telemetry.StateAccepted,
		Prompted: len(alerts) > 0,
	})
}

func (oc *OptinController) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := oc.prompt.Dismiss(r.Context(), viewerFromRequest(r)); err != nil {
		oc.writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (oc *OptinController) writeActionError(w http.ResponseWriter, err error) {
	if errors.Is(err, telemetry.ErrForbidden) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	oc.logger.Errorf(providers.TypeApp, "Unable to store consent: %s", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// optinURL is the current request with the Allow parameter added.
func optinURL(r *http.Request) string {
	u := *r.URL
	q := u.Query()
	q.Set(telemetry.OptinQueryParam, telemetry.OptinValue)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
