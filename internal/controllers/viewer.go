package controllers

import (
	"net/http"
	"strings"
	"telemetryd/internal/telemetry"

	json "github.com/goccy/go-json"
)

// CapabilitiesHeader carries the admin's capabilities as a comma list.
const CapabilitiesHeader = "X-User-Capabilities"

func viewerFromRequest(r *http.Request) telemetry.Viewer {
	var caps []string
	for _, c := range strings.Split(r.Header.Get(CapabilitiesHeader), ",") {
		if c = strings.TrimSpace(c); c != "" {
			caps = append(caps, c)
		}
	}
	return telemetry.Viewer{Capabilities: caps}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
