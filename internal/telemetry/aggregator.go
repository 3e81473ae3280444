package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"
	"telemetryd/internal/records"
	"telemetryd/internal/settings"
	"telemetryd/internal/structures"
	"time"
)

// Aggregator builds the check-in payload from the current site state.
type Aggregator struct {
	identity      *IdentityProvider
	store         settings.Store
	records       records.RecordStoreInterface
	site          *models.SiteInfo
	pluginVersion string
	logger        providers.Logger
	metrics       providers.MetricsProviderInterface
}

func NewAggregator(conf *structures.Config, identity *IdentityProvider, store settings.Store, recordStore records.RecordStoreInterface, site *models.SiteInfo, logger providers.Logger, metrics providers.MetricsProviderInterface) *Aggregator {
	return &Aggregator{
		identity:      identity,
		store:         store,
		records:       recordStore,
		site:          site,
		pluginVersion: conf.Telemetry.PluginVersion,
		logger:        logger,
		metrics:       metrics,
	}
}

// BuildPayload fails only when the record store itself cannot be read;
// malformed records just contribute nothing to the affected dimension.
func (a *Aggregator) BuildPayload(ctx context.Context) (*models.TelemetryPayload, error) {
	start := time.Now()
	defer func() { a.metrics.ObserveAggregationDuration(time.Since(start)) }()

	snapshot, err := a.records.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load popups: %w", err)
	}

	p := &models.TelemetryPayload{
		UID: a.identity.GetUUID(ctx),

		Language: a.site.Language,
		Charset:  a.site.Charset,

		PHPVersion:   a.site.RuntimeVersion,
		MySQLVersion: a.site.DatabaseVersion,
		IsLocalhost:  IsLocalhost(a.site.NetworkURL),

		URL:             a.site.URL,
		Version:         a.pluginVersion,
		WPVersion:       a.site.HostVersion,
		Theme:           a.site.Theme(),
		ActivePlugins:   nonNil(a.site.ActivePlugins),
		InactivePlugins: Difference(a.site.InstalledPlugins, a.site.ActivePlugins),

		Popups:      snapshot.Total(models.PostTypePopup),
		PopupThemes: snapshot.Total(models.PostTypePopupTheme),
		OpenCount:   a.intOption(ctx, settings.KeyTotalOpenCount),

		BlockEditorEnabled:   a.boolOption(ctx, settings.KeyBlockEditorEnabled),
		BypassAdBlockers:     a.boolOption(ctx, settings.KeyBypassAdBlockers),
		DisableTaxonomies:    a.boolOption(ctx, settings.KeyDisableTaxonomies),
		DisableAssetCache:    a.boolOption(ctx, settings.KeyDisableAssetCaching),
		DisableOpenTracking:  a.boolOption(ctx, settings.KeyDisableOpenTracking),
		DefaultEmailProvider: settings.GetString(ctx, a.store, settings.KeyDefaultEmailProvider, "none"),

		Triggers:   models.Tally{},
		Cookies:    models.Tally{},
		Conditions: models.Tally{},
		Locations:  models.Tally{},
		Sizes:      models.Tally{},
		Sounds:     models.Tally{},
	}

	for i := range snapshot.Popups {
		a.tallyPopup(p, &snapshot.Popups[i])
	}
	a.metrics.SetPopupsTotal(len(snapshot.Popups))

	return p, nil
}

func (a *Aggregator) tallyPopup(p *models.TelemetryPayload, popup *models.Popup) {
	s := popup.Settings
	if s == nil {
		a.logger.Debugf(providers.TypeTelemetry, "Popup %d has no settings", popup.ID)
	}

	tallyEntries(p.Triggers, s["triggers"], "type")
	tallyEntries(p.Cookies, s["cookies"], "event")

	groups, _ := sequence(s["conditions"])
	for _, group := range groups {
		tallyEntries(p.Conditions, group, "target")
	}

	p.Locations.Inc(scalar(s["location"]))
	p.Sizes.Inc(scalar(s["size"]))
	p.Sounds.Inc(scalar(s["open_sound"]))
}

// tallyEntries counts entry[field] for each object in a list. Anything that
// is not a list of objects carrying a scalar field is skipped.
func tallyEntries(t models.Tally, raw any, field string) {
	entries, ok := sequence(raw)
	if !ok {
		return
	}
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		switch v := obj[field].(type) {
		case nil, map[string]any, []any:
			continue
		default:
			t.Inc(scalar(v))
		}
	}
}

// sequence accepts a JSON list, or an object as PHP encodes a sparse array
// ({"0": ..., "2": ...}). Object values are returned in key order.
func sequence(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return phpKeyLess(keys[i], keys[j]) })
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, v[k])
		}
		return out, true
	default:
		return nil, false
	}
}

// phpKeyLess orders numeric keys numerically, then the rest lexically.
func phpKeyLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

// scalar renders a single-valued setting as a tally key. Missing or
// structured values map to "" so every popup still contributes exactly one
// increment.
func scalar(v any) string {
	switch val := v.(type) {
	case nil, map[string]any, []any:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func (a *Aggregator) boolOption(ctx context.Context, key string) bool {
	v, err := settings.GetBool(ctx, a.store, key)
	if err != nil {
		a.logger.Debugf(providers.TypeTelemetry, "Option %s unreadable: %s", key, err)
	}
	return v
}

func (a *Aggregator) intOption(ctx context.Context, key string) int {
	v, err := settings.GetInt(ctx, a.store, key)
	if err != nil {
		a.logger.Debugf(providers.TypeTelemetry, "Option %s unreadable: %s", key, err)
	}
	return v
}

// Difference returns the members of all that are not in active, in order
// and without duplicates.
func Difference(all, active []string) []string {
	skip := make(map[string]struct{}, len(active)+len(all))
	for _, a := range active {
		skip[a] = struct{}{}
	}
	out := make([]string, 0, len(all))
	for _, id := range all {
		if _, ok := skip[id]; ok {
			continue
		}
		skip[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IsLocalhost flags development installs by their network URL.
func IsLocalhost(networkURL string) bool {
	u := strings.ToLower(networkURL)
	return strings.Contains(u, "dev") || strings.Contains(u, "localhost") || strings.Contains(u, ":8888")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
