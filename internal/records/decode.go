package records

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"

	json "github.com/goccy/go-json"
)

// rawSnapshot keeps every popup and count bucket undecoded so one bad
// record cannot fail the whole export.
type rawSnapshot struct {
	Popups json.RawMessage `json:"popups"`
	Counts json.RawMessage `json:"counts"`
}

func decodeSnapshot(data []byte, logger providers.Logger) (*models.RecordSnapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	popups := rawList(raw.Popups)
	snapshot := &models.RecordSnapshot{Popups: make([]models.Popup, 0, len(popups))}
	for i, msg := range popups {
		snapshot.Popups = append(snapshot.Popups, decodePopup(i, msg, logger))
	}

	var counts map[string]json.RawMessage
	if len(raw.Counts) > 0 && json.Unmarshal(raw.Counts, &counts) != nil {
		// [] is how PHP writes an empty map.
		counts = nil
	}
	if len(counts) > 0 {
		snapshot.Counts = make(map[string]map[string]int, len(counts))
		for postType, msg := range counts {
			snapshot.Counts[postType] = decodeBuckets(postType, msg, logger)
		}
	}
	return snapshot, nil
}

// rawList reads a JSON list, or an object keyed by index as PHP writes a
// sparse array. Anything else is an empty list.
func rawList(msg json.RawMessage) []json.RawMessage {
	if len(msg) == 0 {
		return nil
	}
	var list []json.RawMessage
	if json.Unmarshal(msg, &list) == nil {
		return list
	}
	var byKey map[string]json.RawMessage
	if json.Unmarshal(msg, &byKey) != nil {
		return nil
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	list = make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		list = append(list, byKey[k])
	}
	return list
}

// decodePopup never fails: a record that is not an object still counts as
// a popup with no settings.
func decodePopup(index int, msg json.RawMessage, logger providers.Logger) models.Popup {
	var fields map[string]any
	if err := json.Unmarshal(msg, &fields); err != nil {
		logger.Warnf(providers.TypeTelemetry, "Popup #%d is not an object, counted without settings", index)
		return models.Popup{}
	}

	var p models.Popup
	if id, ok := toInt(fields["id"]); ok {
		p.ID = id
	} else if fields["id"] != nil {
		logger.Warnf(providers.TypeTelemetry, "Popup #%d has malformed id %v", index, fields["id"])
	}
	p.Title, _ = fields["title"].(string)
	p.Status, _ = fields["status"].(string)

	switch s := fields["settings"].(type) {
	case map[string]any:
		p.Settings = s
	case nil:
	default:
		// PHP encodes an empty settings array as [].
		p.Settings = map[string]any{}
	}
	return p
}

func decodeBuckets(postType string, msg json.RawMessage, logger providers.Logger) map[string]int {
	var fields map[string]any
	if err := json.Unmarshal(msg, &fields); err != nil {
		logger.Warnf(providers.TypeTelemetry, "Counts for %s are not an object, ignored", postType)
		return map[string]int{}
	}
	buckets := make(map[string]int, len(fields))
	for status, v := range fields {
		n, ok := toInt(v)
		if !ok {
			logger.Warnf(providers.TypeTelemetry, "Count %s/%s is not a number: %v", postType, status, v)
			continue
		}
		buckets[status] = n
	}
	return buckets
}

// toInt accepts JSON numbers and numeric strings, the way PHP emits them.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
