package models

// Record types counted in the check-in.
const (
	PostTypePopup      = "popup"
	PostTypePopupTheme = "popup_theme"
)

// Popup is one configuration record. Settings stay loosely typed so a
// malformed record degrades field by field instead of failing to decode.
type Popup struct {
	ID       int            `json:"id"`
	Title    string         `json:"title"`
	Status   string         `json:"status"`
	Settings map[string]any `json:"settings"`
}

// RecordSnapshot is the content of the configuration-record store at one
// point in time.
type RecordSnapshot struct {
	Popups []Popup `json:"popups"`
	// Counts holds status-bucketed counts per record type, e.g.
	// {"popup": {"publish": 3, "draft": 1, "trash": 2}}.
	Counts map[string]map[string]int `json:"counts"`
}

// Total sums every status bucket of postType. When the store carries no
// counts for popups they are derived from the popup records themselves.
func (s *RecordSnapshot) Total(postType string) int {
	if buckets, ok := s.Counts[postType]; ok {
		n := 0
		for _, c := range buckets {
			n += c
		}
		return n
	}
	if postType == PostTypePopup {
		return len(s.Popups)
	}
	return 0
}
