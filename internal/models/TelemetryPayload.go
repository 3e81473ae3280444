package models

// TelemetryPayload is the check-in body. It is built fresh for every
// eligible cycle and never persisted.
type TelemetryPayload struct {
	UID string `json:"uid"`

	Language string `json:"language"`
	Charset  string `json:"charset"`

	PHPVersion   string `json:"php_version"`
	MySQLVersion string `json:"mysql_version"`
	IsLocalhost  bool   `json:"is_localhost"`

	URL             string   `json:"url"`
	Version         string   `json:"version"`
	WPVersion       string   `json:"wp_version"`
	Theme           string   `json:"theme"`
	ActivePlugins   []string `json:"active_plugins"`
	InactivePlugins []string `json:"inactive_plugins"`

	Popups      int `json:"popups"`
	PopupThemes int `json:"popup_themes"`
	OpenCount   int `json:"open_count"`

	BlockEditorEnabled   bool   `json:"block_editor_enabled"`
	BypassAdBlockers     bool   `json:"bypass_ad_blockers"`
	DisableTaxonomies    bool   `json:"disable_taxonimies"`
	DisableAssetCache    bool   `json:"disable_asset_cache"`
	DisableOpenTracking  bool   `json:"disable_open_tracking"`
	DefaultEmailProvider string `json:"default_email_provider"`

	Triggers   Tally `json:"triggers"`
	Cookies    Tally `json:"cookies"`
	Conditions Tally `json:"conditions"`
	Locations  Tally `json:"locations"`
	Sizes      Tally `json:"sizes"`
	Sounds     Tally `json:"sounds"`
}
