package models

// SiteInfo describes the installation the daemon reports for.
type SiteInfo struct {
	URL              string
	NetworkURL       string
	Language         string
	Charset          string
	HostVersion      string
	RuntimeVersion   string
	DatabaseVersion  string
	ThemeName        string
	ThemeVersion     string
	InstalledPlugins []string
	ActivePlugins    []string
}

// Theme renders the "<name> <version>" descriptor.
func (s *SiteInfo) Theme() string {
	return s.ThemeName + " " + s.ThemeVersion
}
