package providers

import (
	"telemetryd/internal/models"
	"telemetryd/internal/structures"
)

func NewSiteInfoProvider(conf *structures.Config) *models.SiteInfo {
	networkURL := conf.Site.NetworkURL
	if networkURL == "" {
		networkURL = conf.Site.URL
	}
	return &models.SiteInfo{
		URL:              conf.Site.URL,
		NetworkURL:       networkURL,
		Language:         conf.Site.Language,
		Charset:          conf.Site.Charset,
		HostVersion:      conf.Site.HostVersion,
		RuntimeVersion:   conf.Site.RuntimeVersion,
		DatabaseVersion:  conf.Site.DatabaseVersion,
		ThemeName:        conf.Site.ThemeName,
		ThemeVersion:     conf.Site.ThemeVersion,
		InstalledPlugins: conf.Site.Plugins.Installed,
		ActivePlugins:    conf.Site.Plugins.Active,
	}
}
