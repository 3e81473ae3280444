package providers

import (
	"telemetryd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Settings: structures.SettingsConfig{
			Driver:   "file",
			FilePath: "/tmp/ptd-settings.dat",
		},
		Records: structures.RecordsConfig{
			FilePath: "/tmp/popups.json",
		},
		Site: structures.SiteConfig{
			URL: "https://example.org",
		},
		Telemetry: structures.TelemetryConfig{
			Endpoint:      "https://api.wppopupmaker.com/wp-json/pmapi/v2/",
			PluginVersion: "1.11.0",
			CheckInterval: 24 * time.Hour,
			ThrottleTTL:   6 * 24 * time.Hour,
			Timeout:       20 * time.Second,
			MaxRedirects:  5,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownSettingsDriver(t *testing.T) {
	c := validConfig()
	c.Settings.Driver = "mysql"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_FileDriverNeedsPath(t *testing.T) {
	c := validConfig()
	c.Settings.FilePath = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RedisDriverNeedsAddress(t *testing.T) {
	c := validConfig()
	c.Settings.Driver = "redis"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())

	c.Settings.Redis.Address = "127.0.0.1:6379"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ThrottleMustOutliveInterval(t *testing.T) {
	c := validConfig()
	c.Telemetry.ThrottleTTL = 12 * time.Hour
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingPluginVersion(t *testing.T) {
	c := validConfig()
	c.Telemetry.PluginVersion = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
