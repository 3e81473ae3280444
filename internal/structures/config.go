package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"poolSize"`
	Key      string `yaml:"key"`
}

// SettingsConfig selects the durable key-value backend holding the site
// identity, consent flags, throttle marker and plugin options.
type SettingsConfig struct {
	Driver   string      `yaml:"driver" validate:"required|in:file,redis"`
	FilePath string      `yaml:"filePath"`
	Redis    RedisConfig `yaml:"redis"`
}

type RecordsConfig struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
}

type PluginsConfig struct {
	Installed []string `yaml:"installed"`
	Active    []string `yaml:"active"`
}

type SiteConfig struct {
	URL             string        `yaml:"url" validate:"required"`
	NetworkURL      string        `yaml:"networkUrl"`
	Language        string        `yaml:"language"`
	Charset         string        `yaml:"charset"`
	HostVersion     string        `yaml:"hostVersion"`
	RuntimeVersion  string        `yaml:"runtimeVersion"`
	DatabaseVersion string        `yaml:"databaseVersion"`
	ThemeName       string        `yaml:"themeName"`
	ThemeVersion    string        `yaml:"themeVersion"`
	Plugins         PluginsConfig `yaml:"plugins"`
}

type TelemetryConfig struct {
	Endpoint       string        `yaml:"endpoint" validate:"required|fullUrl"`
	PluginVersion  string        `yaml:"pluginVersion" validate:"required"`
	CheckInterval  time.Duration `yaml:"checkInterval" validate:"required|min:1"`
	ThrottleTTL    time.Duration `yaml:"throttleTTL" validate:"required|min:1"`
	Timeout        time.Duration `yaml:"timeout" validate:"required|min:1"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	MaxRedirects   int           `yaml:"maxRedirects"`
	CheckOnStart   bool          `yaml:"checkOnStart"`
	LearnMoreURL   string        `yaml:"learnMoreUrl"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Settings  SettingsConfig  `yaml:"settings"`
	Records   RecordsConfig   `yaml:"records"`
	Site      SiteConfig      `yaml:"site"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
