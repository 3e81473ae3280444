package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"telemetryd/internal/structures"
	"time"

	"github.com/spf13/viper"
)

const AppName = "PopupTelemetryDaemon"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("settings.driver", "file")
	v.SetDefault("settings.redis.key", "ptd:settings")
	v.SetDefault("settings.redis.poolSize", 10)
	v.SetDefault("telemetry.endpoint", "https://api.wppopupmaker.com/wp-json/pmapi/v2/")
	v.SetDefault("telemetry.checkInterval", 24*time.Hour)
	v.SetDefault("telemetry.throttleTTL", 6*24*time.Hour)
	v.SetDefault("telemetry.timeout", 20*time.Second)
	v.SetDefault("telemetry.connectTimeout", 5*time.Second)
	v.SetDefault("telemetry.maxRedirects", 5)
	v.SetDefault("telemetry.learnMoreUrl", "https://docs.wppopupmaker.com/article/528-the-data-the-popup-maker-plugin-collects")
	v.SetDefault("site.charset", "UTF-8")
	v.SetDefault("cache.ttl", 5*time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setDefaults(v)

	v.BindEnv("logger.level", "PTD_LOG_LEVEL")
	v.BindEnv("settings.driver", "PTD_SETTINGS_DRIVER")
	v.BindEnv("settings.redis.address", "PTD_REDIS_ADDRESS")
	v.BindEnv("settings.redis.password", "PTD_REDIS_PASSWORD")
	v.BindEnv("telemetry.endpoint", "PTD_TELEMETRY_ENDPOINT")
	v.BindEnv("telemetry.checkInterval", "PTD_CHECK_INTERVAL")
	v.BindEnv("cache.enabled", "PTD_CACHE_ENABLED")
	v.BindEnv("cache.size", "PTD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
