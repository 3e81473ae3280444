package settings

import (
	"context"
	"fmt"
	"strconv"
	"telemetryd/internal/providers"
	"telemetryd/internal/structures"
)

// Recognized keys.
const (
	KeyUUID            = "uuid"
	KeyOptedIn         = "optedIn"
	KeyPromptDismissed = "promptDismissed"
	KeyLastSentAt      = "lastSentAt"

	KeyBlockEditorEnabled   = "gutenberg_support_enabled"
	KeyBypassAdBlockers     = "bypass_adblockers"
	KeyDisableTaxonomies    = "disable_popup_category_tag"
	KeyDisableAssetCaching  = "disable_asset_caching"
	KeyDisableOpenTracking  = "disable_popup_open_tracking"
	KeyDefaultEmailProvider = "newsletter_default_provider"
	KeyTotalOpenCount       = "pum_total_open_count"
)

// Store is the durable key-value settings storage. Reads and writes are
// synchronously consistent within one process.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Load prepares the backend (reads the file, pings the server).
	Load(ctx context.Context) error
	// Flush forces pending state to durable storage.
	Flush(ctx context.Context) error
	Close() error
}

// CompressorInterface is the on-disk codec of the file store.
type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// NewStore picks the backend named by settings.driver.
func NewStore(conf *structures.Config, logger providers.Logger, compressor CompressorInterface) (Store, error) {
	switch conf.Settings.Driver {
	case "redis":
		logger.Infof(providers.TypeApp, "Settings stored in redis %s (hash %s)", conf.Settings.Redis.Address, conf.Settings.Redis.Key)
		return NewRedisStore(conf.Settings.Redis), nil
	case "file", "":
		logger.Infof(providers.TypeApp, "Settings stored in %s", conf.Settings.FilePath)
		return NewFileStore(conf.Settings.FilePath, compressor, logger), nil
	default:
		return nil, fmt.Errorf("unknown settings driver %q", conf.Settings.Driver)
	}
}

// Truthy follows the loose option semantics of the plugin: anything but
// "", "0" and "false" counts as set.
func Truthy(raw string) bool {
	switch raw {
	case "", "0", "false", "FALSE", "False":
		return false
	}
	return true
}

func GetBool(ctx context.Context, s Store, key string) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return Truthy(raw), nil
}

func SetBool(ctx context.Context, s Store, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

func GetInt(ctx context.Context, s Store, key string) (int, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok || raw == "" {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not an integer: %w", key, err)
	}
	return n, nil
}

// GetString returns def when the key is absent or unreadable.
func GetString(ctx context.Context, s Store, key, def string) string {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	return raw
}
