package providers

import (
	"errors"
	"fmt"
	"telemetryd/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch c.conf.Settings.Driver {
	case "file":
		if c.conf.Settings.FilePath == "" {
			return errors.New("settings.filePath is required for the file driver")
		}
	case "redis":
		if c.conf.Settings.Redis.Address == "" {
			return errors.New("settings.redis.address is required for the redis driver")
		}
	}

	// The marker must outlive a scheduler period, otherwise every tick sends.
	if c.conf.Telemetry.ThrottleTTL <= c.conf.Telemetry.CheckInterval {
		return fmt.Errorf("telemetry.throttleTTL (%s) must exceed telemetry.checkInterval (%s)",
			c.conf.Telemetry.ThrottleTTL, c.conf.Telemetry.CheckInterval)
	}
	if c.conf.Telemetry.MaxRedirects < 0 {
		return errors.New("telemetry.maxRedirects must not be negative")
	}
	return nil
}
