package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateThresholds(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if c.Scan.Workers < 0 {
		return errors.New("scan.workers must not be negative")
	}
	if c.Scan.CheckpointEvery < 1 {
		return errors.New("scan.checkpoint_every must be at least 1")
	}
	if c.Scan.MaxInFlight < 1 {
		return errors.New("scan.max_in_flight must be at least 1")
	}
	if c.Scan.ItemTimeoutSeconds < 1 {
		return errors.New("scan.item_timeout_seconds must be at least 1")
	}
	if len(c.NormalizedExtensions()) == 0 {
		return errors.New("scan.extensions must name at least one extension")
	}
	return nil
}

func (c *Config) validateThresholds() error {
	if c.Thresholds.Dark < 0 || c.Thresholds.Dark > 255 {
		return errors.New("thresholds.dark must be between 0 and 255")
	}
	if c.Thresholds.Overexposed < 0 || c.Thresholds.Overexposed > 255 {
		return errors.New("thresholds.overexposed must be between 0 and 255")
	}
	if c.Thresholds.Dark >= c.Thresholds.Overexposed {
		return errors.New("thresholds.dark must be below thresholds.overexposed")
	}
	if c.Thresholds.CornerPatchFraction <= 0 || c.Thresholds.CornerPatchFraction > 0.5 {
		return errors.New("thresholds.corner_patch_fraction must be in (0, 0.5]")
	}
	if c.Thresholds.MaxImageDimension < 16 {
		return errors.New("thresholds.max_image_dimension must be at least 16")
	}
	if c.Thresholds.DuplicateHamming < 0 {
		return errors.New("thresholds.duplicate_hamming must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
