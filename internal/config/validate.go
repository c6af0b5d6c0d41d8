package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
//
// The Jellyfin API key is deliberately not required here: the rescan trigger
// checks it itself so the missing-credential error surfaces at request time,
// and the watch pipeline runs without Jellyfin configured.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateJellyfin(); err != nil {
		return err
	}
	if err := c.validateBeets(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		return errors.New("paths.download_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateJellyfin() error {
	if strings.TrimSpace(c.Jellyfin.URL) == "" {
		return errors.New("jellyfin.url must be set")
	}
	return nil
}

func (c *Config) validateBeets() error {
	if strings.TrimSpace(c.Beets.Binary) == "" {
		return errors.New("beets.binary must be set")
	}
	if c.Beets.ImportTimeout <= 0 {
		return errors.New("beets.import_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if err := ensurePositiveMap(map[string]int{
		"watch.delay":         c.Watch.Delay,
		"watch.poll_interval": c.Watch.PollInterval,
	}); err != nil {
		return err
	}
	if len(c.Watch.Extensions) == 0 {
		return errors.New("watch.extensions must include at least one extension")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
