package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeJellyfin()
	if err := c.normalizeBeets(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		if value, ok := os.LookupEnv("NICOTINE_DOWNLOAD_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.DownloadDir = strings.TrimSpace(value)
		} else {
			c.Paths.DownloadDir = defaultDownloadDir
		}
	}

	var err error
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeJellyfin() {
	c.Jellyfin.URL = strings.TrimSpace(c.Jellyfin.URL)
	if c.Jellyfin.URL == "" {
		if value, ok := os.LookupEnv("JELLYFIN_URL"); ok {
			c.Jellyfin.URL = strings.TrimSpace(value)
		}
	}
	if c.Jellyfin.URL == "" {
		c.Jellyfin.URL = defaultJellyfinURL
	}
	c.Jellyfin.URL = strings.TrimRight(c.Jellyfin.URL, "/")

	c.Jellyfin.APIKey = strings.TrimSpace(c.Jellyfin.APIKey)
	if c.Jellyfin.APIKey == "" {
		if value, ok := os.LookupEnv("JELLYFIN_API_KEY"); ok {
			c.Jellyfin.APIKey = strings.TrimSpace(value)
		}
	}

	c.Jellyfin.LibraryID = strings.TrimSpace(c.Jellyfin.LibraryID)
	if c.Jellyfin.LibraryID == "" {
		if value, ok := os.LookupEnv("JELLYFIN_LIBRARY_ID"); ok {
			c.Jellyfin.LibraryID = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeBeets() error {
	c.Beets.Binary = strings.TrimSpace(c.Beets.Binary)
	if c.Beets.Binary == "" {
		c.Beets.Binary = defaultBeetsBinary
	}
	if strings.TrimSpace(c.Beets.ConfigPath) != "" {
		var err error
		if c.Beets.ConfigPath, err = expandPath(c.Beets.ConfigPath); err != nil {
			return fmt.Errorf("beets.config_path: %w", err)
		}
	}
	if c.Beets.ImportTimeout <= 0 {
		c.Beets.ImportTimeout = defaultImportTimeout
	}
	return nil
}

func (c *Config) normalizeWatch() {
	if c.Watch.Delay <= 0 {
		c.Watch.Delay = defaultWatchDelay
		if value, ok := os.LookupEnv("WATCH_DELAY"); ok {
			// Lenient parse: a bad value keeps the default.
			if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && parsed > 0 {
				c.Watch.Delay = parsed
			}
		}
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = defaultPollInterval
	}

	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = defaultExtensions()
		return
	}
	exts := make([]string, 0, len(c.Watch.Extensions))
	seen := make(map[string]struct{}, len(c.Watch.Extensions))
	for _, ext := range c.Watch.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	c.Watch.Extensions = exts
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("DBVOIR_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
