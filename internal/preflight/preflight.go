package preflight

import (
	"context"

	"dbvoir/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Jellyfin is only checked when an API key is configured; the pipeline runs
// without it and simply skips rescans.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir))

	if cfg.Paths.LibraryDir != "" {
		results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
		results = append(results, CheckDiskSpace("Library volume space", cfg.Paths.LibraryDir))
	} else {
		results = append(results, CheckDiskSpace("Log directory space", cfg.Paths.LogDir))
	}
	results = append(results, CheckBeets(cfg.Beets.Binary))

	if cfg.Jellyfin.APIKey != "" {
		results = append(results, CheckJellyfin(ctx, cfg.Jellyfin.URL, cfg.Jellyfin.APIKey))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
