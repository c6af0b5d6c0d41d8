package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// blankEnvFallbacks clears the environment overrides so default-value tests
// are not affected by variables exported on the host.
func blankEnvFallbacks(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JELLYFIN_URL",
		"JELLYFIN_API_KEY",
		"JELLYFIN_LIBRARY_ID",
		"NICOTINE_DOWNLOAD_DIR",
		"WATCH_DELAY",
		"DBVOIR_NTFY_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultJellyfinURL(t *testing.T) {
	blankEnvFallbacks(t)

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Jellyfin.URL != "http://10.0.0.8:8096" {
		t.Fatalf("unexpected default jellyfin url: %q", cfg.Jellyfin.URL)
	}
}

func TestNormalizeJellyfinEnvFallbacks(t *testing.T) {
	t.Setenv("JELLYFIN_URL", " http://media.local:8096/ ")
	t.Setenv("JELLYFIN_API_KEY", " secret ")
	t.Setenv("JELLYFIN_LIBRARY_ID", "lib-1")

	cfg := Default()
	cfg.Jellyfin.URL = ""
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if cfg.Jellyfin.URL != "http://media.local:8096" {
		t.Errorf("url = %q, want trimmed env value", cfg.Jellyfin.URL)
	}
	if cfg.Jellyfin.APIKey != "secret" {
		t.Errorf("api_key = %q, want %q", cfg.Jellyfin.APIKey, "secret")
	}
	if cfg.Jellyfin.LibraryID != "lib-1" {
		t.Errorf("library_id = %q, want %q", cfg.Jellyfin.LibraryID, "lib-1")
	}
}

func TestNormalizeJellyfinFileValueWins(t *testing.T) {
	t.Setenv("JELLYFIN_API_KEY", "env-key")

	cfg := Default()
	cfg.Jellyfin.APIKey = "file-key"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Jellyfin.APIKey != "file-key" {
		t.Fatalf("api_key = %q, want file value to win", cfg.Jellyfin.APIKey)
	}
}

func TestNormalizeWatchDelayEnv(t *testing.T) {
	t.Setenv("WATCH_DELAY", "45")

	cfg := Default()
	cfg.Watch.Delay = 0
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Watch.Delay != 45 {
		t.Fatalf("watch.delay = %d, want 45", cfg.Watch.Delay)
	}
}

func TestNormalizeWatchDelayBadEnvKeepsDefault(t *testing.T) {
	t.Setenv("WATCH_DELAY", "soon")

	cfg := Default()
	cfg.Watch.Delay = 0
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Watch.Delay != defaultWatchDelay {
		t.Fatalf("watch.delay = %d, want default %d", cfg.Watch.Delay, defaultWatchDelay)
	}
}

func TestNormalizeExtensions(t *testing.T) {
	cfg := Default()
	cfg.Watch.Extensions = []string{"MP3", ".FLAC", " ", "flac"}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []string{".mp3", ".flac"}
	if len(cfg.Watch.Extensions) != len(want) {
		t.Fatalf("extensions = %v, want %v", cfg.Watch.Extensions, want)
	}
	for i, ext := range want {
		if cfg.Watch.Extensions[i] != ext {
			t.Fatalf("extensions = %v, want %v", cfg.Watch.Extensions, want)
		}
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	blankEnvFallbacks(t)

	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file at %s", path)
	}
	if cfg.Beets.Binary != "beet" {
		t.Errorf("beets.binary = %q, want default", cfg.Beets.Binary)
	}
	if cfg.Watch.Delay != defaultWatchDelay {
		t.Errorf("watch.delay = %d, want default", cfg.Watch.Delay)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`download_dir = "` + filepath.Join(dir, "incoming") + `"`,
		`library_dir = "` + filepath.Join(dir, "library") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"",
		"[jellyfin]",
		`url = "http://jellyfin.example:8096/"`,
		`api_key = "abc"`,
		"",
		"[watch]",
		"delay = 10",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Jellyfin.URL != "http://jellyfin.example:8096" {
		t.Errorf("jellyfin.url = %q, want trailing slash trimmed", cfg.Jellyfin.URL)
	}
	if cfg.Watch.Delay != 10 {
		t.Errorf("watch.delay = %d, want 10", cfg.Watch.Delay)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Watch.Extensions = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty extensions")
	}

	cfg = Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Beets.Binary = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty beets binary")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[jellyfin]") {
		t.Fatal("sample config missing [jellyfin] section")
	}
}
