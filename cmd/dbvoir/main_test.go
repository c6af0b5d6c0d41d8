package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearPipelineEnv blanks the environment fallbacks so test configs are not
// polluted by the host environment.
func clearPipelineEnv(t *testing.T) {
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

type cliTestEnv struct {
	baseDir    string
	configPath string
}

// writeCLIConfig writes a config file with temp directories plus any extra
// TOML sections appended.
func writeCLIConfig(t *testing.T, extra string) *cliTestEnv {
	t.Helper()
	clearPipelineEnv(t)

	base := t.TempDir()
	downloadDir := filepath.Join(base, "downloads")
	for _, dir := range []string{downloadDir, filepath.Join(base, "logs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	content := fmt.Sprintf(`[paths]
download_dir = %q
log_dir = %q

%s`, downloadDir, filepath.Join(base, "logs"), extra)

	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}
