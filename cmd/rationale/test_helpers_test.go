package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rationale/internal/config"
	"rationale/internal/testsupport"
)

// cliTestEnv holds the isolated config one CLI test runs against.
type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

// setupCLITestEnv isolates HOME and writes a config file pointing the CLI at
// the given backend URL. baseURL may be empty for commands that stay offline.
func setupCLITestEnv(t *testing.T, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("RATIONALE_API_URL", "")

	opts := []testsupport.ConfigOption{}
	if baseURL != "" {
		opts = append(opts, testsupport.WithBaseURL(baseURL))
	}
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[api]
base_url = %q
request_timeout = 5

[paths]
state_dir = %q
log_dir = %q
download_dir = %q

[workflow]
poll_interval_ms = %d
manual_step_delay_ms = %d

[notifications]
ntfy_topic = %q
`,
		cfg.API.BaseURL,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Paths.DownloadDir,
		cfg.Workflow.PollIntervalMS,
		cfg.Workflow.ManualStepDelayMS,
		cfg.Notifications.NtfyTopic,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
