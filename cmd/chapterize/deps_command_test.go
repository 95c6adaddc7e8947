package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDepsReportsConfiguredTools(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps failed: %v", err)
	}
	requireContains(t, stdout, "FFmpeg")
	requireContains(t, stdout, "FFprobe")
	requireContains(t, stdout, "ok")
}

func TestDepsFailsWhenToolMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	broken := filepath.Join(env.baseDir, "broken.toml")
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[tools]
ffmpeg = %q
ffprobe = %q
`,
		env.stateDir,
		env.logDir,
		filepath.Join(env.baseDir, "nope", "ffmpeg"),
		filepath.Join(env.binDir, "ffprobe"),
	)
	if err := os.WriteFile(broken, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"deps"}, broken)
	if err == nil {
		t.Fatal("expected missing tool to fail the command")
	}
	requireContains(t, err.Error(), "1 required tool(s) missing")
	requireContains(t, stdout, "missing")
	requireContains(t, stdout, "Install FFmpeg:")
}

func TestDepsJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"deps", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("deps failed: %v", err)
	}
	var statuses []struct {
		Name      string `json:"name"`
		Command   string `json:"command"`
		Available bool   `json:"available"`
	}
	if err := json.Unmarshal([]byte(stdout), &statuses); err != nil {
		t.Fatalf("parse JSON output: %v\n%s", err, stdout)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("%s unexpectedly unavailable", status.Name)
		}
	}
}
