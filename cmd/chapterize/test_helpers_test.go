package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chapterize/internal/config"
	"chapterize/internal/history"
)

// probeStubScript emits a fixed ffprobe payload: a 30 minute book with three
// embedded chapters of ten minutes each.
const probeStubScript = `#!/bin/sh
cat <<'PROBE'
{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2, "bit_rate": "128000"}
  ],
  "chapters": [
    {"id": 0, "time_base": "1/1000", "start_time": "0.000000", "end_time": "600.000000", "tags": {"title": "Intro"}},
    {"id": 1, "time_base": "1/1000", "start_time": "600.000000", "end_time": "1200.000000", "tags": {"title": "The Spice"}},
    {"id": 2, "time_base": "1/1000", "start_time": "1200.000000", "end_time": "1800.000000", "tags": {"title": "The Worm"}}
  ],
  "format": {"filename": "Dune.m4b", "nb_streams": 1, "duration": "1800.000000", "size": "28311552", "bit_rate": "128000", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}
PROBE
exit 0
`

// ffmpegStubScript creates the transcode target so outputs appear on disk.
// The output path is always ffmpeg's final argument.
const ffmpegStubScript = `#!/bin/sh
for last in "$@"; do :; done
case "$last" in
/*) : > "$last" ;;
esac
exit 0
`

type cliTestEnv struct {
	baseDir    string
	binDir     string
	configPath string
	outputDir  string
	stateDir   string
	logDir     string
	inboxDir   string
	input      string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	writeStub(t, binDir, "ffprobe", probeStubScript)
	writeStub(t, binDir, "ffmpeg", ffmpegStubScript)

	input := filepath.Join(base, "Dune.m4b")
	if err := os.WriteFile(input, bytes.Repeat([]byte{0x42}, 4096), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	env := &cliTestEnv{
		baseDir:    base,
		binDir:     binDir,
		configPath: filepath.Join(homeDir, ".config", "chapterize", "config.toml"),
		outputDir:  filepath.Join(base, "output"),
		stateDir:   filepath.Join(base, "state"),
		logDir:     filepath.Join(base, "logs"),
		inboxDir:   filepath.Join(base, "inbox"),
		input:      input,
	}
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, env)
	return env
}

func writeStub(t *testing.T, dir, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

// writeTestConfig points the tools at the stub binaries and disables output
// tagging, since the stub ffmpeg produces empty files no tag writer can open.
func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
output_dir = %q
state_dir = %q
log_dir = %q

[tools]
ffmpeg = %q
ffprobe = %q

[export]
tag_outputs = false

[watch]
inbox_dir = %q
settle_seconds = 1
`,
		env.outputDir,
		env.stateDir,
		env.logDir,
		filepath.Join(env.binDir, "ffmpeg"),
		filepath.Join(env.binDir, "ffprobe"),
		env.inboxDir,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func loadTestConfig(t *testing.T, env *cliTestEnv) *config.Config {
	t.Helper()
	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

// seedRun inserts a run and releases the store lock before returning, so a
// subsequent CLI invocation can take it.
func seedRun(t *testing.T, env *cliTestEnv, run *history.Run) {
	t.Helper()
	store, err := history.Open(loadTestConfig(t, env))
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	if err := store.Insert(context.Background(), run); err != nil {
		_ = store.Close()
		t.Fatalf("insert run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close history store: %v", err)
	}
}

func sampleRun(runID string) *history.Run {
	started := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return &history.Run{
		RunID:        runID,
		Input:        "/books/Dune.m4b",
		OutputDir:    "/books/Dune_chapters",
		Method:       "metadata",
		Format:       "mp3",
		Bitrate:      "128k",
		ChapterCount: 3,
		Status:       history.StatusCompleted,
		ManifestPath: "/books/Dune_chapters/Dune_chapters.json",
		StartedAt:    started,
		FinishedAt:   started.Add(95 * time.Second),
	}
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
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
