package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"chapterize/internal/history"
)

func TestChaptersPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, stderr, err := runCLI(t, []string{"chapters", env.input}, env.configPath)
	if err != nil {
		t.Fatalf("chapters failed: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, stdout, "The Spice")
	requireContains(t, stdout, "00:10:00")
	requireContains(t, stdout, "3 chapters (method: metadata)")

	// Preview must not export anything or record a run.
	if _, statErr := os.Stat(env.outputDir); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("preview created output directory, stat: %v", statErr)
	}
	store, err := history.Open(loadTestConfig(t, env))
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	defer store.Close()
	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("preview recorded %d runs", len(runs))
	}
}

func TestChaptersJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, stderr, err := runCLI(t, []string{"chapters", env.input, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("chapters failed: %v (stderr: %s)", err, stderr)
	}

	var payload struct {
		Method   string `json:"method"`
		Chapters []struct {
			Index    int     `json:"index"`
			Title    string  `json:"title"`
			Start    float64 `json:"start"`
			End      float64 `json:"end"`
			Duration float64 `json:"duration"`
		} `json:"chapters"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("parse JSON output: %v\n%s", err, stdout)
	}
	if payload.Method != "metadata" {
		t.Fatalf("method = %q, want metadata", payload.Method)
	}
	if len(payload.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3", len(payload.Chapters))
	}
	second := payload.Chapters[1]
	if second.Title != "The Spice" || second.Start != 600 || second.End != 1200 || second.Duration != 600 {
		t.Fatalf("unexpected second chapter: %+v", second)
	}
}

func TestChaptersRequiresChapterFileForJSONMethod(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"chapters", env.input, "--method", "json"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without --chapter-file")
	}
	requireContains(t, err.Error(), "invalid request")
}
