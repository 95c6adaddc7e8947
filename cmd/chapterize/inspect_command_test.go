package main

import (
	"encoding/json"
	"testing"
)

func TestInspectPrintsContainerDetails(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, stderr, err := runCLI(t, []string{"inspect", env.input}, env.configPath)
	if err != nil {
		t.Fatalf("inspect failed: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, stdout, "Loading audiobook: Dune.m4b")
	requireContains(t, stdout, "Duration: 00:30:00")
	requireContains(t, stdout, "File size: 27.0 MB")
	requireContains(t, stdout, "Codec: aac")
	requireContains(t, stdout, "Sample rate: 44100 Hz")
	requireContains(t, stdout, "Channels: 2")
	requireContains(t, stdout, "Embedded chapters: 3")
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, stderr, err := runCLI(t, []string{"inspect", env.input, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect failed: %v (stderr: %s)", err, stderr)
	}

	var payload struct {
		Input            string  `json:"input"`
		DurationSeconds  float64 `json:"duration_seconds"`
		Duration         string  `json:"duration"`
		SizeBytes        int64   `json:"size_bytes"`
		AudioStreams     int     `json:"audio_streams"`
		EmbeddedChapters int     `json:"embedded_chapters"`
		Codec            string  `json:"codec"`
		SampleRate       string  `json:"sample_rate"`
		Channels         int     `json:"channels"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("parse JSON output: %v\n%s", err, stdout)
	}
	if payload.DurationSeconds != 1800 {
		t.Fatalf("duration_seconds = %v, want 1800", payload.DurationSeconds)
	}
	if payload.Duration != "00:30:00" {
		t.Fatalf("duration = %q", payload.Duration)
	}
	if payload.EmbeddedChapters != 3 {
		t.Fatalf("embedded_chapters = %d, want 3", payload.EmbeddedChapters)
	}
	if payload.Codec != "aac" || payload.SampleRate != "44100" || payload.Channels != 2 {
		t.Fatalf("unexpected stream details: %+v", payload)
	}
}

func TestInspectFailsWhenProbeFails(t *testing.T) {
	env := setupCLITestEnv(t)
	writeStub(t, env.binDir, "ffprobe", "#!/bin/sh\necho 'broken' >&2\nexit 1\n")

	_, _, err := runCLI(t, []string{"inspect", env.input}, env.configPath)
	if err == nil {
		t.Fatal("expected probe failure to surface")
	}
	requireContains(t, err.Error(), "ffprobe inspect")
}
