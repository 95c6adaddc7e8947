package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestHistoryListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	requireContains(t, stdout, "No runs recorded yet")
}

func TestHistoryListShowsRunsNewestFirst(t *testing.T) {
	env := setupCLITestEnv(t)

	older := sampleRun("aaaaaaaa-1111-4111-8111-111111111111")
	newer := sampleRun("bbbbbbbb-2222-4222-8222-222222222222")
	newer.Input = "/books/Hyperion.m4b"
	newer.StartedAt = older.StartedAt.Add(time.Hour)
	newer.FinishedAt = newer.StartedAt.Add(2 * time.Minute)
	seedRun(t, env, older)
	seedRun(t, env, newer)

	stdout, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	requireContains(t, stdout, "aaaaaaaa")
	requireContains(t, stdout, "bbbbbbbb")
	requireContains(t, stdout, "/books/Hyperion.m4b")
	requireContains(t, stdout, "completed")
	if strings.Index(stdout, "bbbbbbbb") > strings.Index(stdout, "aaaaaaaa") {
		t.Fatalf("expected newest run first:\n%s", stdout)
	}
}

func TestHistoryShowByPrefix(t *testing.T) {
	env := setupCLITestEnv(t)
	run := sampleRun("cccccccc-3333-4333-8333-333333333333")
	run.FailedCount = 1
	run.ErrorText = "transcode failed: export: chapter 02"
	seedRun(t, env, run)

	stdout, _, err := runCLI(t, []string{"history", "show", "cccccccc"}, env.configPath)
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}
	requireContains(t, stdout, "Run:        cccccccc-3333-4333-8333-333333333333")
	requireContains(t, stdout, "Input:      /books/Dune.m4b")
	requireContains(t, stdout, "Chapters:   3 (1 failed)")
	requireContains(t, stdout, "Status:     completed")
	requireContains(t, stdout, "Elapsed:    1m35s")
	requireContains(t, stdout, "Manifest:   /books/Dune_chapters/Dune_chapters.json")
	requireContains(t, stdout, "Error:      transcode failed")
}

func TestHistoryShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	run := sampleRun("dddddddd-4444-4444-8444-444444444444")
	seedRun(t, env, run)

	stdout, _, err := runCLI(t, []string{"history", "show", "dddddddd", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}
	var got struct {
		RunID        string `json:"run_id"`
		Method       string `json:"method"`
		ChapterCount int    `json:"chapter_count"`
		Status       string `json:"status"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("parse JSON output: %v\n%s", err, stdout)
	}
	if got.RunID != run.RunID || got.Method != "metadata" || got.ChapterCount != 3 || got.Status != "completed" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history", "show", "ffffffff"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	requireContains(t, err.Error(), `no run matches "ffffffff"`)
}

func TestHistoryClear(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, sampleRun("11111111-aaaa-4aaa-8aaa-aaaaaaaaaaaa"))
	seedRun(t, env, sampleRun("22222222-bbbb-4bbb-8bbb-bbbbbbbbbbbb"))

	stdout, _, err := runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear failed: %v", err)
	}
	requireContains(t, stdout, "Removed 2 runs")

	stdout, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	requireContains(t, stdout, "No runs recorded yet")
}
