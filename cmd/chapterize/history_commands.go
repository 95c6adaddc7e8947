package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"chapterize/internal/config"
	"chapterize/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past split runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

// withStore opens the history store for the duration of fn. The store holds
// an exclusive lock, so the window stays as small as the command body.
func withStore(ctx *commandContext, fn func(cfg *config.Config, store *history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		if errors.Is(err, history.ErrLocked) {
			return fmt.Errorf("history is busy: %w", err)
		}
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, historyRunsJSON(runs))
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.RunID),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						run.Input,
						run.Method,
						strconv.Itoa(run.ChapterCount),
						string(run.Status),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Input", "Method", "Chapters", "Status"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in detail, by full or prefix run id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("no run matches %q", args[0])
				}

				if asJSON {
					return writeJSON(cmd, historyRunJSON(run))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:        %s\n", run.RunID)
				fmt.Fprintf(out, "Input:      %s\n", run.Input)
				fmt.Fprintf(out, "Output dir: %s\n", run.OutputDir)
				fmt.Fprintf(out, "Method:     %s\n", run.Method)
				fmt.Fprintf(out, "Format:     %s @ %s (mono: %s)\n", run.Format, run.Bitrate, yesNo(run.Mono))
				fmt.Fprintf(out, "Chapters:   %d (%d failed)\n", run.ChapterCount, run.FailedCount)
				fmt.Fprintf(out, "Status:     %s\n", run.Status)
				fmt.Fprintf(out, "Started:    %s\n", run.StartedAt.Local().Format(time.RFC1123))
				fmt.Fprintf(out, "Elapsed:    %s\n", run.Duration().Round(time.Second))
				if run.ManifestPath != "" {
					fmt.Fprintf(out, "Manifest:   %s\n", run.ManifestPath)
				}
				if run.ErrorText != "" {
					fmt.Fprintf(out, "Error:      %s\n", run.ErrorText)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the run as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
}

type runJSON struct {
	RunID        string    `json:"run_id"`
	Input        string    `json:"input"`
	OutputDir    string    `json:"output_dir"`
	Method       string    `json:"method"`
	Format       string    `json:"format"`
	Bitrate      string    `json:"bitrate"`
	Mono         bool      `json:"mono"`
	ChapterCount int       `json:"chapter_count"`
	FailedCount  int       `json:"failed_count"`
	Status       string    `json:"status"`
	ManifestPath string    `json:"manifest_path,omitempty"`
	ErrorText    string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

func historyRunJSON(run *history.Run) runJSON {
	return runJSON{
		RunID:        run.RunID,
		Input:        run.Input,
		OutputDir:    run.OutputDir,
		Method:       run.Method,
		Format:       run.Format,
		Bitrate:      run.Bitrate,
		Mono:         run.Mono,
		ChapterCount: run.ChapterCount,
		FailedCount:  run.FailedCount,
		Status:       string(run.Status),
		ManifestPath: run.ManifestPath,
		ErrorText:    run.ErrorText,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}

func historyRunsJSON(runs []*history.Run) []runJSON {
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, historyRunJSON(run))
	}
	return out
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
