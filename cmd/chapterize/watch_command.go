package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"chapterize/internal/logging"
	"chapterize/internal/pipeline"
	"chapterize/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [inbox]",
		Short: "Watch an inbox directory and split arriving audiobooks",
		Long: `Watch monitors a directory for new audio files. Each file is picked up once
its size has stopped changing for the configured settle interval, then run
through the split pipeline with config defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inbox := cfg.Watch.InboxDir
			if len(args) == 1 {
				inbox = args[0]
			}
			if strings.TrimSpace(inbox) == "" {
				return errors.New("no inbox directory: pass one or set watch.inbox_dir in the config")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, logger)
			out := cmd.OutOrStdout()
			handler := func(runCtx context.Context, path string) {
				renderer := newProgressRenderer(out)
				summary, runErr := p.Run(runCtx, pipeline.NewRequest(cfg, path), renderer.handle)
				renderer.finish()
				switch {
				case runErr != nil:
					if !errors.Is(runErr, context.Canceled) {
						fmt.Fprintf(out, "Failed: %s: %v\n", filepath.Base(path), runErr)
					}
				case summary != nil:
					fmt.Fprintf(out, "Finished %s: %d chapters (%s)\n",
						summary.BookTitle, summary.ChapterCount(), summary.Status)
				}
			}

			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", inbox)
			return watch.New(inbox, cfg.WatchSettle(), handler, logger).Run(cmd.Context())
		},
	}

	return cmd
}
