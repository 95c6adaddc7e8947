package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/history"
	"chapterize/internal/pipeline"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir   string
		method      string
		chapterFile string
		format      string
		bitrate     string
		mono        bool
		jobs        int
	)

	cmd := &cobra.Command{
		Use:   "split <audiobook>",
		Short: "Split an audiobook into per-chapter files",
		Long: `Split detects chapter boundaries and exports each chapter as its own audio
file, next to a JSON manifest describing the result. Boundary detection uses
embedded chapter metadata when present and falls back to silence detection;
--method selects a different strategy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			req := pipeline.NewRequest(cfg, args[0])
			if outputDir != "" {
				req.OutputDir = outputDir
			}
			if method != "" {
				req.Method = method
			}
			if chapterFile != "" {
				req.ChapterFile = chapterFile
			}
			if format != "" {
				req.Format = format
			}
			if bitrate != "" {
				req.Bitrate = bitrate
			}
			if cmd.Flags().Changed("mono") {
				req.Mono = mono
			}
			if cmd.Flags().Changed("jobs") {
				req.Jobs = jobs
			}

			renderer := newProgressRenderer(cmd.OutOrStdout())
			summary, err := pipeline.New(cfg, ctx.fileLogger()).Run(cmd.Context(), req, renderer.handle)
			renderer.finish()
			if err != nil {
				return err
			}

			switch summary.Status {
			case history.StatusPartial:
				return &exitCodeError{
					code: 2,
					err: fmt.Errorf("%d of %d chapters failed; manifest at %s flags them",
						summary.FailedCount, summary.ChapterCount(), summary.ManifestPath),
				}
			case history.StatusFailed:
				return fmt.Errorf("all %d chapters failed to export", summary.ChapterCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for chapter files")
	cmd.Flags().StringVarP(&method, "method", "m", "", "Boundary detection method: metadata, silence, speech, json")
	cmd.Flags().StringVar(&chapterFile, "chapter-file", "", "Chapter boundary JSON for the json method")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: mp3, m4a, m4b, wav")
	cmd.Flags().StringVarP(&bitrate, "bitrate", "b", "", "Output bitrate, e.g. 128k")
	cmd.Flags().BoolVar(&mono, "mono", false, "Downmix output to mono")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Concurrent chapter exports")

	return cmd
}
