package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
	"chapterize/internal/pipeline"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var (
		method      string
		chapterFile string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "chapters <audiobook>",
		Short: "Preview detected chapters without exporting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			req := pipeline.NewRequest(cfg, args[0])
			if method != "" {
				req.Method = method
			}
			if chapterFile != "" {
				req.ChapterFile = chapterFile
			}

			specs, used, err := pipeline.New(cfg, ctx.fileLogger()).Preview(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				type jsonChapter struct {
					Index    int     `json:"index"`
					Title    string  `json:"title"`
					Start    float64 `json:"start"`
					End      float64 `json:"end"`
					Duration float64 `json:"duration"`
				}
				payload := struct {
					Method   string        `json:"method"`
					Chapters []jsonChapter `json:"chapters"`
				}{Method: string(used)}
				for i, spec := range specs {
					payload.Chapters = append(payload.Chapters, jsonChapter{
						Index:    i + 1,
						Title:    spec.Title,
						Start:    chapters.Seconds(spec.Start),
						End:      chapters.Seconds(spec.End),
						Duration: chapters.Seconds(spec.Duration()),
					})
				}
				return writeJSON(cmd, payload)
			}

			rows := make([][]string, 0, len(specs))
			for i, spec := range specs {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					spec.Title,
					chapters.FormatTimestamp(spec.Start),
					chapters.FormatTimestamp(spec.End),
					chapters.FormatTimestamp(spec.Duration()),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Start", "End", "Duration"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%d chapters (method: %s)\n", len(specs), used)
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "Boundary detection method: metadata, silence, speech, json")
	cmd.Flags().StringVar(&chapterFile, "chapter-file", "", "Chapter boundary JSON for the json method")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit chapters as JSON")

	return cmd
}
