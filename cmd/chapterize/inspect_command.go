package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
	"chapterize/internal/media/ffprobe"
	"chapterize/internal/media/tags"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <audiobook>",
		Short: "Show container, stream, and tag details for an audiobook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			input := args[0]
			probe, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), input)
			if err != nil {
				return err
			}
			// Tag read failures just leave the block empty.
			info, _ := tags.ReadInfo(input)

			duration := chapters.FromSeconds(probe.DurationSeconds())
			stream, hasStream := probe.PrimaryAudioStream()

			if asJSON {
				payload := map[string]any{
					"input":             input,
					"duration_seconds":  probe.DurationSeconds(),
					"duration":          chapters.FormatTimestamp(duration),
					"size_bytes":        probe.SizeBytes(),
					"bit_rate":          probe.BitRate(),
					"audio_streams":     probe.AudioStreamCount(),
					"embedded_chapters": len(probe.Chapters),
					"tags": map[string]any{
						"title":    info.Title,
						"artist":   info.Artist,
						"album":    info.Album,
						"narrator": info.Narrator,
						"year":     info.Year,
					},
				}
				if hasStream {
					payload["codec"] = stream.CodecName
					payload["sample_rate"] = stream.SampleRate
					payload["channels"] = stream.Channels
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loading audiobook: %s\n", filepath.Base(input))
			fmt.Fprintf(out, "Duration: %s\n", chapters.FormatTimestamp(duration))
			fmt.Fprintf(out, "File size: %.1f MB\n", float64(probe.SizeBytes())/(1024*1024))
			if hasStream {
				fmt.Fprintf(out, "Codec: %s\n", stream.CodecName)
				fmt.Fprintf(out, "Sample rate: %s Hz\n", stream.SampleRate)
				fmt.Fprintf(out, "Channels: %d\n", stream.Channels)
			}
			fmt.Fprintf(out, "Embedded chapters: %d\n", len(probe.Chapters))

			if info != (tags.Info{}) {
				fmt.Fprintln(out)
				if info.Title != "" {
					fmt.Fprintf(out, "Title: %s\n", info.Title)
				}
				if info.Artist != "" {
					fmt.Fprintf(out, "Author: %s\n", info.Artist)
				}
				if info.Narrator != "" {
					fmt.Fprintf(out, "Narrator: %s\n", info.Narrator)
				}
				if info.Album != "" {
					fmt.Fprintf(out, "Album: %s\n", info.Album)
				}
				if info.Year != 0 {
					fmt.Fprintf(out, "Year: %d\n", info.Year)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit details as JSON")
	return cmd
}
