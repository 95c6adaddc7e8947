package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check that required external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Check(cfg)

			if asJSON {
				type statusJSON struct {
					Name      string `json:"name"`
					Command   string `json:"command"`
					Available bool   `json:"available"`
					Detail    string `json:"detail,omitempty"`
				}
				payload := make([]statusJSON, 0, len(statuses))
				for _, status := range statuses {
					payload = append(payload, statusJSON{
						Name:      status.Name,
						Command:   status.Command,
						Available: status.Available,
						Detail:    status.Detail,
					})
				}
				return writeJSON(cmd, payload)
			}

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				availability := "ok"
				if !status.Available {
					availability = "missing"
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					availability,
					status.Description,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status", "Used for"},
				rows,
				nil,
			))

			missing := deps.Missing(statuses)
			for _, status := range missing {
				if hint := deps.InstallHint(status); hint != "" {
					fmt.Fprintf(out, "Install %s: %s\n", status.Name, hint)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit statuses as JSON")
	return cmd
}
