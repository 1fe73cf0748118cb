package cmd

import (
	"context"
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"

	"github.com/abhisek/skillora/internal/config"
	"github.com/abhisek/skillora/internal/report"
	"github.com/abhisek/skillora/internal/store"
	"github.com/abhisek/skillora/internal/ui/dashboard"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the learning-signal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		if width == 0 {
			width = terminalWidth()
		}
		return withRecorder(cmd, func(ctx context.Context, _ *config.Config, rec *store.Recorder) error {
			ds, err := report.Load(ctx, rec)
			if err != nil {
				return fmt.Errorf("load records: %w", err)
			}
			_, err = lipgloss.Fprintln(cmd.OutOrStdout(), dashboard.Render(ds, width))
			return err
		})
	},
}

func init() {
	reportCmd.Flags().Int("width", 0, "Render width (defaults to the terminal width)")
}

func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 0
	}
	return w
}
