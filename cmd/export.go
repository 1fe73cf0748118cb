package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/skillora/internal/config"
	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/report"
	"github.com/abhisek/skillora/internal/store"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:       "export <kind>",
	Short:     "Export one record kind as CSV",
	Long:      "Export writes every stored record of a kind (session, breakthrough, misconception,\nfrustration or llm) to a CSV file.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"session", "breakthrough", "misconception", "frustration", "llm"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := record.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown record kind %q", args[0])
		}
		dir, _ := cmd.Flags().GetString("out")

		return withRecorder(cmd, func(ctx context.Context, _ *config.Config, rec *store.Recorder) error {
			path, err := exportKind(ctx, rec, kind, dir, time.Now())
			if errors.Is(err, report.ErrNothingToExport) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", ".", "Directory to write the CSV file to")
}

// exportKind writes kind's records to a new CSV file in dir and returns its
// path. Nothing is created when there are no records.
func exportKind(ctx context.Context, rec *store.Recorder, kind record.Kind, dir string, now time.Time) (string, error) {
	recs, _, err := report.LoadKind(ctx, rec, kind)
	if err != nil {
		return "", fmt.Errorf("load %s records: %w", kind, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, recs); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, report.ExportFilename(kind, now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
