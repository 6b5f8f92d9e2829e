package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgeda/internal/export"
)

func newExportCommand() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export <manifest>",
		Short: "Export a manifest to CSV or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, records, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "csv":
				if out == "" {
					return export.WriteCSV(cmd.OutOrStdout(), records)
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				if err := export.WriteCSV(f, records); err != nil {
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", out, err)
				}
			case "sqlite":
				if out == "" {
					return fmt.Errorf("--out is required for sqlite export")
				}
				if err := export.ToSQLite(cmd.Context(), out, meta, records); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export format %q, want csv or sqlite", format)
			}

			if out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(records), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or sqlite")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination path (stdout for csv when omitted)")

	return cmd
}
