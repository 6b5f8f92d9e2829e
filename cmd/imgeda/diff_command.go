package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"imgeda/internal/diff"
)

func newDiffCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "diff <old-manifest> <new-manifest>",
		Short: "Compare two manifests",
		Long: `Diff compares two manifests of the same tree by path and reports which
records were added, removed or changed, plus corrupt and duplicate-group
count deltas.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, oldRecords, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			_, newRecords, err := loadManifest(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(oldRecords) == 0 && len(newRecords) == 0 {
				fmt.Fprintln(out, "Both manifests are empty")
				return nil
			}

			result := diff.Manifests(oldRecords, newRecords)
			s := result.Summary

			p := message.NewPrinter(language.English)
			p.Fprintf(out, "Old: %d images, new: %d images\n", s.TotalOld, s.TotalNew)
			p.Fprintf(out, "Added: %d, removed: %d, changed: %d, unchanged: %d\n",
				s.AddedCount, s.RemovedCount, s.ChangedCount, result.UnchangedCount)
			if s.CorruptOld != s.CorruptNew {
				p.Fprintf(out, "Corrupt: %d -> %d\n", s.CorruptOld, s.CorruptNew)
			}
			if s.DuplicateGroupsOld != s.DuplicateGroupsNew {
				p.Fprintf(out, "Duplicate groups: %d -> %d\n", s.DuplicateGroupsOld, s.DuplicateGroupsNew)
			}

			if outPath != "" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("encode diff result: %w", err)
				}
				data = append(data, '\n')
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write diff result: %w", err)
				}
				fmt.Fprintf(out, "Saved to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the full diff as JSON to this path")

	return cmd
}
