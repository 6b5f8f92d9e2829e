package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"imgeda/internal/leakage"
	"imgeda/internal/manifest"
)

func newLeakageCommand(ctx *commandContext) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "leakage <split>=<manifest> <split>=<manifest> ...",
		Short: "Detect images leaking across dataset splits",
		Long: `Leakage loads one manifest per split (for example train=train.jsonl
val=val.jsonl) and reports images whose hashes appear in more than one
split, exactly or within the Hamming threshold.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Thresholds.DuplicateHamming
			}

			splits := make(map[string][]manifest.Record, len(args))
			for _, arg := range args {
				name, path, found := strings.Cut(arg, "=")
				if !found || name == "" || path == "" {
					return fmt.Errorf("invalid split argument %q, want <split>=<manifest>", arg)
				}
				if _, dup := splits[name]; dup {
					return fmt.Errorf("split %q given twice", name)
				}
				_, records, err := loadManifest(path)
				if err != nil {
					return err
				}
				splits[name] = records
			}

			leaks := leakage.Detect(splits, threshold)

			out := cmd.OutOrStdout()
			if len(leaks) == 0 {
				fmt.Fprintln(out, "No cross-split leakage found")
				return nil
			}

			rows := make([][]string, 0, len(leaks))
			for _, leak := range leaks {
				rows = append(rows, []string{
					leak.Path,
					strings.Join(leak.FoundIn, ", "),
					leak.MatchType,
					leak.MatchedPath,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Path", "Splits", "Match", "Matched Path"}, rows))
			fmt.Fprintf(out, "%d leaked image(s)\n", len(leaks))
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "Hamming threshold for near matches, 0 disables (default from config)")

	return cmd
}
