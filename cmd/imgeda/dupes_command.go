package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"imgeda/internal/dupes"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var (
		near      bool
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "dupes <manifest>",
		Short: "List duplicate image groups in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Thresholds.DuplicateHamming
			}

			_, records, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			groups := dupes.ExactGroups(records)
			if near {
				groups = dupes.NearGroups(records, threshold)
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicate groups found")
				return nil
			}

			rows := make([][]string, 0, len(groups))
			for i, group := range groups {
				for _, rec := range group.Records {
					rows = append(rows, []string{strconv.Itoa(i + 1), rec.Path, rec.PHash})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Group", "Path", "PHash"}, rows, 1))
			fmt.Fprintf(out, "%d group(s)\n", len(groups))
			return nil
		},
	}

	cmd.Flags().BoolVar(&near, "near", false, "Cluster by Hamming distance instead of exact hash equality")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Hamming distance threshold for --near (default from config)")

	return cmd
}
