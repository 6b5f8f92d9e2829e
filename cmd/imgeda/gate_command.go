package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"imgeda/internal/gate"
)

func newGateCommand() *cobra.Command {
	var policyPath string

	cmd := &cobra.Command{
		Use:   "gate <manifest>",
		Short: "Evaluate a manifest against a quality policy",
		Long: `Gate checks the manifest against a TOML policy (or built-in defaults)
and exits non-zero when any check fails, so it can guard CI pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := gate.DefaultPolicy()
			if policyPath != "" {
				var err error
				policy, err = gate.LoadPolicy(policyPath)
				if err != nil {
					return err
				}
			}

			_, records, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			result := gate.Evaluate(records, policy)

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(result.Checks))
			for _, check := range result.Checks {
				rows = append(rows, []string{
					check.Name,
					fmt.Sprintf("%g", check.Threshold),
					fmt.Sprintf("%g", check.Observed),
					passedLabel(check.Passed),
					strings.Join(check.SamplePaths, "\n"),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Threshold", "Observed", "Result", "Samples"}, rows, 2, 3))
			fmt.Fprintf(out, "Gate over %d image(s): %s\n", result.TotalImages, passedLabel(result.Passed))

			if !result.Passed {
				return errors.New("gate failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyPath, "policy", "", "TOML policy file (defaults apply when omitted)")

	return cmd
}
