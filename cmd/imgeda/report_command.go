package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"imgeda/internal/report"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <manifest>",
		Short: "Summarize a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, records, err := loadManifest(args[0])
			if err != nil {
				return err
			}

			sum := report.Summarize(records)
			out := cmd.OutOrStdout()
			p := message.NewPrinter(language.English)

			if meta != nil {
				fmt.Fprintf(out, "Input: %s (scanned %s)\n", meta.InputDir, meta.CreatedAt)
			}
			p.Fprintf(out, "Images: %d, total size %d MiB\n", sum.TotalImages, sum.TotalSizeBytes>>20)
			p.Fprintf(out, "Flagged: %d corrupt, %d dark, %d overexposed, %d border artifacts\n",
				sum.CorruptCount, sum.DarkCount, sum.OverexposedCount, sum.ArtifactCount)
			if sum.TotalImages > sum.CorruptCount {
				fmt.Fprintf(out, "Dimensions: width %d-%d, height %d-%d\n",
					sum.MinWidth, sum.MaxWidth, sum.MinHeight, sum.MaxHeight)
			}

			for _, histogram := range []struct {
				title  string
				counts []report.CountedValue
			}{
				{"Format", sum.FormatCounts},
				{"Color Mode", sum.ModeCounts},
				{"Extension", sum.ExtensionCounts},
			} {
				if len(histogram.counts) == 0 {
					continue
				}
				rows := make([][]string, 0, len(histogram.counts))
				for _, cv := range histogram.counts {
					rows = append(rows, []string{cv.Value, strconv.Itoa(cv.Count)})
				}
				fmt.Fprintln(out, renderTable([]string{histogram.title, "Count"}, rows, 2))
			}
			return nil
		},
	}

	return cmd
}
