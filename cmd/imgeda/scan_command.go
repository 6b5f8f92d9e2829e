package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"imgeda/internal/analyzer"
	"imgeda/internal/preflight"
	"imgeda/internal/scan"
	"imgeda/internal/shutdown"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		output          string
		workers         int
		checkpointEvery int
		force           bool
		noResume        bool
		extensions      []string
		noHashes        bool
		skipPixelStats  bool
		darkThreshold   float64
		overThreshold   float64
		artifactThresh  float64
	)

	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Scan an image tree into a manifest",
		Long: `Scan walks the given root, analyzes every matching image with a fixed
worker pool, and appends one record per file to the output manifest.
Interrupt once for a graceful stop (progress is kept and resumable);
interrupt twice to terminate immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("workers") {
				cfg.Scan.Workers = workers
			}
			if flags.Changed("checkpoint-every") {
				cfg.Scan.CheckpointEvery = checkpointEvery
			}
			if flags.Changed("ext") {
				cfg.Scan.Extensions = extensions
			}
			if noResume {
				cfg.Scan.Resume = false
			}
			if noHashes {
				cfg.Scan.IncludeHashes = false
			}
			if skipPixelStats {
				cfg.Scan.SkipPixelStats = true
			}
			if flags.Changed("dark-threshold") {
				cfg.Thresholds.Dark = darkThreshold
			}
			if flags.Changed("overexposed-threshold") {
				cfg.Thresholds.Overexposed = overThreshold
			}
			if flags.Changed("artifact-threshold") {
				cfg.Thresholds.Artifact = artifactThresh
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			root := args[0]
			if results, ok := preflight.Run(root, output); !ok {
				for _, r := range results {
					if !r.Passed {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight failed: %s: %s\n", r.Name, r.Detail)
					}
				}
				return fmt.Errorf("preflight checks failed")
			}

			lock := flock.New(output + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire manifest lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another scan is already writing to %s", output)
			}
			defer func() {
				_ = lock.Unlock()
				_ = os.Remove(output + ".lock")
			}()

			coord := shutdown.New(cmd.Context())
			coord.Install()
			defer coord.Uninstall()

			var (
				barOnce sync.Once
				bar     *progressbar.ProgressBar
			)
			orch, err := scan.New(scan.Options{
				Root:       root,
				OutputPath: output,
				Force:      force,
				Config:     cfg,
				Analyzer:   analyzer.New(cfg),
				Logger:     logger,
				Shutdown:   coord,
				OnProgress: func(done, total int) {
					barOnce.Do(func() {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetWriter(cmd.ErrOrStderr()),
							progressbar.OptionSetDescription("scanning"),
							progressbar.OptionShowCount(),
							progressbar.OptionClearOnFinish(),
						)
					})
					_ = bar.Set(done)
				},
			})
			if err != nil {
				return err
			}

			sum, err := orch.Run(cmd.Context())
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			printScanSummary(cmd, sum)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "manifest.jsonl", "Output manifest path")
	cmd.Flags().IntVar(&workers, "workers", 0, "Analyzer pool size (0 = one per CPU)")
	cmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", 0, "Records per checkpoint flush")
	cmd.Flags().BoolVar(&force, "force", false, "Discard any existing manifest and rescan")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "Disable resume even if a manifest exists")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Extensions to scan (default from config)")
	cmd.Flags().BoolVar(&noHashes, "no-hashes", false, "Skip perceptual hash computation")
	cmd.Flags().BoolVar(&skipPixelStats, "skip-pixel-stats", false, "Skip pixel and corner statistics")
	cmd.Flags().Float64Var(&darkThreshold, "dark-threshold", 0, "Mean brightness below this flags the image dark")
	cmd.Flags().Float64Var(&overThreshold, "overexposed-threshold", 0, "Mean brightness above this flags overexposure")
	cmd.Flags().Float64Var(&artifactThresh, "artifact-threshold", 0, "Corner-to-center delta above this flags a border artifact")

	return cmd
}

func printScanSummary(cmd *cobra.Command, sum *scan.Summary) {
	out := cmd.OutOrStdout()
	p := message.NewPrinter(language.English)

	p.Fprintf(out, "Discovered %d files, processed %d, manifest holds %d records\n",
		sum.Discovered, sum.Processed, sum.Committed)
	if sum.AlreadyProcessed > 0 {
		p.Fprintf(out, "Resumed past %d already-processed records\n", sum.AlreadyProcessed)
	}
	if sum.Corrupt > 0 || sum.Dark > 0 || sum.Overexposed > 0 || sum.Artifacts > 0 {
		p.Fprintf(out, "Flagged: %d corrupt, %d dark, %d overexposed, %d border artifacts\n",
			sum.Corrupt, sum.Dark, sum.Overexposed, sum.Artifacts)
	}
	if sum.Interrupted {
		fmt.Fprintln(out, "Scan interrupted; rerun with the same output to resume")
	}
}
