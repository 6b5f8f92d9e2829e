package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"imgeda/internal/config"
	"imgeda/internal/manifest"
	"imgeda/internal/shutdown"
)

// Analyzer produces a manifest record for a single file. Implementations
// never fail: unreadable or undecodable input yields a corrupt-flagged
// record so the scan keeps moving.
type Analyzer interface {
	Analyze(ctx context.Context, path string) manifest.Record
}

// Options configures a scan run.
type Options struct {
	// Root is the directory to scan.
	Root string
	// OutputPath is the manifest the scan appends to.
	OutputPath string
	// Force discards any existing manifest and scans from scratch even
	// when resume is enabled in the config.
	Force bool

	Config   *config.Config
	Analyzer Analyzer
	Logger   *slog.Logger
	// Shutdown is polled between completions; when it fires the scan
	// flushes its buffer and returns early with Interrupted set.
	Shutdown *shutdown.Coordinator

	// OnProgress, if set, is called after each completed item with the
	// number done and the total pending for this run.
	OnProgress func(done, total int)
}

// Summary reports what a scan run accomplished.
type Summary struct {
	Discovered       int
	AlreadyProcessed int
	Processed        int
	Committed        int
	Corrupt          int
	Dark             int
	Overexposed      int
	Artifacts        int
	Interrupted      bool
}

// Orchestrator owns a single scan run.
type Orchestrator struct {
	opts   Options
	logger *slog.Logger
}

// New validates opts and returns an orchestrator ready to run.
func New(opts Options) (*Orchestrator, error) {
	if opts.Root == "" {
		return nil, errors.New("scan root is required")
	}
	if opts.OutputPath == "" {
		return nil, errors.New("manifest output path is required")
	}
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if opts.Shutdown == nil {
		return nil, errors.New("shutdown coordinator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{opts: opts, logger: logger}, nil
}

// Run executes the scan to completion or until shutdown is requested.
// The returned summary is valid in both cases.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	cfg := o.opts.Config

	discovered, err := Discover(o.opts.Root, cfg.NormalizedExtensions())
	if err != nil {
		return nil, err
	}
	sum := &Summary{Discovered: len(discovered)}
	o.logger.Info("discovery complete", "root", o.opts.Root, "found", len(discovered))
	if len(discovered) == 0 {
		return sum, nil
	}

	pending, err := o.preparePending(discovered, sum)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		sum.Committed = sum.AlreadyProcessed
		o.logger.Info("nothing to do, manifest is current", "records", sum.AlreadyProcessed)
		return sum, nil
	}
	o.logger.Info("scanning", "pending", len(pending), "already_processed", sum.AlreadyProcessed)

	if err := o.runPool(ctx, pending, sum); err != nil {
		return nil, err
	}

	sum.Committed = sum.AlreadyProcessed + sum.Processed
	if sum.Interrupted {
		o.logger.Warn("scan interrupted, manifest left resumable",
			"committed", sum.Committed, "remaining", len(pending)-sum.Processed)
	} else {
		o.logger.Info("scan complete", "processed", sum.Processed, "committed", sum.Committed)
	}
	return sum, nil
}

// preparePending decides between resuming an existing manifest and
// starting fresh, and returns the files still needing analysis.
func (o *Orchestrator) preparePending(discovered []string, sum *Summary) ([]string, error) {
	cfg := o.opts.Config

	resuming := cfg.Scan.Resume && !o.opts.Force
	if resuming {
		if _, err := os.Stat(o.opts.OutputPath); err != nil {
			resuming = false
		}
	}

	if !resuming {
		meta := manifest.NewMeta(absOrSelf(o.opts.Root), len(discovered), o.runSettings())
		if err := manifest.CreateFresh(o.opts.OutputPath, meta); err != nil {
			return nil, err
		}
		return discovered, nil
	}

	meta, records, err := manifest.ReadAll(o.opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("load manifest for resume: %w", err)
	}
	sum.AlreadyProcessed = len(records)

	index := manifest.ResumeIndex(records)
	var pending []string
	for _, path := range discovered {
		info, err := os.Stat(path)
		if err != nil {
			// Let the analyzer see it and flag it corrupt.
			pending = append(pending, path)
			continue
		}
		if _, done := index[manifest.FileKey(path, info)]; !done {
			pending = append(pending, path)
		}
	}

	if meta == nil {
		fresh := manifest.NewMeta(absOrSelf(o.opts.Root), len(discovered), o.runSettings())
		meta = &fresh
	}
	if meta.TotalFiles != len(discovered) {
		meta.TotalFiles = len(discovered)
		if err := manifest.RewriteHeader(o.opts.OutputPath, *meta); err != nil {
			return nil, fmt.Errorf("refresh manifest header: %w", err)
		}
	}

	o.logger.Info("resuming scan", "already_processed", len(records), "pending", len(pending))
	return pending, nil
}

func (o *Orchestrator) runSettings() map[string]any {
	cfg := o.opts.Config
	return map[string]any{
		"run_id":           uuid.NewString(),
		"workers":          cfg.Scan.Workers,
		"include_hashes":   cfg.Scan.IncludeHashes,
		"skip_pixel_stats": cfg.Scan.SkipPixelStats,
		"dark_threshold":   cfg.Thresholds.Dark,
		"overexposed_threshold": cfg.Thresholds.Overexposed,
		"artifact_threshold":    cfg.Thresholds.Artifact,
	}
}

func (o *Orchestrator) record(sum *Summary, rec manifest.Record) {
	sum.Processed++
	if rec.IsCorrupt {
		sum.Corrupt++
	}
	if rec.IsDark {
		sum.Dark++
	}
	if rec.IsOverexposed {
		sum.Overexposed++
	}
	if rec.HasBorderArtifact {
		sum.Artifacts++
	}
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
