package scan

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"imgeda/internal/manifest"
)

// runPool dispatches pending paths to a fixed worker pool in waves of at
// most MaxInFlight, collects completed records, and flushes them to the
// manifest every CheckpointEvery completions, at wave boundaries, and on
// shutdown. Only buffered-then-flushed records are counted as processed,
// so the summary never claims more than the manifest holds.
func (o *Orchestrator) runPool(ctx context.Context, pending []string, sum *Summary) error {
	cfg := o.opts.Config

	workers := cfg.EffectiveWorkers()
	if workers > len(pending) {
		workers = len(pending)
	}
	maxInFlight := cfg.Scan.MaxInFlight
	checkpointEvery := cfg.Scan.CheckpointEvery

	poolCtx, cancelPool := context.WithCancel(ctx)
	defer cancelPool()

	reqCh := make(chan string)
	resCh := make(chan manifest.Record, workers)

	g, gctx := errgroup.WithContext(poolCtx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case path, ok := <-reqCh:
					if !ok {
						return nil
					}
					rec, ok := o.analyzeOne(gctx, path)
					if !ok {
						return nil
					}
					select {
					case resCh <- rec:
					case <-gctx.Done():
						return nil
					}
				}
			}
		})
	}

	buffer := make([]manifest.Record, 0, checkpointEvery)
	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := manifest.Append(o.opts.OutputPath, buffer); err != nil {
			return err
		}
		for _, rec := range buffer {
			o.record(sum, rec)
		}
		buffer = buffer[:0]
		return nil
	}

	total := len(pending)
	done := 0

waves:
	for start := 0; start < total; start += maxInFlight {
		if o.opts.Shutdown.ShuttingDown() {
			sum.Interrupted = true
			break
		}

		end := start + maxInFlight
		if end > total {
			end = total
		}
		wave := pending[start:end]

		go func() {
			for _, path := range wave {
				select {
				case reqCh <- path:
				case <-gctx.Done():
					return
				}
			}
		}()

		for i := 0; i < len(wave); i++ {
			var rec manifest.Record
			select {
			case rec = <-resCh:
			case <-o.opts.Shutdown.Done():
				sum.Interrupted = true
				break waves
			}

			buffer = append(buffer, rec)
			done++
			if o.opts.OnProgress != nil {
				o.opts.OnProgress(done, total)
			}
			if len(buffer) >= checkpointEvery {
				if err := flush(); err != nil {
					cancelPool()
					_ = g.Wait()
					return err
				}
			}
			if o.opts.Shutdown.ShuttingDown() {
				sum.Interrupted = true
				break waves
			}
		}

		if err := flush(); err != nil {
			cancelPool()
			_ = g.Wait()
			return err
		}
	}

	cancelPool()
	if err := g.Wait(); err != nil {
		return err
	}

	return flush()
}

// analyzeOne runs the analyzer with the configured per-item timeout. A
// timed-out item yields a corrupt-flagged stub so the scan records the
// attempt without identity fields, leaving it eligible for reanalysis on
// a later resume. ok is false only when the pool itself was cancelled.
func (o *Orchestrator) analyzeOne(ctx context.Context, path string) (manifest.Record, bool) {
	timeout := time.Duration(o.opts.Config.Scan.ItemTimeoutSeconds) * time.Second
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resCh := make(chan manifest.Record, 1)
	go func() {
		resCh <- o.opts.Analyzer.Analyze(actx, path)
	}()

	select {
	case rec := <-resCh:
		return rec, true
	case <-actx.Done():
		if ctx.Err() != nil {
			return manifest.Record{}, false
		}
		o.logger.Warn("analysis timed out", "path", path, "timeout", timeout)
		return manifest.Record{
			Path:       path,
			Filename:   filepath.Base(path),
			IsCorrupt:  true,
			AnalyzedAt: time.Now().UTC().Format(time.RFC3339),
		}, true
	}
}
