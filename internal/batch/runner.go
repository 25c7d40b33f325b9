// Package batch rewrites a string field in every JSON file of a directory.
//
// A run lists the target directory, then processes every entry in its own goroutine through a
// read, parse, transform, serialize and write pipeline. Failures are contained to the file they
// happen on: only a failure to list the directory aborts the run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ubuntu/decorate"
)

// Runner runs batches over the configured directory.
type Runner struct {
	cfg      Config
	dir      string
	runID    string
	pipeline Pipeline

	log *slog.Logger
}

type options struct {
	Logger *slog.Logger
	RunID  string
}

// Options represents an optional function to override Runner default values.
type Options func(*options)

// New validates cfg and returns a Runner for it.
func New(cfg Config, args ...Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := options{
		Logger: slog.Default(),
		RunID:  uuid.NewString(),
	}
	for _, opt := range args {
		opt(&opts)
	}

	log := opts.Logger.With("run", opts.RunID)
	return &Runner{
		cfg:      cfg,
		dir:      filepath.Clean(cfg.TargetDir),
		runID:    opts.RunID,
		pipeline: NewPipeline(cfg, log),
		log:      log,
	}, nil
}

// RunID returns the identifier attached to every log record of this runner.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes every entry of the target directory and waits for all of them.
//
// It only returns an error, wrapping ErrDirectoryAccess, when the directory cannot be listed.
// Per file failures are reported in the Summary.
func (r *Runner) Run(ctx context.Context) (s Summary, err error) {
	defer decorate.OnError(&err, "batch run failed")

	r.log.Debug("Listing target directory", "dir", r.dir, "config", r.cfg)
	names, err := List(r.dir)
	if err != nil {
		r.log.Error("Failed to read target directory", "dir", r.dir, "err", err)
		return Summary{}, err
	}

	paths := make([]string, 0, len(names))
	for _, n := range names {
		paths = append(paths, filepath.Join(r.dir, n))
	}

	s = r.processAll(ctx, paths)
	r.logSummary(s)
	return s, nil
}

// processAll runs the pipeline on every path concurrently and returns once all of them are done.
// Results keep the order of paths.
func (r *Runner) processAll(ctx context.Context, paths []string) Summary {
	start := time.Now()
	results := make([]Result, len(paths))

	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.pipeline.Process(ctx, p)
		}()
	}
	wg.Wait()

	return summarize(r.runID, r.dir, start, time.Now(), results)
}

func (r *Runner) logSummary(s Summary) {
	log := r.log.With(
		"dir", r.dir,
		"files", s.Total(),
		"updated", s.Updated,
		"unchanged", s.Unchanged,
		"failed", s.Failed,
		"duration", s.End.Sub(s.Start),
	)
	if r.cfg.DryRun {
		log = log.With("planned", s.Planned)
	}

	if s.Failed > 0 || s.Skipped > 0 {
		log.Warn("Finished processing directory with failures", "failed_by_stage", s.FailedByStage, "skipped", s.Skipped)
		return
	}
	log.Info("Finished processing directory")
}
