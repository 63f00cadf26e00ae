package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/cstpatch/internal/logging"
	"github.com/yaklabco/cstpatch/pkg/patch"
)

// Runner patches scripts concurrently using a patch.Pipeline.
type Runner struct {
	// Pipeline handles per-script processing.
	Pipeline *patch.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *patch.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

type job struct {
	path   string
	output string
}

// Run discovers scripts under opts.Paths and patches them with a worker
// pool. Outcomes are ordered by path regardless of completion order.
// Per-script failures are recorded in the result, not returned; with
// FailFast the first failure stops the remaining work.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	pipelineOpts, err := patch.PipelineOptionsFromConfig(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("pipeline options: %w", err)
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	outputs, err := OutputPaths(files, resolveOutputDir(workDir, opts.OutputDir))
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files:    make([]FileOutcome, 0, len(files)),
		Warnings: opts.Warnings,
	}
	result.Stats.ScriptsDiscovered = len(files)
	result.Stats.Warnings = len(opts.Warnings)

	logger := logging.FromContext(ctx)
	logger.Debug("discovered scripts", logging.FieldScriptsDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan job)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(runCtx, workCh, outCh, pipelineOpts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-runCtx.Done():
				return
			case workCh <- job{path: path, output: outputs[path]}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	stopped := false
	for outcome := range outCh {
		if outcome.Error != nil {
			// Scripts interrupted by a fail-fast stop are not failures of their own.
			if stopped && errors.Is(outcome.Error, context.Canceled) {
				continue
			}
			logger.Error("script failed", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
			if opts.FailFast && !stopped {
				stopped = true
				cancel()
			}
		}
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan job,
	outCh chan<- FileOutcome,
	opts patch.PipelineOptions,
) {
	for item := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: item.path, Output: item.output}

		res, err := r.Pipeline.ProcessFile(logging.WithScript(ctx, item.path), item.path, item.output, opts)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Result = res
		}

		// Outcomes are always delivered so the collector sees every
		// finished script, even after a fail-fast cancel.
		outCh <- outcome
	}
}
