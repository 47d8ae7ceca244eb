package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/goerbfmt/pkg/format"
	"github.com/yaklabco/goerbfmt/pkg/fsutil"
)

// Runner orchestrates formatting across many files with a worker pool.
type Runner struct {
	// Formatter formats individual templates. It is safe for
	// concurrent use; each call owns its parsers.
	Formatter *format.Formatter
}

// New creates a Runner around the given formatter.
func New(formatter *format.Formatter) *Runner {
	return &Runner{Formatter: formatter}
}

// Run discovers files under opts.Paths and processes them
// concurrently, returning deterministic per-file outcomes plus
// aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers complete out of order; rebuild deterministic ordering
	// from the discovery list.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.processFile(ctx, path, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// processFile formats one file and, in write mode, rewrites it when
// the output changed and no error diagnostics were produced.
func (r *Runner) processFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, mode, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	result, err := r.Formatter.Format(ctx, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = result
	outcome.Original = content
	outcome.Changed = result.Changed(content)

	if opts.Mode != WriteInPlace || !outcome.Changed {
		return outcome
	}
	if result.HasErrors() {
		// Never rewrite a file the formatter could not analyse safely.
		return outcome
	}

	if opts.Backups {
		if _, err := fsutil.CreateBackup(ctx, path); err != nil {
			outcome.Error = fmt.Errorf("backup %s: %w", path, err)
			return outcome
		}
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(result.Output), mode)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", path, err)
		return outcome
	}
	outcome.Written = written
	return outcome
}
