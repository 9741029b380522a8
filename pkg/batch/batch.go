// Package batch repairs every video in a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ideamans/go-l10n"
	"golang.org/x/sync/errgroup"

	"github.com/user/vrkit/pkg/orchestrator"
	"github.com/user/vrkit/pkg/ports"
)

var (
	// ErrNoInputs is returned when the directory holds no matching files.
	ErrNoInputs = errors.New("batch: no matching videos")
	// ErrOverwriteInput is returned for a file whose output path equals its input path.
	ErrOverwriteInput = errors.New("batch: output would overwrite input")
)

// Runner repairs a single video.
type Runner interface {
	Run(ctx context.Context, config orchestrator.Config) (orchestrator.RunResult, error)
}

// RunnerFunc is a function adapter for the Runner interface.
type RunnerFunc func(ctx context.Context, config orchestrator.Config) (orchestrator.RunResult, error)

// Run implements the Runner interface.
func (f RunnerFunc) Run(ctx context.Context, config orchestrator.Config) (orchestrator.RunResult, error) {
	return f(ctx, config)
}

// Options configures a batch run.
type Options struct {
	InputDir   string
	OutputDir  string
	Extensions []string // Lowercase with leading dot
	Suffix     string   // Appended to the base name of each output
	Workers    int      // Files processed at once; values below 1 mean 1

	// Base is copied for every file with InputPath and OutputPath replaced.
	Base orchestrator.Config
}

// FileResult is the outcome of one file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Result     orchestrator.RunResult
	Err        error
}

// Result is the outcome of a batch run, with Files in directory order.
type Result struct {
	Files     []FileResult
	Succeeded int
	Failed    int
}

// Driver runs a Runner over a directory.
type Driver struct {
	runner Runner
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a Driver.
func New(runner Runner, fs ports.FileSystem, logger ports.Logger) *Driver {
	return &Driver{
		runner: runner,
		fs:     fs,
		logger: logger.WithComponent("batch"),
	}
}

// Run repairs every matching file. A failing file does not stop the
// others; the returned error joins every per-file error.
func (d *Driver) Run(ctx context.Context, opts Options) (Result, error) {
	inputs, err := d.collect(opts.InputDir, opts.Extensions)
	if err != nil {
		return Result{}, err
	}
	if len(inputs) == 0 {
		return Result{}, fmt.Errorf("%w in %s", ErrNoInputs, opts.InputDir)
	}
	d.logger.Info(l10n.F("Found %d videos in %s", len(inputs), opts.InputDir))

	if err := d.fs.MkdirAll(opts.OutputDir); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	files := make([]FileResult, len(inputs))
	var mu sync.Mutex
	done := 0

	var g errgroup.Group
	g.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		output := OutputPath(input, opts.OutputDir, opts.Suffix)
		files[i] = FileResult{InputPath: input, OutputPath: output}

		g.Go(func() error {
			mu.Lock()
			done++
			d.logger.Info(l10n.F("[%d/%d] %s", done, len(inputs), filepath.Base(input)))
			mu.Unlock()

			files[i].Result, files[i].Err = d.runOne(ctx, opts.Base, input, output)
			if files[i].Err != nil {
				d.logger.Error(l10n.F("Failed to repair %s: %s", input, files[i].Err))
			}
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Files: files}
	var errs []error
	for _, f := range files {
		if f.Err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", f.InputPath, f.Err))
			continue
		}
		result.Succeeded++
	}
	d.logger.Info(l10n.F("Batch finished: %d repaired, %d failed", result.Succeeded, result.Failed))

	return result, errors.Join(errs...)
}

func (d *Driver) runOne(ctx context.Context, base orchestrator.Config, input, output string) (orchestrator.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return orchestrator.RunResult{}, err
	}
	if filepath.Clean(input) == filepath.Clean(output) {
		return orchestrator.RunResult{}, ErrOverwriteInput
	}
	config := base
	config.InputPath = input
	config.OutputPath = output
	return d.runner.Run(ctx, config)
}

// collect lists the files of dir whose extension matches, in name order.
func (d *Driver) collect(dir string, extensions []string) ([]string, error) {
	paths, err := d.fs.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var inputs []string
	for _, path := range paths {
		if MatchExtension(path, extensions) {
			inputs = append(inputs, path)
		}
	}
	return inputs, nil
}

// MatchExtension reports whether path ends in one of extensions,
// ignoring case.
func MatchExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// OutputPath returns <outDir>/<name><suffix>.mp4 for input.
func OutputPath(input, outDir, suffix string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, name+suffix+".mp4")
}
