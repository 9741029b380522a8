package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vrkit/pkg/adapters/codecdetect"
	"github.com/user/vrkit/pkg/adapters/ffmpeg"
	"github.com/user/vrkit/pkg/adapters/filesink"
	"github.com/user/vrkit/pkg/adapters/ggrenderer"
	"github.com/user/vrkit/pkg/adapters/h264decoder"
	"github.com/user/vrkit/pkg/adapters/h264encoder"
	"github.com/user/vrkit/pkg/adapters/logger"
	"github.com/user/vrkit/pkg/adapters/nullsink"
	"github.com/user/vrkit/pkg/adapters/osfilesystem"
	"github.com/user/vrkit/pkg/adapters/sysmem"
	"github.com/user/vrkit/pkg/batch"
	"github.com/user/vrkit/pkg/config"
	"github.com/user/vrkit/pkg/orchestrator"
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/stages/decode"
	"github.com/user/vrkit/pkg/stages/encode"
	stagerepair "github.com/user/vrkit/pkg/stages/repair"
	"github.com/user/vrkit/pkg/summarizer"
)

// repairAction executes the repair command.
func repairAction(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return cli.Exit(l10n.T("Input video argument is required"), 2)
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)
	ctx, cancel := signalContext(c.Context, log)
	defer cancel()

	fs := osfilesystem.New()
	orch, err := newOrchestrator(cfg, cfg.DebugDir, fs, log)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(input, c.String("output")))
	if err != nil {
		return err
	}

	if path := c.String("summary"); path != "" {
		writeSummary(fs, log, path, cfg, result)
	}
	return nil
}

// batchAction executes the batch command.
func batchAction(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return cli.Exit(l10n.T("Input directory argument is required"), 2)
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)
	ctx, cancel := signalContext(c.Context, log)
	defer cancel()

	fs := osfilesystem.New()
	summaryDir := c.String("summary")

	// Each file gets its own orchestrator so debug output lands in a
	// per-file directory.
	runner := batch.RunnerFunc(func(ctx context.Context, oc orchestrator.Config) (orchestrator.RunResult, error) {
		name := strings.TrimSuffix(filepath.Base(oc.InputPath), filepath.Ext(oc.InputPath))
		orch, err := newOrchestrator(cfg, filepath.Join(cfg.DebugDir, name), fs, log)
		if err != nil {
			return orchestrator.RunResult{}, err
		}
		result, err := orch.Run(ctx, oc)
		if err == nil && summaryDir != "" {
			writeSummary(fs, log, filepath.Join(summaryDir, name+".md"), cfg, result)
		}
		return result, err
	})

	driver := batch.New(runner, fs, log)
	_, err = driver.Run(ctx, batch.Options{
		InputDir:   dir,
		OutputDir:  c.String("output"),
		Extensions: cfg.NormalizedExtensions(),
		Suffix:     cfg.Suffix,
		Workers:    cfg.Workers,
		Base:       cfg.ToOrchestratorConfig("", ""),
	})
	return err
}

// probeAction executes the probe command.
func probeAction(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return cli.Exit(l10n.T("Input video argument is required"), 2)
	}
	if path := c.String("ffmpeg"); path != "" {
		ffmpeg.SetPath(path)
	}

	info, err := codecdetect.NewProber().Probe(input)
	if err != nil {
		return err
	}

	fmt.Println(l10n.F("Codec: %s", info.Codec))
	fmt.Println(l10n.F("Size: %dx%d", info.Width, info.Height))
	fmt.Println(l10n.F("Samples: %s", humanize.Comma(int64(info.SampleCount))))
	fmt.Println(l10n.F("Duration: %.2f s", float64(info.DurationMs)/1000))
	fmt.Println(l10n.F("Frame rate: %.2f fps", info.FPS))
	fmt.Println(l10n.F("Decoded size: %s", humanize.IBytes(decode.EstimateBytes(info))))
	if !ffmpeg.IsAvailable() {
		fmt.Println(l10n.T("ffmpeg not found; repair will fail"))
	}
	return nil
}

// buildConfig loads the configuration file, if any, and applies the flags
// that were set explicitly.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("threshold") {
		cfg.Threshold = c.Float64("threshold")
	}
	if c.IsSet("weight") {
		cfg.BlendWeight = c.Float64("weight")
	}
	if c.IsSet("strategy") {
		cfg.Strategy = c.String("strategy")
	}
	if c.Bool("no-copy") {
		cfg.CopyClean = false
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("bitrate") {
		cfg.Bitrate = c.Int("bitrate")
	}
	if c.IsSet("fps") {
		cfg.FPS = c.Float64("fps")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("suffix") {
		cfg.Suffix = c.String("suffix")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.FFmpegPath != "" {
		ffmpeg.SetPath(cfg.FFmpegPath)
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(strings.ToLower(cfg.LogLevel)))
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context, log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// newOrchestrator wires adapters and stages for one run.
func newOrchestrator(cfg config.Config, debugDir string, fs ports.FileSystem, log ports.Logger) (*orchestrator.Orchestrator, error) {
	renderer := ggrenderer.New(ggrenderer.WithLogger(log))

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(debugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(debugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	decodeStage := decode.NewStage(codecdetect.NewProber(), h264decoder.NewMP4Reader(), sysmem.New(), log)
	repairStage := stagerepair.NewStage(log)
	encodeStage := encode.NewStage(h264encoder.New(), log)

	return orchestrator.New(
		decodeStage,
		repairStage,
		encodeStage,
		fs,
		sink,
		renderer,
		log,
	), nil
}

// writeSummary writes a Markdown summary. Failures are logged only.
func writeSummary(fs ports.FileSystem, log ports.Logger, path string, cfg config.Config, result orchestrator.RunResult) {
	summary := summarizer.NewBuilder().
		WithRun(result).
		WithSettings(summarizer.Settings{
			Quality: cfg.Quality,
			Bitrate: cfg.Bitrate,
			FPS:     cfg.FPS,
		}).
		Build()

	writer := summarizer.NewWriter(
		summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(func(s string) string { return l10n.T(s) }),
			summarizer.WithVersion(version),
		),
		fs,
	)
	if err := writer.Write(path, summary); err != nil {
		log.Warn(l10n.F("Failed to write summary: %s", err))
		return
	}
	log.Info(l10n.F("Summary saved to %s", path))
}
