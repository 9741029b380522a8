// Package orchestrator runs the decode, repair and encode stages for one video.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/vrkit/pkg/pipeline"
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
	"github.com/user/vrkit/pkg/timeline"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input / output
	InputPath  string
	OutputPath string

	// Repair
	Repair repair.Options

	// Encoding
	Quality int     // CRF: 0-63, 0 selects the encoder default
	Bitrate int     // kbps, 0 for none
	FPS     float64 // 0 keeps the input frame rate

	// CopyClean copies the input unchanged when nothing is missing.
	CopyClean bool

	// Debug output
	DebugFrameWidth int            // Downsizes saved frames wider than this; 0 keeps them
	Timeline        timeline.Theme // Zero value selects timeline.DefaultTheme
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Repair:    repair.DefaultOptions(),
		CopyClean: true,
		Timeline:  timeline.DefaultTheme(),
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	repairStage pipeline.Stage[pipeline.RepairInput, pipeline.RepairResult]
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	fs          ports.FileSystem
	sink        ports.DebugSink
	renderer    ports.Renderer
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	repairStage pipeline.Stage[pipeline.RepairInput, pipeline.RepairResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	renderer ports.Renderer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		decodeStage: decodeStage,
		repairStage: repairStage,
		encodeStage: encodeStage,
		fs:          fs,
		sink:        sink,
		renderer:    renderer,
		logger:      logger,
	}
}

// Run repairs config.InputPath into config.OutputPath.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info(l10n.F("Repairing %s", config.InputPath))

	// 1. Decode
	decoded, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{Path: config.InputPath})
	if err != nil {
		o.logger.Error(l10n.F("Failed to decode video: %s", err))
		return RunResult{}, fmt.Errorf("decode stage: %w", err)
	}

	result := RunResult{
		InputPath:  config.InputPath,
		OutputPath: config.OutputPath,
		Info:       decoded.Info,
	}

	// 2. Repair
	repaired, err := o.repairStage.Execute(ctx, pipeline.RepairInput{
		Frames:  decoded.Frames,
		Options: config.Repair,
	})
	result.Report = repaired.Report
	if err != nil {
		o.logger.Error(l10n.F("Failed to repair frames: %s", err))
		return result, fmt.Errorf("repair stage: %w", err)
	}

	o.saveDebug(config, repaired)

	// 3. Copy or encode
	if repaired.Report.Strategy == repair.StrategyNone && config.CopyClean {
		o.logger.Info(l10n.T("Input is clean, copying without re-encoding"))
		data, err := o.fs.ReadFile(config.InputPath)
		if err != nil {
			return result, fmt.Errorf("read input: %w", err)
		}
		if err := o.write(config.OutputPath, data); err != nil {
			return result, err
		}
		result.Copied = true
		result.OutputFrames = len(repaired.Frames)
		result.OutputDurationMs = decoded.Info.DurationMs
		result.OutputFileSize = int64(len(data))
		return result, nil
	}

	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Frames:  repaired.Frames,
		Quality: config.Quality,
		Bitrate: config.Bitrate,
		FPS:     outputFPS(config, decoded.Info),
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to encode video: %s", err))
		return result, fmt.Errorf("encode stage: %w", err)
	}
	o.logger.Info(l10n.F("Video encoded: %d bytes", len(encoded.VideoData)))

	// 4. Write output
	if err := o.write(config.OutputPath, encoded.VideoData); err != nil {
		return result, err
	}

	result.OutputFrames = encoded.FrameCount
	result.OutputDurationMs = encoded.DurationMs
	result.OutputFileSize = encoded.FileSize
	return result, nil
}

func (o *Orchestrator) write(path string, data []byte) error {
	if err := o.fs.WriteFile(path, data); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return fmt.Errorf("write output: %w", err)
	}
	o.logger.Info(l10n.F("Output saved to %s", path))
	return nil
}

// saveDebug writes the report, the timeline and every synthesized frame.
// Failures are logged and never abort the run.
func (o *Orchestrator) saveDebug(config Config, repaired pipeline.RepairResult) {
	if !o.sink.Enabled() {
		return
	}

	data, err := json.MarshalIndent(repaired.Report, "", "  ")
	if err == nil {
		err = o.sink.SaveReportJSON(data)
	}
	if err != nil {
		o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
	}

	theme := config.Timeline
	if theme.MaxWidth == 0 {
		theme = timeline.DefaultTheme()
	}
	img := timeline.Render(o.renderer, repaired.Report, repaired.Frames, theme)
	if err := o.sink.SaveTimeline(img); err != nil {
		o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
	}

	for _, fill := range repaired.Report.Fills {
		if fill.Kind == repair.FillDropped || fill.Index >= len(repaired.Frames) {
			continue
		}
		frame := repaired.Frames[fill.Index].Image
		if frame == nil {
			continue
		}
		if config.DebugFrameWidth > 0 && frame.Bounds().Dx() > config.DebugFrameWidth {
			frame = o.renderer.ResizeImage(frame, config.DebugFrameWidth, 0)
		}
		if err := o.sink.SaveRepairedFrame(fill.Index, string(fill.Kind), frame); err != nil {
			o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
			return
		}
	}
}

// outputFPS prefers the configured rate, then the input's.
func outputFPS(config Config, info ports.VideoInfo) float64 {
	if config.FPS > 0 {
		return config.FPS
	}
	return info.FPS
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	InputPath  string
	OutputPath string

	// Input stream as probed
	Info ports.VideoInfo

	// Repair pass
	Report repair.Report

	// Output
	Copied           bool // Input was copied unchanged
	OutputFrames     int
	OutputDurationMs int
	OutputFileSize   int64
}
