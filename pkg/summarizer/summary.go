// Package summarizer provides summary generation for repair runs.
package summarizer

import (
	"time"

	"github.com/user/vrkit/pkg/orchestrator"
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
)

// Summary contains all data collected during a repair run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source video as probed
	Input InputInfo

	// Repair pass
	Repair RepairInfo

	// Encoding settings
	Settings Settings

	// Output video details
	Output OutputInfo
}

// InputInfo describes the source video.
type InputInfo struct {
	Path        string
	Codec       string
	Width       int
	Height      int
	SampleCount int
	DurationMs  int
	FPS         float64
}

// RepairInfo describes what the repair pass did.
type RepairInfo struct {
	TotalFrames  int
	GapCount     int
	BoundaryGaps int
	Strategy     string
	Forced       bool
	Threshold    float64
	BlendWeight  float64
	Interpolated int
	Copied       int
	Dropped      int
}

// Settings contains the encoding configuration.
type Settings struct {
	Quality int     // CRF: 0 selects the encoder default
	Bitrate int     // kbps, 0 for none
	FPS     float64 // 0 keeps the input frame rate
}

// OutputInfo contains information about the output video.
type OutputInfo struct {
	Path       string
	Copied     bool // Input was copied without re-encoding
	FrameCount int
	DurationMs int
	FileSize   int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets the source video information.
func (b *Builder) WithInput(path string, info ports.VideoInfo) *Builder {
	b.summary.Input = InputInfo{
		Path:        path,
		Codec:       info.Codec,
		Width:       info.Width,
		Height:      info.Height,
		SampleCount: info.SampleCount,
		DurationMs:  info.DurationMs,
		FPS:         info.FPS,
	}
	return b
}

// WithReport sets the repair information from a report.
func (b *Builder) WithReport(report repair.Report) *Builder {
	b.summary.Repair = RepairInfo{
		TotalFrames:  report.TotalFrames,
		GapCount:     report.GapCount,
		BoundaryGaps: report.BoundaryGaps,
		Strategy:     report.Strategy.String(),
		Forced:       report.Forced,
		Threshold:    report.Threshold,
		BlendWeight:  report.BlendWeight,
		Interpolated: report.Interpolated,
		Copied:       report.Copied,
		Dropped:      report.Dropped,
	}
	return b
}

// WithSettings sets encoding settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithOutput sets output video information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithRun fills input, repair and output sections from an orchestrator run.
func (b *Builder) WithRun(result orchestrator.RunResult) *Builder {
	return b.
		WithInput(result.InputPath, result.Info).
		WithReport(result.Report).
		WithOutput(OutputInfo{
			Path:       result.OutputPath,
			Copied:     result.Copied,
			FrameCount: result.OutputFrames,
			DurationMs: result.OutputDurationMs,
			FileSize:   result.OutputFileSize,
		})
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
