// Package repair fills or removes the frames a video decode failed to produce.
//
// A pass inspects the whole decoded sequence once, decides between dropping
// every missing frame and interpolating each one from its neighbours, and
// returns a complete sequence together with a Report describing the decision.
package repair

import (
	"context"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/vrkit/pkg/ports"
)

const (
	// DefaultThreshold is the gap ratio above which frames are dropped.
	DefaultThreshold = 0.1
	// DefaultBlendWeight is the weight of the earlier neighbour in a blend.
	DefaultBlendWeight = 0.5
)

// Options configures a repair pass.
type Options struct {
	Threshold   float64 // Gap ratio above which the sequence is dropped instead of interpolated
	BlendWeight float64 // Weight of the earlier neighbour; the later one gets 1-BlendWeight
	Mode        Mode    // auto, drop or interpolate
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Threshold:   DefaultThreshold,
		BlendWeight: DefaultBlendWeight,
		Mode:        ModeAuto,
	}
}

// Validate checks that every option is within range.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %.3f outside [0, 1]", ErrInvalidOptions, o.Threshold)
	}
	if o.BlendWeight < 0 || o.BlendWeight > 1 {
		return fmt.Errorf("%w: blend weight %.3f outside [0, 1]", ErrInvalidOptions, o.BlendWeight)
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

// Report describes one repair pass.
// GapCount counts interior missing positions and BoundaryGaps the missing
// first and last positions. Forced is set when the strategy came from
// Options.Mode rather than the threshold.
type Report struct {
	TotalFrames  int      `json:"total_frames"`
	GapCount     int      `json:"gap_count"`
	BoundaryGaps int      `json:"boundary_gaps"`
	Strategy     Strategy `json:"strategy"`
	Forced       bool     `json:"forced"`
	Threshold    float64  `json:"threshold"`
	BlendWeight  float64  `json:"blend_weight"`
	OutputFrames int      `json:"output_frames"`
	Interpolated int      `json:"interpolated"`
	Copied       int      `json:"copied"`
	Dropped      int      `json:"dropped"`
	Fills        []Fill   `json:"fills,omitempty"`
}

// MissingCount returns the number of missing input positions.
func (r Report) MissingCount() int {
	return r.GapCount + r.BoundaryGaps
}

// Repairer runs repair passes with fixed options.
type Repairer struct {
	opts   Options
	logger ports.Logger
}

// New creates a Repairer. Options are validated on each pass.
func New(opts Options, logger ports.Logger) *Repairer {
	return &Repairer{
		opts:   opts,
		logger: logger.WithComponent("repair"),
	}
}

// Repair returns a sequence with no missing frames.
// The input slice is never modified.
func (r *Repairer) Repair(ctx context.Context, frames []ports.VideoFrame) ([]ports.VideoFrame, Report, error) {
	report := Report{
		TotalFrames: len(frames),
		Threshold:   r.opts.Threshold,
		BlendWeight: r.opts.BlendWeight,
	}

	if err := r.opts.Validate(); err != nil {
		return nil, report, err
	}
	if countPresent(frames) == 0 {
		return nil, report, ErrEmptySequence
	}

	gaps := DetectGaps(frames)
	boundary := DetectBoundaryGaps(frames)
	report.GapCount = len(gaps)
	report.BoundaryGaps = len(boundary)

	if report.MissingCount() == 0 {
		report.Strategy = StrategyNone
		report.OutputFrames = len(frames)
		r.logger.Debug(l10n.F("No missing frames in %d frames", len(frames)))
		return frames, report, nil
	}

	switch r.opts.Mode {
	case ModeDrop:
		report.Strategy = StrategyDrop
		report.Forced = true
	case ModeInterpolate:
		report.Strategy = StrategyInterpolate
		report.Forced = true
	default:
		report.Strategy = DecideStrategy(report.MissingCount(), len(frames), r.opts.Threshold)
	}

	r.logger.Debug(l10n.F("%d of %d frames missing (%d interior, %d boundary), strategy %s",
		report.MissingCount(), len(frames), report.GapCount, report.BoundaryGaps, report.Strategy))

	var (
		out   []ports.VideoFrame
		fills []Fill
		err   error
	)
	if report.Strategy == StrategyDrop {
		out, fills = ApplyDrop(frames)
	} else {
		out, fills, err = ApplyInterpolate(ctx, frames, gaps, r.opts.BlendWeight)
		if err != nil {
			return nil, report, err
		}
	}

	report.OutputFrames = len(out)
	report.Fills = fills
	for _, f := range fills {
		switch f.Kind {
		case FillInterpolated:
			report.Interpolated++
		case FillCopied:
			report.Copied++
		case FillDropped:
			report.Dropped++
		}
	}

	return out, report, nil
}
