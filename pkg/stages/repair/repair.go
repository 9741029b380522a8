// Package repair implements the frame repair stage.
package repair

import (
	"context"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/vrkit/pkg/pipeline"
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
)

// Stage runs one repair pass over a decoded sequence.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new repair stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("repair"),
	}
}

// Execute fills or drops the missing frames of input.Frames.
func (s *Stage) Execute(ctx context.Context, input pipeline.RepairInput) (pipeline.RepairResult, error) {
	result := pipeline.RepairResult{}

	frames, report, err := repair.New(input.Options, s.logger).Repair(ctx, input.Frames)
	result.Report = report
	if err != nil {
		return result, fmt.Errorf("repair: %w", err)
	}
	result.Frames = frames

	s.logger.Info(l10n.F("Frames: %d, gaps: %d, strategy: %s",
		report.TotalFrames, report.MissingCount(), report.Strategy))
	if report.Strategy != repair.StrategyNone {
		s.logger.Info(l10n.F("Repair produced %d frames (%d interpolated, %d copied, %d dropped)",
			report.OutputFrames, report.Interpolated, report.Copied, report.Dropped))
	}

	return result, nil
}
