// Package decode implements the video decoding stage.
package decode

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"

	"github.com/user/vrkit/pkg/pipeline"
	"github.com/user/vrkit/pkg/ports"
)

// bytesPerPixel is the size of a decoded RGBA pixel.
const bytesPerPixel = 4

// Stage probes and decodes a video into a frame sequence.
type Stage struct {
	prober  ports.VideoProber
	decoder ports.VideoDecoder
	memory  ports.MemoryInfo
	logger  ports.Logger
}

// NewStage creates a new decode stage. memory may be nil to skip the
// headroom check.
func NewStage(prober ports.VideoProber, decoder ports.VideoDecoder, memory ports.MemoryInfo, logger ports.Logger) *Stage {
	return &Stage{
		prober:  prober,
		decoder: decoder,
		memory:  memory,
		logger:  logger.WithComponent("decode"),
	}
}

// Execute decodes every sample of the input's video track.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	s.logger.Debug(l10n.F("Probing %s", input.Path))
	info, err := s.prober.Probe(input.Path)
	if err != nil {
		return result, fmt.Errorf("probe: %w", err)
	}
	result.Info = info
	s.logger.Debug(l10n.F("Stream: %s %dx%d, %d samples, %.2f fps",
		info.Codec, info.Width, info.Height, info.SampleCount, info.FPS))

	s.checkMemory(info)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Debug(l10n.F("Decoding %d samples", info.SampleCount))
	frames, err := s.decoder.ReadFrames(ctx, input.Path)
	if err != nil {
		return result, fmt.Errorf("read frames: %w", err)
	}
	result.Frames = frames

	s.logger.Debug(l10n.F("Decoded %d frames, %d missing", len(frames), result.MissingCount()))
	return result, nil
}

// EstimateBytes returns the memory needed to hold every frame of info decoded.
func EstimateBytes(info ports.VideoInfo) uint64 {
	if info.Width <= 0 || info.Height <= 0 || info.SampleCount <= 0 {
		return 0
	}
	return uint64(info.Width) * uint64(info.Height) * bytesPerPixel * uint64(info.SampleCount)
}

func (s *Stage) checkMemory(info ports.VideoInfo) {
	if s.memory == nil {
		return
	}

	need := EstimateBytes(info)
	avail, err := s.memory.Available()
	if err != nil {
		s.logger.Debug(l10n.F("Could not read available memory: %s", err))
		return
	}
	if need > avail {
		s.logger.Warn(l10n.F("Decoding may need %s but only %s is available",
			humanize.IBytes(need), humanize.IBytes(avail)))
	}
}
