// Package encode implements the video encoding stage.
package encode

import (
	"context"
	"errors"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/vrkit/pkg/pipeline"
	"github.com/user/vrkit/pkg/ports"
)

// ErrNoFrames is returned when the input has no frame with an image.
var ErrNoFrames = errors.New("encode: no frames to encode")

// defaultFPS is used when the input carries no frame rate.
const defaultFPS = 30.0

// Stage encodes a frame sequence into an MP4 video.
type Stage struct {
	encoder ports.VideoEncoder
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.VideoEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute encodes every frame that has an image, in order. The output has
// a constant frame rate, so its duration follows the frame count.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	first := -1
	for i, f := range input.Frames {
		if !f.Missing() {
			first = i
			break
		}
	}
	if first < 0 {
		return result, ErrNoFrames
	}

	fps := input.FPS
	if fps <= 0 {
		fps = defaultFPS
	}

	bounds := input.Frames[first].Image.Bounds()
	opts := ports.EncoderOptions{
		Bitrate: input.Bitrate,
		Quality: input.Quality,
	}

	s.logger.Debug(l10n.F("Encoding %d frames at %.2f fps", len(input.Frames)-first, fps))
	if err := s.encoder.Begin(bounds.Dx(), bounds.Dy(), fps, opts); err != nil {
		return result, fmt.Errorf("begin encoding: %w", err)
	}
	ended := false
	defer func() {
		if !ended {
			s.encoder.Abort()
		}
	}()

	count := 0
	for _, frame := range input.Frames[first:] {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if frame.Missing() {
			continue
		}
		if err := s.encoder.EncodeFrame(frame.Image, frame.TimestampMs); err != nil {
			return result, fmt.Errorf("encode frame at %dms: %w", frame.TimestampMs, err)
		}
		count++
	}

	ended = true
	data, err := s.encoder.End()
	if err != nil {
		return result, fmt.Errorf("end encoding: %w", err)
	}
	s.logger.Debug(l10n.F("Video encoded: %d bytes", len(data)))

	result.VideoData = data
	result.FrameCount = count
	result.DurationMs = int(float64(count) * 1000 / fps)
	result.FileSize = int64(len(data))

	return result, nil
}
