package pipeline

import (
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
)

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput names the video to decode.
type DecodeInput struct {
	Path string
}

// DecodeResult holds every sample of the video track as a frame.
// Frames that could not be decoded have a nil Image.
type DecodeResult struct {
	Frames []ports.VideoFrame
	Info   ports.VideoInfo
}

// MissingCount returns the number of frames without an image.
func (r DecodeResult) MissingCount() int {
	n := 0
	for _, f := range r.Frames {
		if f.Missing() {
			n++
		}
	}
	return n
}

// =============================================================================
// Repair Stage Types
// =============================================================================

// RepairInput contains the decoded sequence and the repair policy.
type RepairInput struct {
	Frames  []ports.VideoFrame
	Options repair.Options
}

// RepairResult contains the repaired sequence and what was done to it.
type RepairResult struct {
	Frames []ports.VideoFrame
	Report repair.Report
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains parameters for video encoding.
type EncodeInput struct {
	Frames  []ports.VideoFrame
	Quality int     // CRF: 0-63 (lower is higher quality)
	Bitrate int     // Target bitrate in kbps
	FPS     float64 // Frames per second
}

// DefaultEncodeInput returns EncodeInput with default values.
func DefaultEncodeInput() EncodeInput {
	return EncodeInput{
		Quality: 0,
		Bitrate: 0,
		FPS:     30.0,
	}
}

// EncodeResult contains the encoded video.
type EncodeResult struct {
	VideoData  []byte
	FrameCount int
	DurationMs int
	FileSize   int64
}
