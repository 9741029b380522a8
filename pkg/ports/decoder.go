// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"image"
)

// VideoFrame represents a decoded video frame with timing information.
// A nil Image marks a position where decoding failed to produce a picture.
type VideoFrame struct {
	Image       image.Image
	TimestampMs int
	Duration    int // Duration in milliseconds
}

// Missing reports whether the frame failed to decode.
func (f VideoFrame) Missing() bool {
	return f.Image == nil
}

// VideoInfo describes a video stream as read from the container headers.
type VideoInfo struct {
	Codec       string
	Width       int
	Height      int
	SampleCount int     // Number of samples in the video track
	DurationMs  int     // Track duration in milliseconds
	FPS         float64 // Average frame rate derived from sample count and duration
}

// VideoProber reads stream metadata without decoding any frames.
type VideoProber interface {
	// Probe inspects the container at path.
	Probe(path string) (VideoInfo, error)
}

// VideoDecoder abstracts video decoding operations.
type VideoDecoder interface {
	// ReadFrames reads and decodes all frames from a video file.
	// The result has one entry per sample in presentation order; samples that
	// could not be decoded are returned as missing frames. Decoding stops
	// with ctx's error once ctx is done.
	ReadFrames(ctx context.Context, path string) ([]VideoFrame, error)

	// Close releases decoder resources.
	Close()
}
