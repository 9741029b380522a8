package h264encoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before initialization.
	ErrNotInitialized = errors.New("h264encoder: encoder not initialized")

	// ErrEncodingFailed is returned when ffmpeg exits with an error.
	ErrEncodingFailed = errors.New("h264encoder: encoding failed")

	// ErrNoFrames is returned by End when no frame was written.
	ErrNoFrames = errors.New("h264encoder: no frames to encode")

	// ErrInvalidSize is returned by Begin for non-positive dimensions.
	ErrInvalidSize = errors.New("h264encoder: invalid frame size")
)
