package mocks

import (
	"image"

	"github.com/user/vrkit/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	BeginFunc       func(width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image, timestampMs int) error
	EndFunc         func() ([]byte, error)

	// Recorded calls for verification
	BeginCalled      bool
	BeginCall        BeginCall
	EncodeFrameCalls []EncodeFrameCall
	EndCalled        bool
	AbortCalled      bool
}

// BeginCall records the arguments of Begin.
type BeginCall struct {
	Width   int
	Height  int
	FPS     float64
	Options ports.EncoderOptions
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	Image       image.Image
	TimestampMs int
}

func (m *VideoEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	m.BeginCalled = true
	m.BeginCall = BeginCall{Width: width, Height: height, FPS: fps, Options: opts}
	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{Image: img, TimestampMs: timestampMs})
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img, timestampMs)
	}
	return nil
}

func (m *VideoEncoder) End() ([]byte, error) {
	m.EndCalled = true
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	// Minimal ftyp box header
	return []byte{0x00, 0x00, 0x00, 0x08, 'f', 't', 'y', 'p'}, nil
}

func (m *VideoEncoder) Abort() {
	m.AbortCalled = true
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
