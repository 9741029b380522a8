package mocks

import (
	"context"

	"github.com/user/vrkit/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder.
type VideoDecoder struct {
	ReadFramesFunc func(ctx context.Context, path string) ([]ports.VideoFrame, error)

	// Frames is returned when ReadFramesFunc is nil.
	Frames []ports.VideoFrame

	ReadFramesCalls []string
	CloseCalled     bool
}

func (m *VideoDecoder) ReadFrames(ctx context.Context, path string) ([]ports.VideoFrame, error) {
	m.ReadFramesCalls = append(m.ReadFramesCalls, path)
	if m.ReadFramesFunc != nil {
		return m.ReadFramesFunc(ctx, path)
	}
	return m.Frames, nil
}

func (m *VideoDecoder) Close() {
	m.CloseCalled = true
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)

// VideoProber is a mock implementation of ports.VideoProber.
type VideoProber struct {
	ProbeFunc func(path string) (ports.VideoInfo, error)

	// Info is returned when ProbeFunc is nil.
	Info ports.VideoInfo
}

func (m *VideoProber) Probe(path string) (ports.VideoInfo, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return m.Info, nil
}

var _ ports.VideoProber = (*VideoProber)(nil)

// MemoryInfo is a mock implementation of ports.MemoryInfo.
type MemoryInfo struct {
	Bytes uint64
	Err   error
}

func (m *MemoryInfo) Available() (uint64, error) {
	return m.Bytes, m.Err
}

var _ ports.MemoryInfo = (*MemoryInfo)(nil)
