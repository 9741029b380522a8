package mocks

import (
	"image"
	"sync"

	"github.com/user/vrkit/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	ReportJSON     []byte
	Timeline       image.Image
	RepairedFrames map[int]RepairedFrame
}

// RepairedFrame records a call to SaveRepairedFrame.
type RepairedFrame struct {
	Kind  string
	Image image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:        enabled,
		RepairedFrames: make(map[int]RepairedFrame),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveReportJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportJSON = data
	return nil
}

func (m *DebugSink) SaveTimeline(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timeline = img
	return nil
}

func (m *DebugSink) SaveRepairedFrame(index int, kind string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RepairedFrames[index] = RepairedFrame{Kind: kind, Image: img}
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
