package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveReportJSON saves the repair report as JSON.
	SaveReportJSON(data []byte) error

	// SaveTimeline saves the gap timeline visualization.
	SaveTimeline(img image.Image) error

	// SaveRepairedFrame saves a frame synthesized by the repair pass.
	// kind describes how it was produced (e.g. "interpolated").
	SaveRepairedFrame(index int, kind string, img image.Image) error
}
