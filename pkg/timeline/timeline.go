// Package timeline draws a one-line overview of a repair pass: one cell per
// input position, coloured by what happened to it, with thumbnails of the
// first synthesized frames underneath.
package timeline

import (
	"fmt"
	"image"
	"image/color"

	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
)

// Status of one input position.
type Status int

const (
	StatusPresent Status = iota
	StatusCopied
	StatusInterpolated
	StatusDropped
)

// Theme holds the colours and geometry of the strip.
type Theme struct {
	Background   color.Color
	Present      color.Color
	Interpolated color.Color
	Copied       color.Color
	Dropped      color.Color
	Text         color.Color
	FontPath     string // TrueType font for the label; empty uses the built-in face
	MaxWidth     int
	MaxCellWidth int
	StripHeight  int
	LabelHeight  int
	ThumbHeight  int
	MaxThumbs    int
}

// DefaultTheme returns the standard colours: green present, blue
// interpolated, yellow copied and red dropped.
func DefaultTheme() Theme {
	return Theme{
		Background:   color.RGBA{R: 32, G: 32, B: 32, A: 255},
		Present:      color.RGBA{R: 46, G: 160, B: 67, A: 255},
		Interpolated: color.RGBA{R: 56, G: 132, B: 244, A: 255},
		Copied:       color.RGBA{R: 240, G: 200, B: 40, A: 255},
		Dropped:      color.RGBA{R: 218, G: 54, B: 51, A: 255},
		Text:         color.White,
		MaxWidth:     1600,
		MaxCellWidth: 8,
		StripHeight:  24,
		LabelHeight:  20,
		ThumbHeight:  72,
		MaxThumbs:    8,
	}
}

// Statuses expands a report into one status per input position.
func Statuses(report repair.Report) []Status {
	statuses := make([]Status, report.TotalFrames)
	for _, f := range report.Fills {
		if f.Index < 0 || f.Index >= len(statuses) {
			continue
		}
		switch f.Kind {
		case repair.FillInterpolated:
			statuses[f.Index] = StatusInterpolated
		case repair.FillCopied:
			statuses[f.Index] = StatusCopied
		case repair.FillDropped:
			statuses[f.Index] = StatusDropped
		}
	}
	return statuses
}

// Render draws the strip. frames is the repaired output; thumbnails are
// only drawn when it has the input's length, which is the case unless
// frames were dropped.
func Render(renderer ports.Renderer, report repair.Report, frames []ports.VideoFrame, theme Theme) image.Image {
	statuses := Statuses(report)

	width, cell := stripGeometry(len(statuses), theme)
	thumbs := thumbnailIndexes(report, frames, theme.MaxThumbs)

	height := theme.LabelHeight + theme.StripHeight
	if len(thumbs) > 0 {
		height += theme.ThumbHeight
	}

	canvas := renderer.CreateCanvas(width, height, theme.Background)

	label := fmt.Sprintf("%d frames, %d missing, %s", report.TotalFrames, report.MissingCount(), report.Strategy)
	canvas.DrawText(label, 4, theme.LabelHeight/2, ports.TextStyle{
		FontPath: theme.FontPath,
		FontSize: 12,
		Color:    theme.Text,
		Align:    ports.AlignLeft,
	})

	top := theme.LabelHeight
	for x := 0; x < width; x += cell {
		status := worstStatus(statuses, x, width)
		canvas.DrawRect(x, top, cell, theme.StripHeight, theme.colorOf(status))
	}
	canvas.DrawLine(0, top, width, top, theme.Text, 1)

	if len(thumbs) > 0 {
		drawThumbnails(canvas, frames, thumbs, top+theme.StripHeight, width, theme)
	}

	return canvas.ToImage()
}

// stripGeometry returns the strip width and the width of one cell.
func stripGeometry(n int, theme Theme) (width, cell int) {
	if n == 0 {
		return theme.MaxWidth / 4, theme.MaxWidth / 4
	}
	if n >= theme.MaxWidth {
		return theme.MaxWidth, 1
	}
	cell = theme.MaxWidth / n
	if cell > theme.MaxCellWidth {
		cell = theme.MaxCellWidth
	}
	return n * cell, cell
}

// worstStatus returns the most severe status among the positions that
// fall into pixel column x.
func worstStatus(statuses []Status, x, width int) Status {
	n := len(statuses)
	if n == 0 {
		return StatusPresent
	}
	from := x * n / width
	to := (x + 1) * n / width
	if to <= from {
		to = from + 1
	}
	worst := StatusPresent
	for i := from; i < to && i < n; i++ {
		if statuses[i] > worst {
			worst = statuses[i]
		}
	}
	return worst
}

func thumbnailIndexes(report repair.Report, frames []ports.VideoFrame, limit int) []int {
	if len(frames) != report.TotalFrames || limit <= 0 {
		return nil
	}
	var idx []int
	for _, f := range report.Fills {
		if f.Kind == repair.FillDropped || f.Index >= len(frames) || frames[f.Index].Missing() {
			continue
		}
		idx = append(idx, f.Index)
		if len(idx) == limit {
			break
		}
	}
	return idx
}

func drawThumbnails(canvas ports.Canvas, frames []ports.VideoFrame, idx []int, top, width int, theme Theme) {
	slot := width / len(idx)
	for i, frameIdx := range idx {
		img := frames[frameIdx].Image
		b := img.Bounds()
		h := theme.ThumbHeight - 4
		w := b.Dx() * h / max(1, b.Dy())
		if w > slot-4 {
			w = slot - 4
			h = b.Dy() * w / max(1, b.Dx())
		}
		if w <= 0 || h <= 0 {
			continue
		}
		canvas.DrawImageScaled(img, i*slot+2, top+2, w, h)
	}
}

func (t Theme) colorOf(s Status) color.Color {
	switch s {
	case StatusInterpolated:
		return t.Interpolated
	case StatusCopied:
		return t.Copied
	case StatusDropped:
		return t.Dropped
	default:
		return t.Present
	}
}
