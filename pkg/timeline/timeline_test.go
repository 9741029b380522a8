package timeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/vrkit/pkg/adapters/ggrenderer"
	"github.com/user/vrkit/pkg/mocks"
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
)

func sampleReport() repair.Report {
	return repair.Report{
		TotalFrames:  5,
		GapCount:     2,
		BoundaryGaps: 1,
		Strategy:     repair.StrategyInterpolate,
		Fills: []repair.Fill{
			{Index: 1, Kind: repair.FillInterpolated, Source: []int{0, 2}},
			{Index: 3, Kind: repair.FillCopied, Source: []int{2}},
			{Index: 4, Kind: repair.FillCopied, Source: []int{3}},
		},
	}
}

func sampleFrames(n int) []ports.VideoFrame {
	frames := make([]ports.VideoFrame, n)
	for i := range frames {
		frames[i] = ports.VideoFrame{Image: image.NewRGBA(image.Rect(0, 0, 64, 48)), TimestampMs: i * 33}
	}
	return frames
}

func TestStatuses(t *testing.T) {
	got := Statuses(sampleReport())
	want := []Status{StatusPresent, StatusInterpolated, StatusPresent, StatusCopied, StatusCopied}

	if len(got) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestStatuses_IgnoresOutOfRange(t *testing.T) {
	report := repair.Report{TotalFrames: 2, Fills: []repair.Fill{{Index: 7, Kind: repair.FillDropped}}}
	for i, s := range Statuses(report) {
		if s != StatusPresent {
			t.Errorf("position %d: expected present, got %d", i, s)
		}
	}
}

func TestRender_CellColors(t *testing.T) {
	theme := DefaultTheme()
	canvas := &mocks.Canvas{}
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			return canvas
		},
	}

	Render(renderer, sampleReport(), nil, theme)

	if len(canvas.Rects) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(canvas.Rects))
	}
	want := []color.Color{theme.Present, theme.Interpolated, theme.Present, theme.Copied, theme.Copied}
	for i, r := range canvas.Rects {
		if r.Color != want[i] {
			t.Errorf("cell %d: expected %v, got %v", i, want[i], r.Color)
		}
		if r.W != theme.MaxCellWidth {
			t.Errorf("cell %d: expected width %d, got %d", i, theme.MaxCellWidth, r.W)
		}
	}
	if len(canvas.Texts) != 1 {
		t.Errorf("expected one label, got %v", canvas.Texts)
	}
}

func TestRender_LabelFont(t *testing.T) {
	theme := DefaultTheme()
	theme.FontPath = "fonts/label.ttf"
	canvas := &mocks.Canvas{}
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas { return canvas },
	}

	Render(renderer, sampleReport(), nil, theme)

	if len(canvas.Styles) != 1 || canvas.Styles[0].FontPath != "fonts/label.ttf" {
		t.Errorf("expected label drawn with theme font, got %+v", canvas.Styles)
	}
}

func TestRender_Size(t *testing.T) {
	theme := DefaultTheme()
	r := ggrenderer.New()

	withThumbs := Render(r, sampleReport(), sampleFrames(5), theme)
	b := withThumbs.Bounds()
	if b.Dx() != 5*theme.MaxCellWidth {
		t.Errorf("expected width %d, got %d", 5*theme.MaxCellWidth, b.Dx())
	}
	if b.Dy() != theme.LabelHeight+theme.StripHeight+theme.ThumbHeight {
		t.Errorf("unexpected height %d", b.Dy())
	}

	// Dropped output is shorter than the input, so no thumbnails.
	dropped := repair.Report{
		TotalFrames: 5,
		Strategy:    repair.StrategyDrop,
		Fills:       []repair.Fill{{Index: 2, Kind: repair.FillDropped}},
	}
	noThumbs := Render(r, dropped, sampleFrames(4), theme)
	if noThumbs.Bounds().Dy() != theme.LabelHeight+theme.StripHeight {
		t.Errorf("unexpected height %d", noThumbs.Bounds().Dy())
	}
}

func TestRender_DroppedCellIsRed(t *testing.T) {
	theme := DefaultTheme()
	report := repair.Report{
		TotalFrames: 3,
		Strategy:    repair.StrategyDrop,
		Fills:       []repair.Fill{{Index: 1, Kind: repair.FillDropped}},
	}

	img := Render(ggrenderer.New(), report, nil, theme)

	x := theme.MaxCellWidth + theme.MaxCellWidth/2
	y := theme.LabelHeight + theme.StripHeight/2
	got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	if got != theme.Dropped {
		t.Errorf("expected dropped colour at (%d,%d), got %v", x, y, got)
	}
}

func TestStripGeometry(t *testing.T) {
	theme := DefaultTheme()

	tests := []struct {
		n         int
		wantWidth int
		wantCell  int
	}{
		{10, 80, 8},
		{400, 1600, 4},
		{5000, 1600, 1},
	}

	for _, tt := range tests {
		w, c := stripGeometry(tt.n, theme)
		if w != tt.wantWidth || c != tt.wantCell {
			t.Errorf("stripGeometry(%d) = (%d, %d), want (%d, %d)", tt.n, w, c, tt.wantWidth, tt.wantCell)
		}
	}
}

func TestWorstStatus(t *testing.T) {
	statuses := []Status{StatusPresent, StatusCopied, StatusPresent, StatusDropped}

	// Two positions per column
	if got := worstStatus(statuses, 0, 2); got != StatusCopied {
		t.Errorf("column 0: expected copied, got %d", got)
	}
	if got := worstStatus(statuses, 1, 2); got != StatusDropped {
		t.Errorf("column 1: expected dropped, got %d", got)
	}
}
