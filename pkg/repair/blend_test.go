package repair

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestBlend_Midpoint(t *testing.T) {
	out, err := Blend(uniformFrame(100), uniformFrame(200), 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 150 || out.Pix[i+1] != 150 || out.Pix[i+2] != 150 {
			t.Fatalf("pixel %d: expected 150, got %v", i/4, out.Pix[i:i+3])
		}
		if out.Pix[i+3] != 255 {
			t.Fatalf("pixel %d: expected opaque alpha, got %d", i/4, out.Pix[i+3])
		}
	}
}

func TestBlend_WeightExtremes(t *testing.T) {
	a, b := uniformFrame(10), uniformFrame(250)

	left, err := Blend(a, b, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left.Pix[0] != 10 {
		t.Errorf("weight 1: expected 10, got %d", left.Pix[0])
	}

	right, err := Blend(a, b, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if right.Pix[0] != 250 {
		t.Errorf("weight 0: expected 250, got %d", right.Pix[0])
	}
}

func TestBlend_SizeMismatch(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 2, 2))
	large := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if _, err := Blend(small, large, 0.5); !errors.Is(err, ErrFrameSizeMismatch) {
		t.Errorf("expected ErrFrameSizeMismatch, got %v", err)
	}
}

func TestBlend_ConvertsNonRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(10, 10, 14, 14))
	white := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			white.Set(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	out, err := Blend(gray, white, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("expected zero-origin bounds, got %v", out.Bounds())
	}
	if out.Pix[0] != 100 {
		t.Errorf("expected 100, got %d", out.Pix[0])
	}
}

func TestBlend_InvalidWeight(t *testing.T) {
	if _, err := Blend(uniformFrame(1), uniformFrame(2), 1.5); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions, got %v", err)
	}
}
