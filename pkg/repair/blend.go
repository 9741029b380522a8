package repair

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Blend returns the per-pixel weighted sum weight*a + (1-weight)*b.
// A weight of 0.5 yields the linear midpoint of the two frames.
func Blend(a, b image.Image, weight float64) (*image.RGBA, error) {
	if weight < 0 || weight > 1 {
		return nil, fmt.Errorf("%w: blend weight %.3f outside [0, 1]", ErrInvalidOptions, weight)
	}

	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrFrameSizeMismatch, ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	left := toRGBA(a)
	right := toRGBA(b)

	out := image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	inv := 1 - weight
	for i := range out.Pix {
		v := float64(left.Pix[i])*weight + float64(right.Pix[i])*inv
		out.Pix[i] = uint8(v + 0.5)
	}

	return out, nil
}

// toRGBA returns img as a zero-origin *image.RGBA with tightly packed rows,
// converting only when necessary.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
