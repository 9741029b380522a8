package repair

import (
	"context"
	"sort"

	"github.com/user/vrkit/pkg/ports"
)

// FillKind describes how an output position was produced.
type FillKind string

const (
	FillInterpolated FillKind = "interpolated"
	FillCopied       FillKind = "copied"
	FillDropped      FillKind = "dropped"
)

// Fill records the treatment of one missing input position.
type Fill struct {
	Index  int      `json:"index"`
	Kind   FillKind `json:"kind"`
	Source []int    `json:"source,omitempty"` // Input positions the frame was built from
}

// ApplyDrop removes every missing frame, keeping the survivors in order.
func ApplyDrop(frames []ports.VideoFrame) ([]ports.VideoFrame, []Fill) {
	out := make([]ports.VideoFrame, 0, len(frames))
	var fills []Fill
	for i, f := range frames {
		if f.Missing() {
			fills = append(fills, Fill{Index: i, Kind: FillDropped})
			continue
		}
		out = append(out, f)
	}
	return out, fills
}

// ApplyInterpolate fills the positions in gaps left to right. Frames filled
// earlier in the pass serve as neighbours for later gaps. Any position still
// missing afterwards, boundaries included, takes the nearest present frame.
// The output has the same length as frames and no missing entries.
func ApplyInterpolate(ctx context.Context, frames []ports.VideoFrame, gaps []int, weight float64) ([]ports.VideoFrame, []Fill, error) {
	out := make([]ports.VideoFrame, len(frames))
	copy(out, frames)

	var fills []Fill
	for _, i := range gaps {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if i <= 0 || i >= len(out)-1 || !out[i].Missing() {
			continue
		}

		left, right := out[i-1], out[i+1]
		switch {
		case !left.Missing() && !right.Missing():
			img, err := Blend(left.Image, right.Image, weight)
			if err != nil {
				return nil, nil, err
			}
			out[i].Image = img
			fills = append(fills, Fill{Index: i, Kind: FillInterpolated, Source: []int{i - 1, i + 1}})
		case !left.Missing():
			out[i].Image = left.Image
			fills = append(fills, Fill{Index: i, Kind: FillCopied, Source: []int{i - 1}})
		case !right.Missing():
			out[i].Image = right.Image
			fills = append(fills, Fill{Index: i, Kind: FillCopied, Source: []int{i + 1}})
		}
	}

	// Frames copied in this pass never serve as a source.
	filled := make([]ports.VideoFrame, len(out))
	copy(filled, out)
	for i := range out {
		if !out[i].Missing() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		src := nearestPresent(filled, i)
		if src < 0 {
			return nil, nil, ErrUnresolvableGap
		}
		out[i].Image = out[src].Image
		fills = append(fills, Fill{Index: i, Kind: FillCopied, Source: []int{src}})
	}

	sort.Slice(fills, func(a, b int) bool { return fills[a].Index < fills[b].Index })
	return out, fills, nil
}

// nearestPresent returns the closest index to i holding a frame, preferring
// the earlier one on ties, or -1 when there is none.
func nearestPresent(frames []ports.VideoFrame, i int) int {
	for d := 1; i-d >= 0 || i+d < len(frames); d++ {
		if j := i - d; j >= 0 && !frames[j].Missing() {
			return j
		}
		if j := i + d; j < len(frames) && !frames[j].Missing() {
			return j
		}
	}
	return -1
}
