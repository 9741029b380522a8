package h264decoder

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vrkit/pkg/ports"
)

// MP4Reader reads and decodes H.264 frames from an MP4 file.
type MP4Reader struct {
	decoder gopDecoder
}

// NewMP4Reader creates a new MP4 reader.
func NewMP4Reader() *MP4Reader {
	return &MP4Reader{
		decoder: New(),
	}
}

// ReadFrames returns one frame per video sample in presentation order.
// Samples that could not be decoded come back with a nil Image and their
// original timestamp.
func (r *MP4Reader) ReadFrames(ctx context.Context, path string) ([]ports.VideoFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return r.ReadFramesFromReader(ctx, f)
}

// ReadFramesFromReader is ReadFrames for an already opened stream.
func (r *MP4Reader) ReadFramesFromReader(ctx context.Context, reader io.ReadSeeker) ([]ports.VideoFrame, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	t, err := readTrack(mp4File, reader)
	if err != nil {
		return nil, err
	}

	if err := r.decoder.init(); err != nil {
		return nil, fmt.Errorf("init decoder: %w", err)
	}
	defer r.decoder.close()

	pos := presentationOrder(t.samples)
	frames := make([]ports.VideoFrame, len(t.samples))
	for i, s := range t.samples {
		frames[pos[i]] = ports.VideoFrame{
			TimestampMs: s.timestampMs,
			Duration:    s.durationMs,
		}
	}

	for _, g := range groupGOPs(t.samples, t.spsPPS) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pictures, err := r.decoder.decodeGOP(ctx, g.data, t.width, t.height)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// The whole GOP stays missing.
			continue
		}
		// ffmpeg emits pictures in presentation order.
		for j, idx := range g.displayOrder(t.samples) {
			if j >= len(pictures) {
				break
			}
			frames[pos[idx]].Image = pictures[j]
		}
	}

	return frames, nil
}

// Close releases resources.
func (r *MP4Reader) Close() {
	if r.decoder != nil {
		r.decoder.close()
	}
}

// gop is a decodable run of samples starting at a keyframe. members are
// sample indexes in decode order.
type gop struct {
	data    []byte
	members []int
}

// displayOrder returns the members sorted by presentation time.
func (g gop) displayOrder(samples []sample) []int {
	order := slices.Clone(g.members)
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(samples[a].timestampMs, samples[b].timestampMs)
	})
	return order
}

// presentationOrder maps each sample index to its position when samples are
// sorted by presentation time. Equal timestamps keep decode order.
func presentationOrder(samples []sample) []int {
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(samples[a].timestampMs, samples[b].timestampMs)
	})

	pos := make([]int, len(samples))
	for p, i := range order {
		pos[i] = p
	}
	return pos
}

// groupGOPs splits samples at keyframes. Unreadable samples and samples
// before the first keyframe belong to no GOP.
func groupGOPs(samples []sample, spsPPS []byte) []gop {
	var gops []gop
	var current *gop

	for i, s := range samples {
		if s.data == nil {
			continue
		}
		if s.keyframe {
			gops = append(gops, gop{})
			current = &gops[len(gops)-1]
			current.data = append(current.data, spsPPS...)
		}
		if current == nil {
			continue
		}
		current.data = append(current.data, s.data...)
		current.members = append(current.members, i)
	}
	return gops
}

// Ensure MP4Reader implements ports.VideoDecoder
var _ ports.VideoDecoder = (*MP4Reader)(nil)
