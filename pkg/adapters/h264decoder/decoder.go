// Package h264decoder decodes H.264 MP4 video into a sequence of frames.
// Decoding is done GOP by GOP through an external ffmpeg process; samples
// that yield no picture are kept in the sequence as missing frames.
package h264decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"sync"

	"github.com/user/vrkit/pkg/adapters/ffmpeg"
)

var (
	// ErrNotInitialized is returned when decoder methods are called before initialization.
	ErrNotInitialized = errors.New("h264decoder: decoder not initialized")

	// ErrDecodeFailed is returned when ffmpeg produces no picture for a GOP.
	ErrDecodeFailed = errors.New("h264decoder: decode failed")

	// ErrInvalidSize is returned when the stream geometry is unknown.
	ErrInvalidSize = errors.New("h264decoder: invalid frame size")
)

// gopDecoder turns one Annex B GOP into the pictures it yields, in order.
type gopDecoder interface {
	init() error
	decodeGOP(ctx context.Context, data []byte, width, height int) ([]*image.RGBA, error)
	close()
}

// Decoder decodes Annex B H.264 GOPs into RGBA pictures with ffmpeg.
type Decoder struct {
	mu          sync.Mutex
	ffmpegPath  string
	initialized bool
}

// New creates a new H.264 decoder.
func New() *Decoder {
	return &Decoder{}
}

// Init locates the ffmpeg binary.
func (d *Decoder) Init() error {
	return d.init()
}

func (d *Decoder) init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path, err := ffmpeg.Find()
	if err != nil {
		return err
	}
	d.ffmpegPath = path
	d.initialized = true
	return nil
}

// DecodeGOP decodes a GOP starting with a keyframe. Pictures ffmpeg could
// not reconstruct are simply absent from the result; a partial result is
// returned together with no error when ffmpeg exits abnormally after
// producing output. ffmpeg is killed when ctx is done.
func (d *Decoder) DecodeGOP(ctx context.Context, data []byte, width, height int) ([]*image.RGBA, error) {
	return d.decodeGOP(ctx, data, width, height)
}

func (d *Decoder) decodeGOP(ctx context.Context, data []byte, width, height int) ([]*image.RGBA, error) {
	d.mu.Lock()
	path := d.ffmpegPath
	initialized := d.initialized
	d.mu.Unlock()

	if !initialized {
		return nil, ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if len(data) == 0 {
		return nil, ErrDecodeFailed
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, decodeArgs(width, height)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pictures := splitRawFrames(stdout.Bytes(), width, height)
	if len(pictures) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %v\nstderr: %s", ErrDecodeFailed, runErr, stderr.String())
		}
		return nil, ErrDecodeFailed
	}
	return pictures, nil
}

func (d *Decoder) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialized = false
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	d.close()
}

func decodeArgs(width, height int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-err_detect", "ignore_err",
		"-f", "h264",
		"-i", "pipe:0",
		"-fps_mode", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", strconv.Itoa(width) + "x" + strconv.Itoa(height),
		"pipe:1",
	}
}

// splitRawFrames cuts packed RGBA output into pictures. A trailing partial
// picture is discarded.
func splitRawFrames(raw []byte, width, height int) []*image.RGBA {
	frameSize := width * height * 4
	if frameSize <= 0 {
		return nil
	}

	count := len(raw) / frameSize
	pictures := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		start := i * frameSize
		pictures = append(pictures, &image.RGBA{
			Pix:    raw[start : start+frameSize : start+frameSize],
			Stride: width * 4,
			Rect:   image.Rect(0, 0, width, height),
		})
	}
	return pictures
}
