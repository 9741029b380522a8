// Package h264encoder encodes RGBA frames into an H.264 MP4 by piping raw
// video into an external ffmpeg process running libx264.
package h264encoder

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/vrkit/pkg/adapters/ffmpeg"
	"github.com/user/vrkit/pkg/ports"
)

// DefaultCRF is used when no quality is given.
const DefaultCRF = 23

// Encoder implements ports.VideoEncoder on top of ffmpeg.
type Encoder struct {
	mu sync.Mutex

	width  int
	height int
	fps    float64
	opts   ports.EncoderOptions

	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	tempPath   string
	frameCount int
	canvas     *image.RGBA
}

// New creates a new H.264 encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin starts an ffmpeg process that reads width x height RGBA frames.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if fps <= 0 {
		fps = 30
	}

	ffmpegPath, err := ffmpeg.Find()
	if err != nil {
		return err
	}

	e.width = width
	e.height = height
	e.fps = fps
	e.opts = opts
	e.frameCount = 0
	e.stderr.Reset()
	e.canvas = image.NewRGBA(image.Rect(0, 0, width, height))

	tmpFile, err := os.CreateTemp("", "vrkit_encode_*.mp4")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	e.tempPath = tmpFile.Name()
	tmpFile.Close()

	e.cmd = exec.Command(ffmpegPath, encodeArgs(width, height, fps, opts, e.tempPath)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		e.cleanup()
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := e.cmd.Start(); err != nil {
		stdin.Close()
		e.cleanup()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	e.stdin = stdin

	return nil
}

// EncodeFrame writes one frame. Images of a different size are scaled to
// the size given to Begin.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	bounds := img.Bounds()
	if bounds.Dx() == e.width && bounds.Dy() == e.height {
		draw.Draw(e.canvas, e.canvas.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(e.canvas, e.canvas.Bounds(), img, bounds, draw.Src, nil)
	}

	if _, err := e.stdin.Write(e.canvas.Pix); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	e.frameCount++
	return nil
}

// End closes the input, waits for ffmpeg and returns the MP4 bytes.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return nil, ErrNotInitialized
	}
	defer e.cleanup()

	e.stdin.Close()
	e.stdin = nil

	waitErr := e.cmd.Wait()
	if e.frameCount == 0 {
		return nil, ErrNoFrames
	}
	if waitErr != nil {
		return nil, fmt.Errorf("%w: %v\nstderr: %s", ErrEncodingFailed, waitErr, e.stderr.String())
	}

	data, err := os.ReadFile(e.tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w", err)
	}
	return data, nil
}

// Abort kills ffmpeg, waits for it to exit and removes the partial output.
func (e *Encoder) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return
	}
	defer e.cleanup()

	e.stdin.Close()
	e.stdin = nil

	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
		e.cmd.Wait()
	}
}

// FrameCount returns the number of frames written since Begin.
func (e *Encoder) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}

func (e *Encoder) cleanup() {
	if e.tempPath != "" {
		os.Remove(e.tempPath)
		e.tempPath = ""
	}
	e.cmd = nil
	e.canvas = nil
}

// encodeArgs builds the ffmpeg command line. Quality uses a 0-63 scale
// mapped onto x264's CRF range; 0 means the default CRF.
func encodeArgs(width, height int, fps float64, opts ports.EncoderOptions, output string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", strconv.Itoa(width) + "x" + strconv.Itoa(height),
		"-r", strconv.FormatFloat(fps, 'f', 3, 64),
		"-i", "pipe:0",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-crf", strconv.Itoa(crf(opts.Quality)),
	}

	if opts.Bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(opts.Bitrate)+"k")
	}

	return append(args,
		"-profile:v", "baseline",
		"-movflags", "+faststart",
		output,
	)
}

func crf(quality int) int {
	if quality <= 0 || quality > 63 {
		return DefaultCRF
	}
	return quality * 51 / 63
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
