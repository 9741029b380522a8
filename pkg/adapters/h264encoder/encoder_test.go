package h264encoder

import (
	"errors"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/user/vrkit/pkg/adapters/ffmpeg"
	"github.com/user/vrkit/pkg/ports"
)

// createTestImage creates a simple test image with gradient
func createTestImage(width, height int, frameNum int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a gradient that changes with frame number
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x*255/width + frameNum*10) % 256)
			g := uint8((y*255/height + frameNum*5) % 256)
			b := uint8((x + y + frameNum*3) % 256)
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return img
}

func requireFFmpeg(t testing.TB) {
	t.Helper()
	if !ffmpeg.IsAvailable() {
		t.Skip("ffmpeg not available")
	}
}

func TestEncoderBasic(t *testing.T) {
	requireFFmpeg(t)

	enc := New()

	width := 320
	height := 240
	fps := 30.0
	opts := ports.EncoderOptions{
		Quality: 25, // Medium quality
	}

	if err := enc.Begin(width, height, fps, opts); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	numFrames := 30
	for i := 0; i < numFrames; i++ {
		img := createTestImage(width, height, i)
		timestampMs := i * 1000 / int(fps)

		if err := enc.EncodeFrame(img, timestampMs); err != nil {
			t.Fatalf("EncodeFrame failed at frame %d: %v", i, err)
		}
	}

	if enc.FrameCount() != numFrames {
		t.Errorf("FrameCount() = %d, want %d", enc.FrameCount(), numFrames)
	}

	data, err := enc.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if len(data) < 8 {
		t.Fatal("Output too small")
	}

	// Check for 'ftyp' box
	if string(data[4:8]) != "ftyp" {
		t.Errorf("Expected ftyp box, got: %s", string(data[4:8]))
	}
}

func TestEncoderScalesMismatchedFrames(t *testing.T) {
	requireFFmpeg(t)

	enc := New()
	if err := enc.Begin(64, 48, 10, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if err := enc.EncodeFrame(createTestImage(128, 96, 0), 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	if err := enc.EncodeFrame(createTestImage(64, 48, 1), 100); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	if _, err := enc.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
}

func TestEncoderOddDimensions(t *testing.T) {
	requireFFmpeg(t)

	enc := New()
	if err := enc.Begin(63, 47, 15, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := enc.EncodeFrame(createTestImage(63, 47, 0), 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	if _, err := enc.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
}

func TestEncoderNoFrames(t *testing.T) {
	requireFFmpeg(t)

	enc := New()
	if err := enc.Begin(32, 32, 30, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := enc.End(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestEncoderAbort(t *testing.T) {
	requireFFmpeg(t)

	enc := New()
	if err := enc.Begin(32, 32, 30, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := enc.EncodeFrame(createTestImage(32, 32, 0), 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	tempPath := enc.tempPath

	enc.Abort()

	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Errorf("temp file %s should be removed, stat err = %v", tempPath, err)
	}
	if enc.cmd != nil {
		t.Error("ffmpeg command should be released")
	}
	if _, err := enc.End(); err != ErrNotInitialized {
		t.Errorf("End after Abort: expected ErrNotInitialized, got %v", err)
	}

	// The encoder can be reused.
	if err := enc.Begin(32, 32, 30, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin after Abort failed: %v", err)
	}
	if err := enc.EncodeFrame(createTestImage(32, 32, 1), 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	if _, err := enc.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
}

func TestEncoderNotInitialized(t *testing.T) {
	enc := New()

	img := createTestImage(100, 100, 0)
	if err := enc.EncodeFrame(img, 0); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got: %v", err)
	}

	if _, err := enc.End(); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got: %v", err)
	}

	// Abort without Begin is a no-op.
	enc.Abort()
}

func TestEncoderInvalidSize(t *testing.T) {
	enc := New()
	if err := enc.Begin(0, 10, 30, ports.EncoderOptions{}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestCRF(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{0, DefaultCRF},
		{-1, DefaultCRF},
		{64, DefaultCRF},
		{1, 0},
		{30, 24},
		{63, 51},
	}

	for _, tt := range tests {
		if got := crf(tt.quality); got != tt.want {
			t.Errorf("crf(%d) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestEncodeArgs(t *testing.T) {
	args := strings.Join(encodeArgs(320, 240, 29.97, ports.EncoderOptions{Quality: 63, Bitrate: 800}, "/tmp/out.mp4"), " ")

	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt rgba",
		"-s 320x240",
		"-r 29.970",
		"-c:v libx264",
		"-crf 51",
		"-b:v 800k",
		"-profile:v baseline",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if !strings.HasSuffix(args, "/tmp/out.mp4") {
		t.Errorf("output path must be last: %q", args)
	}

	noBitrate := strings.Join(encodeArgs(320, 240, 30, ports.EncoderOptions{}, "out.mp4"), " ")
	if strings.Contains(noBitrate, "-b:v") {
		t.Errorf("unexpected bitrate flag: %q", noBitrate)
	}
}

func BenchmarkEncode320x240(b *testing.B) {
	requireFFmpeg(b)

	enc := New()
	width, height := 320, 240

	if err := enc.Begin(width, height, 30.0, ports.EncoderOptions{Quality: 25}); err != nil {
		b.Fatalf("Begin failed: %v", err)
	}

	img := createTestImage(width, height, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := enc.EncodeFrame(img, i*33); err != nil {
			b.Fatalf("EncodeFrame failed: %v", err)
		}
	}
	b.StopTimer()

	enc.End()
}
