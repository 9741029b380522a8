package orchestrator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/vrkit/pkg/adapters/codecdetect"
	"github.com/user/vrkit/pkg/adapters/ffmpeg"
	"github.com/user/vrkit/pkg/adapters/filesink"
	"github.com/user/vrkit/pkg/adapters/ggrenderer"
	"github.com/user/vrkit/pkg/adapters/h264decoder"
	"github.com/user/vrkit/pkg/adapters/h264encoder"
	"github.com/user/vrkit/pkg/adapters/logger"
	"github.com/user/vrkit/pkg/adapters/osfilesystem"
	"github.com/user/vrkit/pkg/adapters/sysmem"
	"github.com/user/vrkit/pkg/ports"
	"github.com/user/vrkit/pkg/repair"
	"github.com/user/vrkit/pkg/stages/decode"
	"github.com/user/vrkit/pkg/stages/encode"
	stagerepair "github.com/user/vrkit/pkg/stages/repair"
)

// lossyDecoder decodes for real, then blanks the given positions to
// simulate pictures the decoder could not produce.
type lossyDecoder struct {
	*h264decoder.MP4Reader
	missing []int
}

func (d *lossyDecoder) ReadFrames(ctx context.Context, path string) ([]ports.VideoFrame, error) {
	frames, err := d.MP4Reader.ReadFrames(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, i := range d.missing {
		if i < len(frames) {
			frames[i].Image = nil
		}
	}
	return frames, nil
}

// writeInputVideo encodes n uniform frames at 10 fps into dir/in.mp4.
func writeInputVideo(t *testing.T, dir string, n int) string {
	t.Helper()

	enc := h264encoder.New()
	if err := enc.Begin(64, 48, 10, ports.EncoderOptions{Quality: 20}); err != nil {
		t.Fatalf("encoder Begin failed: %v", err)
	}
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 64, 48))
		v := uint8(i * 10)
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = v, v, v, 255
		}
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		if err := enc.EncodeFrame(img, i*100); err != nil {
			t.Fatalf("EncodeFrame failed: %v", err)
		}
	}
	data, err := enc.End()
	if err != nil {
		t.Fatalf("encoder End failed: %v", err)
	}

	path := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRealOrchestrator(debugDir string, missing []int) *Orchestrator {
	log := logger.NewNoop()
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	decoder := &lossyDecoder{MP4Reader: h264decoder.NewMP4Reader(), missing: missing}

	return New(
		decode.NewStage(codecdetect.NewProber(), decoder, sysmem.New(), log),
		stagerepair.NewStage(log),
		encode.NewStage(h264encoder.New(), log),
		fs,
		filesink.New(debugDir, fs, renderer),
		renderer,
		log,
	)
}

func TestIntegration_RepairVideo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !ffmpeg.IsAvailable() {
		t.Skip("ffmpeg not available")
	}

	tests := []struct {
		name         string
		missing      []int
		wantStrategy repair.Strategy
		wantFrames   int
		wantCopied   bool
	}{
		{"interpolate single gap", []int{5}, repair.StrategyInterpolate, 20, false},
		{"drop above threshold", []int{3, 4, 5}, repair.StrategyDrop, 17, false},
		{"clean input copied", nil, repair.StrategyNone, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeInputVideo(t, dir, 20)
			output := filepath.Join(dir, "out", "repaired.mp4")
			debugDir := filepath.Join(dir, "debug")

			config := DefaultConfig()
			config.InputPath = input
			config.OutputPath = output

			result, err := newRealOrchestrator(debugDir, tt.missing).Run(context.Background(), config)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if result.Report.Strategy != tt.wantStrategy {
				t.Errorf("Strategy = %s, want %s", result.Report.Strategy, tt.wantStrategy)
			}
			if result.Copied != tt.wantCopied {
				t.Errorf("Copied = %v, want %v", result.Copied, tt.wantCopied)
			}

			info, err := codecdetect.NewProber().Probe(output)
			if err != nil {
				t.Fatalf("probe output failed: %v", err)
			}
			if info.SampleCount != tt.wantFrames {
				t.Errorf("output samples = %d, want %d", info.SampleCount, tt.wantFrames)
			}
			if info.Width != 64 || info.Height != 48 {
				t.Errorf("output size = %dx%d, want 64x48", info.Width, info.Height)
			}

			if tt.wantCopied {
				in, _ := os.ReadFile(input)
				out, _ := os.ReadFile(output)
				if !bytes.Equal(in, out) {
					t.Error("clean input should be copied byte for byte")
				}
			}

			for _, name := range []string{"report.json", "timeline.png"} {
				if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
					t.Errorf("expected debug file %s: %v", name, err)
				}
			}
			if tt.wantStrategy == repair.StrategyInterpolate {
				if _, err := os.Stat(filepath.Join(debugDir, "frames", "interpolated-0005.png")); err != nil {
					t.Errorf("expected interpolated frame in debug output: %v", err)
				}
			}
		})
	}
}
