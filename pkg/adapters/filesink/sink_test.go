package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/vrkit/pkg/mocks"
	"github.com/user/vrkit/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func pngRenderer() *mocks.Renderer {
	return &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			if format != ports.FormatPNG {
				return nil, errors.New("unexpected format")
			}
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil // PNG header
		},
	}
}

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveReportJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	data := []byte(`{"total_frames": 10}`)
	if err := sink.SaveReportJSON(data); err != nil {
		t.Fatalf("SaveReportJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "report.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveTimeline(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer())

	img := image.NewRGBA(image.Rect(0, 0, 100, 20))
	if err := sink.SaveTimeline(img); err != nil {
		t.Fatalf("SaveTimeline failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "timeline.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestSink_SaveRepairedFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer())

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if err := sink.SaveRepairedFrame(5, "interpolated", img); err != nil {
		t.Fatalf("SaveRepairedFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "interpolated-0005.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestSink_EncodeError(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.SaveTimeline(image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected error from SaveTimeline")
	}
	if len(fs.GetAllFiles()) != 0 {
		t.Error("no file should be written when encoding fails")
	}
}

func TestSink_MultipleRepairedFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer())

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 10; i++ {
		kind := "interpolated"
		if i%2 == 1 {
			kind = "copied"
		}
		if err := sink.SaveRepairedFrame(i, kind, img); err != nil {
			t.Fatalf("SaveRepairedFrame %d failed: %v", i, err)
		}
	}

	if count := len(fs.GetAllFiles()); count != 10 {
		t.Errorf("expected 10 files, got %d", count)
	}
}
