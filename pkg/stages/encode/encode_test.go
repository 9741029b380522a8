package encode

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/vrkit/pkg/adapters/logger"
	"github.com/user/vrkit/pkg/mocks"
	"github.com/user/vrkit/pkg/pipeline"
	"github.com/user/vrkit/pkg/ports"
)

func TestStage_Execute(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}

	stage := NewStage(mockEncoder, logger.NewNoop())

	frames := []ports.VideoFrame{
		{TimestampMs: 0, Image: image.NewRGBA(image.Rect(0, 0, 512, 640))},
		{TimestampMs: 100, Image: image.NewRGBA(image.Rect(0, 0, 512, 640))},
		{TimestampMs: 200, Image: image.NewRGBA(image.Rect(0, 0, 512, 640))},
	}

	input := pipeline.EncodeInput{
		Frames:  frames,
		Quality: 30,
		Bitrate: 1000,
		FPS:     10.0,
	}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mockEncoder.BeginCalled {
		t.Error("expected Begin to be called")
	}
	if !mockEncoder.EndCalled {
		t.Error("expected End to be called")
	}

	begin := mockEncoder.BeginCall
	if begin.Width != 512 || begin.Height != 640 || begin.FPS != 10.0 {
		t.Errorf("unexpected Begin arguments: %+v", begin)
	}
	if begin.Options.Quality != 30 || begin.Options.Bitrate != 1000 {
		t.Errorf("encoder options not passed through: %+v", begin.Options)
	}

	if len(mockEncoder.EncodeFrameCalls) != 3 {
		t.Errorf("expected 3 EncodeFrame calls, got %d", len(mockEncoder.EncodeFrameCalls))
	}

	// 3 frames at 10 fps
	if result.DurationMs != 300 {
		t.Errorf("expected duration 300, got %d", result.DurationMs)
	}
	if result.FrameCount != 3 {
		t.Errorf("expected FrameCount 3, got %d", result.FrameCount)
	}
	if len(result.VideoData) == 0 || result.FileSize != int64(len(result.VideoData)) {
		t.Error("expected video data and matching file size")
	}
}

func TestStage_Execute_SkipsMissingFrames(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}
	stage := NewStage(mockEncoder, logger.NewNoop())

	frames := []ports.VideoFrame{
		{TimestampMs: 0},
		{TimestampMs: 100, Image: image.NewRGBA(image.Rect(0, 0, 64, 48))},
		{TimestampMs: 200},
		{TimestampMs: 300, Image: image.NewRGBA(image.Rect(0, 0, 64, 48))},
	}

	result, err := stage.Execute(context.Background(), pipeline.EncodeInput{Frames: frames})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mockEncoder.BeginCall.Width != 64 || mockEncoder.BeginCall.Height != 48 {
		t.Errorf("size should come from the first present frame, got %+v", mockEncoder.BeginCall)
	}
	if mockEncoder.BeginCall.FPS != defaultFPS {
		t.Errorf("expected default fps, got %v", mockEncoder.BeginCall.FPS)
	}

	expectedTimestamps := []int{100, 300}
	if len(mockEncoder.EncodeFrameCalls) != len(expectedTimestamps) {
		t.Fatalf("expected %d EncodeFrame calls, got %d", len(expectedTimestamps), len(mockEncoder.EncodeFrameCalls))
	}
	for i, call := range mockEncoder.EncodeFrameCalls {
		if call.TimestampMs != expectedTimestamps[i] {
			t.Errorf("call %d: expected timestamp %d, got %d", i, expectedTimestamps[i], call.TimestampMs)
		}
	}
	if result.FrameCount != 2 {
		t.Errorf("expected FrameCount 2, got %d", result.FrameCount)
	}
}

func TestStage_Execute_EmptyFrames(t *testing.T) {
	tests := []struct {
		name   string
		frames []ports.VideoFrame
	}{
		{"no frames", nil},
		{"only missing frames", []ports.VideoFrame{{TimestampMs: 0}, {TimestampMs: 33}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEncoder := &mocks.VideoEncoder{}
			stage := NewStage(mockEncoder, logger.NewNoop())

			_, err := stage.Execute(context.Background(), pipeline.EncodeInput{Frames: tt.frames})
			if !errors.Is(err, ErrNoFrames) {
				t.Errorf("expected ErrNoFrames, got %v", err)
			}
			if mockEncoder.BeginCalled {
				t.Error("encoder should not start without frames")
			}
		})
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}

	stage := NewStage(mockEncoder, logger.NewNoop())

	frames := []ports.VideoFrame{
		{TimestampMs: 0, Image: image.NewRGBA(image.Rect(0, 0, 512, 640))},
		{TimestampMs: 100, Image: image.NewRGBA(image.Rect(0, 0, 512, 640))},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := stage.Execute(ctx, pipeline.EncodeInput{Frames: frames})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !mockEncoder.AbortCalled {
		t.Error("encoder should be aborted when the context is cancelled")
	}
}

func TestStage_Execute_EncoderErrors(t *testing.T) {
	boom := errors.New("boom")
	frames := []ports.VideoFrame{{TimestampMs: 0, Image: image.NewRGBA(image.Rect(0, 0, 8, 8))}}

	tests := []struct {
		name      string
		encoder   *mocks.VideoEncoder
		wantAbort bool
	}{
		{"begin", &mocks.VideoEncoder{BeginFunc: func(int, int, float64, ports.EncoderOptions) error { return boom }}, false},
		{"frame", &mocks.VideoEncoder{EncodeFrameFunc: func(image.Image, int) error { return boom }}, true},
		{"end", &mocks.VideoEncoder{EndFunc: func() ([]byte, error) { return nil, boom }}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := NewStage(tt.encoder, logger.NewNoop())
			if _, err := stage.Execute(context.Background(), pipeline.EncodeInput{Frames: frames}); !errors.Is(err, boom) {
				t.Errorf("expected wrapped encoder error, got %v", err)
			}
			if tt.encoder.AbortCalled != tt.wantAbort {
				t.Errorf("AbortCalled = %v, want %v", tt.encoder.AbortCalled, tt.wantAbort)
			}
		})
	}
}

func TestStage_Execute_ReleasesEncoder(t *testing.T) {
	mockEncoder := &mocks.VideoEncoder{}
	stage := NewStage(mockEncoder, logger.NewNoop())

	frames := []ports.VideoFrame{{TimestampMs: 0, Image: image.NewRGBA(image.Rect(0, 0, 8, 8))}}
	if _, err := stage.Execute(context.Background(), pipeline.EncodeInput{Frames: frames}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mockEncoder.EndCalled {
		t.Error("End should be called on success")
	}
	if mockEncoder.AbortCalled {
		t.Error("Abort should not be called after End")
	}
}
