package codecdetect

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vrkit/pkg/ports"
)

// Prober implements ports.VideoProber for MP4 files.
type Prober struct{}

// NewProber creates a new Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Probe reads codec, geometry, sample count and timing from an MP4 file.
func (p *Prober) Probe(path string) (ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader is Probe for an already opened stream.
func ProbeReader(reader io.ReadSeeker) (ports.VideoInfo, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	trak, err := VideoTrack(mp4File)
	if err != nil {
		return ports.VideoInfo{}, err
	}

	info := ports.VideoInfo{Codec: string(codecOf(trak))}
	if vse := SampleEntry(trak); vse != nil {
		info.Width = int(vse.Width)
		info.Height = int(vse.Height)
	}

	timescale := uint64(Timescale(trak))
	var duration uint64
	if mp4File.IsFragmented() {
		info.SampleCount, duration, err = fragmentedTiming(mp4File, trak.Tkhd.TrackID)
		if err != nil {
			return ports.VideoInfo{}, err
		}
	} else {
		stbl := trak.Mdia.Minf.Stbl
		if stbl.Stsz != nil {
			info.SampleCount = int(stbl.Stsz.SampleNumber)
		}
		if trak.Mdia.Mdhd != nil {
			duration = trak.Mdia.Mdhd.Duration
		}
	}

	info.DurationMs = int(duration * 1000 / timescale)
	if info.DurationMs > 0 {
		info.FPS = float64(info.SampleCount) * 1000 / float64(info.DurationMs)
	}

	return info, nil
}

// fragmentedTiming sums sample counts and durations over every fragment.
func fragmentedTiming(mp4File *mp4.File, trackID uint32) (int, uint64, error) {
	trex := Trex(mp4File, trackID)

	var count int
	var duration uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return 0, 0, fmt.Errorf("get samples: %w", err)
			}
			for _, s := range samples {
				count++
				duration += uint64(s.Dur)
			}
		}
	}
	return count, duration, nil
}

// Trex returns the track extends box for trackID, or nil.
func Trex(mp4File *mp4.File, trackID uint32) *mp4.TrexBox {
	moov := Moov(mp4File)
	if moov == nil || moov.Mvex == nil {
		return nil
	}
	for _, t := range moov.Mvex.Trexs {
		if t.TrackID == trackID {
			return t
		}
	}
	return nil
}

// Ensure Prober implements ports.VideoProber
var _ ports.VideoProber = (*Prober)(nil)
