package h264decoder

import (
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vrkit/pkg/adapters/codecdetect"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = codecdetect.ErrNoVideoTrack

// ErrUnsupportedCodec is returned for video tracks that are not H.264.
var ErrUnsupportedCodec = errors.New("h264decoder: unsupported codec")

// sample is one coded picture in decode order. timestampMs is its
// presentation time. data is nil when the sample could not be read or is
// not well-formed AVCC.
type sample struct {
	data        []byte
	timestampMs int
	durationMs  int
	keyframe    bool
}

// track holds everything needed to decode the video track.
type track struct {
	width   int
	height  int
	spsPPS  []byte
	samples []sample
}

func readTrack(mp4File *mp4.File, reader io.ReadSeeker) (*track, error) {
	trak, err := codecdetect.VideoTrack(mp4File)
	if err != nil {
		return nil, err
	}

	vse := codecdetect.SampleEntry(trak)
	if vse == nil || vse.AvcC == nil {
		return nil, ErrUnsupportedCodec
	}

	t := &track{
		width:  int(vse.Width),
		height: int(vse.Height),
		spsPPS: parameterSets(vse.AvcC),
	}
	timescale := uint64(codecdetect.Timescale(trak))

	if mp4File.IsFragmented() {
		t.samples, err = fragmentedSamples(mp4File, trak.Tkhd.TrackID, timescale)
	} else {
		t.samples, err = progressiveSamples(trak, reader, timescale)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parameterSets returns SPS and PPS NAL units in Annex B form.
func parameterSets(avcC *mp4.AvcCBox) []byte {
	var out []byte
	for _, sps := range avcC.SPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, sps...)
	}
	for _, pps := range avcC.PPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, pps...)
	}
	return out
}

func progressiveSamples(trak *mp4.TrakBox, reader io.ReadSeeker, timescale uint64) ([]sample, error) {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return nil, fmt.Errorf("no sample table found")
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return nil, fmt.Errorf("no stsz box found")
	}
	sampleCount := stbl.Stsz.SampleNumber

	// No stss box means every sample is a sync sample.
	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, sampleNr := range stbl.Stss.SampleNumber {
			syncSamples[sampleNr] = true
		}
	}

	samples := make([]sample, 0, sampleCount)
	for sampleNr := uint32(1); sampleNr <= sampleCount; sampleNr++ {
		var decodeTime uint64
		var dur uint32
		if stbl.Stts != nil {
			decodeTime, dur = stbl.Stts.GetDecodeTime(sampleNr)
		}

		var offset int64
		if stbl.Ctts != nil {
			offset = int64(stbl.Ctts.GetCompositionTimeOffset(sampleNr))
		}

		s := sample{
			timestampMs: presentationMs(decodeTime, offset, timescale),
			durationMs:  int(uint64(dur) * 1000 / timescale),
			keyframe:    stbl.Stss == nil || syncSamples[sampleNr],
		}
		if raw, err := getSampleData(stbl, reader, sampleNr); err == nil {
			if annexB, ok := avccToAnnexB(raw); ok {
				s.data = annexB
			}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func fragmentedSamples(mp4File *mp4.File, trackID uint32, timescale uint64) ([]sample, error) {
	trex := codecdetect.Trex(mp4File, trackID)

	var samples []sample
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || frag.Moof.Traf == nil || frag.Moof.Traf.Tfhd.TrackID != trackID {
				continue
			}

			full, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("get samples: %w", err)
			}
			for _, fs := range full {
				s := sample{
					timestampMs: presentationMs(fs.DecodeTime, int64(fs.CompositionTimeOffset), timescale),
					durationMs:  int(uint64(fs.Dur) * 1000 / timescale),
					keyframe:    fs.IsSync(),
				}
				if annexB, ok := avccToAnnexB(fs.Data); ok {
					s.data = annexB
				}
				samples = append(samples, s)
			}
		}
	}
	return samples, nil
}

// presentationMs converts a decode time and composition offset in track
// ticks to milliseconds. Negative results clamp to zero.
func presentationMs(decodeTime uint64, offset int64, timescale uint64) int {
	pts := int64(decodeTime) + offset
	if pts < 0 {
		pts = 0
	}
	return int(uint64(pts) * 1000 / timescale)
}

// getSampleData reads sample data from a progressive MP4 file
func getSampleData(stbl *mp4.StblBox, reader io.ReadSeeker, sampleNr uint32) ([]byte, error) {
	if stbl.Stsc == nil || stbl.Stsz == nil {
		return nil, fmt.Errorf("missing stsc or stsz box")
	}

	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return nil, fmt.Errorf("get chunk nr: %w", err)
	}

	var chunkOffset uint64
	if stbl.Stco != nil {
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("get chunk offset: %w", err)
		}
	} else if stbl.Co64 != nil {
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk nr out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	} else {
		return nil, fmt.Errorf("no stco or co64 box")
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	sampleSize := stbl.Stsz.GetSampleSize(int(sampleNr))

	if _, err := reader.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to sample: %w", err)
	}

	data := make([]byte, sampleSize)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}

	return data, nil
}

// avccToAnnexB converts length-prefixed NAL units to start-code form.
// ok is false when a length runs past the end of the sample or trailing
// bytes remain, which marks the sample as damaged.
func avccToAnnexB(data []byte) (out []byte, ok bool) {
	if len(data) == 0 {
		return nil, false
	}

	offset := 0
	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4

		if naluLen == 0 || offset+naluLen > len(data) {
			return nil, false
		}

		out = append(out, 0, 0, 0, 1)
		out = append(out, data[offset:offset+naluLen]...)
		offset += naluLen
	}

	if offset != len(data) {
		return nil, false
	}
	return out, true
}
