package repair

import "github.com/user/vrkit/pkg/ports"

// DetectGaps returns the ascending interior positions (1..N-2) holding a
// missing frame. Endpoints are never part of the gap index.
func DetectGaps(frames []ports.VideoFrame) []int {
	var gaps []int
	for i := 1; i < len(frames)-1; i++ {
		if frames[i].Missing() {
			gaps = append(gaps, i)
		}
	}
	return gaps
}

// DetectBoundaryGaps returns which of the first and last positions are missing.
func DetectBoundaryGaps(frames []ports.VideoFrame) []int {
	n := len(frames)
	if n == 0 {
		return nil
	}

	var gaps []int
	if frames[0].Missing() {
		gaps = append(gaps, 0)
	}
	if n > 1 && frames[n-1].Missing() {
		gaps = append(gaps, n-1)
	}
	return gaps
}

// countPresent returns the number of decoded frames.
func countPresent(frames []ports.VideoFrame) int {
	count := 0
	for _, f := range frames {
		if !f.Missing() {
			count++
		}
	}
	return count
}
