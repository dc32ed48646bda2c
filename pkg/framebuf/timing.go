package framebuf

import (
	"sort"

	"golang.org/x/exp/constraints"

	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// MaxDurationMS is the longest inter-frame duration that is emitted
const MaxDurationMS = 65535

// Percentile of inter-frame gaps reported alongside the mean frame rate
const Percentile = 0.90

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// percentileIndex maps a fraction onto an ascending list of n values,
// rounding half up and staying inside the list.
func percentileIndex[T constraints.Integer](n T, p float64) T {
	return clamp(T(float64(n)*p+0.5), 0, n-1)
}

// Durations derives per-frame display times in milliseconds from capture
// timestamps. Each frame lasts until the next one, clamped to
// [0, MaxDurationMS]; the last frame repeats the previous duration. A
// single frame gets zero.
func Durations(timestamps []uint32) []int {
	if len(timestamps) == 0 {
		return nil
	}
	durations := make([]int, 0, len(timestamps))
	for i := 1; i < len(timestamps); i++ {
		delta := int64(timestamps[i]) - int64(timestamps[i-1])
		durations = append(durations, int(clamp(delta, 0, MaxDurationMS)))
	}
	if len(durations) == 0 {
		return []int{0}
	}
	return append(durations, durations[len(durations)-1])
}

// Stats summarizes the capture rate. The values are informational only.
type Stats struct {
	Frames          int
	ElapsedMS       int64
	AverageFPS      float64
	Percentile90FPS float64
}

// ComputeStats reports the mean frame rate over the whole capture and the
// rate sustained for 90% of frames, taken from the ascending-sorted list
// of raw gaps. Undefined rates (no elapsed time, a zero gap) are 0.
func ComputeStats(timestamps []uint32) (Stats, error) {
	n := len(timestamps)
	if n == 0 {
		return Stats{}, perrors.ErrEmptyFrameSet
	}

	s := Stats{
		Frames:    n,
		ElapsedMS: int64(timestamps[n-1]) - int64(timestamps[0]),
	}
	if s.ElapsedMS > 0 {
		s.AverageFPS = float64(n) / (float64(s.ElapsedMS) / 1000.0)
	}

	gaps := make([]int64, 0, n-1)
	for i := 1; i < n; i++ {
		gaps = append(gaps, int64(timestamps[i])-int64(timestamps[i-1]))
	}
	if len(gaps) > 0 {
		sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
		if g := gaps[percentileIndex(len(gaps), Percentile)]; g > 0 {
			s.Percentile90FPS = 1000.0 / float64(g)
		}
	}

	return s, nil
}
