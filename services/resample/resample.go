package resample

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"motion-resampler/models"
	"motion-resampler/utils"
)

const (
	// DefaultTargetHz is the sampling rate the classifier is trained at.
	DefaultTargetHz = 100.0
	// MaxTargetHz is the exclusive upper bound on the rate. Below it grid
	// points are more than 1 ms apart and stay distinct after rounding.
	MaxTargetHz = 1000.0
)

// DuplicatePolicy decides which value survives when several raw samples
// share one timestamp.
type DuplicatePolicy int

const (
	KeepLast DuplicatePolicy = iota
	KeepFirst
	Mean
)

var policyNames = map[DuplicatePolicy]string{
	KeepLast:  "keep-last",
	KeepFirst: "keep-first",
	Mean:      "mean",
}

func (p DuplicatePolicy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return "unknown"
}

// ParseDuplicatePolicy maps a config string to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	for p, n := range policyNames {
		if n == s {
			return p, nil
		}
	}
	return KeepLast, fmt.Errorf("unknown duplicate policy %q", s)
}

// Options controls Uniform.
type Options struct {
	TargetHz   float64
	Duplicates DuplicatePolicy
}

// Grid returns t0, t0+1/fs, t0+2/fs, ... for every point below t1.
// The point count is ceil((t1-t0)*fs) and point i is t0 + i*(1/fs).
func Grid(t0, t1, fs float64) []float64 {
	step := 1.0 / fs
	n := int(math.Ceil((t1 - t0) / step))
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + float64(i)*step
	}
	return out
}

// Uniform resamples a time-sorted recording onto a grid of spacing
// 1/TargetHz, starting at the first sample and stopping before the last.
// Each axis is linearly interpolated; output timestamps are rounded to
// the millisecond.
func Uniform(rec *models.Recording, opts Options) (*models.ResampledRecording, error) {
	fs := opts.TargetHz
	if fs == 0 {
		fs = DefaultTargetHz
	}
	if !(fs > 0) || fs >= MaxTargetHz {
		return nil, fmt.Errorf("resample %s: target rate must be in (0, %v) Hz, got %v", rec.Path, MaxTargetHz, fs)
	}
	if rec.Len() < 2 {
		return nil, &models.EmptyRecordingError{Path: rec.Path, Samples: rec.Len()}
	}
	if !rec.Sorted() {
		return nil, fmt.Errorf("resample %s: samples are not sorted by timestamp", rec.Path)
	}

	knots, collapsed := collapseDuplicates(rec.Samples, opts.Duplicates)
	if len(knots) < 2 {
		return nil, &models.EmptyRecordingError{Path: rec.Path, Samples: len(knots)}
	}

	k := &models.Recording{Path: rec.Path, Samples: knots}
	ts := k.Timestamps()
	xs, ys, zs := k.Axes()

	fx, err := NewLinearInterpolant(ts, xs)
	if err != nil {
		return nil, fmt.Errorf("resample %s: accX: %w", rec.Path, err)
	}
	fy, err := NewLinearInterpolant(ts, ys)
	if err != nil {
		return nil, fmt.Errorf("resample %s: accY: %w", rec.Path, err)
	}
	fz, err := NewLinearInterpolant(ts, zs)
	if err != nil {
		return nil, fmt.Errorf("resample %s: accZ: %w", rec.Path, err)
	}

	grid := Grid(ts[0], ts[len(ts)-1], fs)
	out := &models.ResampledRecording{
		Source:    rec.Path,
		Samples:   make([]models.ResampledSample, len(grid)),
		Collapsed: collapsed,
	}
	for i, t := range grid {
		out.Samples[i] = models.ResampledSample{
			Timestamp: utils.RoundToMillis(t),
			AccX:      fx.At(t),
			AccY:      fy.At(t),
			AccZ:      fz.At(t),
		}
	}

	out.RealizedDt, out.RealizedHz = RealizedRate(out.Samples)
	return out, nil
}

// RealizedRate returns the mean spacing of the samples' timestamps and its
// reciprocal. Both are zero when there are fewer than two samples.
func RealizedRate(samples []models.ResampledSample) (dt, hz float64) {
	if len(samples) < 2 {
		return 0, 0
	}
	diffs := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		diffs[i-1] = samples[i].Timestamp - samples[i-1].Timestamp
	}
	dt = stat.Mean(diffs, nil)
	if dt == 0 {
		return 0, 0
	}
	return dt, 1.0 / dt
}

// collapseDuplicates merges runs of equal timestamps in sorted samples and
// returns the merged slice and how many samples were dropped.
func collapseDuplicates(samples []models.RawSample, p DuplicatePolicy) ([]models.RawSample, int) {
	out := make([]models.RawSample, 0, len(samples))
	for i := 0; i < len(samples); {
		j := i + 1
		for j < len(samples) && samples[j].TimestampS == samples[i].TimestampS {
			j++
		}
		run := samples[i:j]
		switch {
		case len(run) == 1:
			out = append(out, run[0])
		case p == KeepFirst:
			out = append(out, run[0])
		case p == Mean:
			m := models.RawSample{TimestampS: run[0].TimestampS}
			for _, s := range run {
				m.AccX += s.AccX
				m.AccY += s.AccY
				m.AccZ += s.AccZ
			}
			n := float64(len(run))
			m.AccX /= n
			m.AccY /= n
			m.AccZ /= n
			out = append(out, m)
		default:
			out = append(out, run[len(run)-1])
		}
		i = j
	}
	return out, len(samples) - len(out)
}
