// Package features computes the windowed feature vector the on-device
// emergency-driving classifier consumes.
package features

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"motion-resampler/models"
)

const (
	DefaultWindowSize = 200 // 2 s at 100 Hz
	DefaultStepSize   = 100

	// Below this variance kurtosis is reported as 0.
	minVariance = 1e-12
)

// Extract computes the feature vector of one window sampled at fs Hz.
// window must not be empty.
func Extract(window []models.ResampledSample, fs float64) [models.NumFeatures]float64 {
	n := len(window)
	x, y, z, mag := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, s := range window {
		x[i], y[i], z[i] = s.AccX, s.AccY, s.AccZ
		mag[i] = math.Sqrt(s.AccX*s.AccX + s.AccY*s.AccY + s.AccZ*s.AccZ)
	}

	return [models.NumFeatures]float64{
		BandEnergy(y, fs, 15, 40),
		BandEnergy(y, fs, 5, 15),
		BandEnergy(mag, fs, 15, 40),
		BandEnergy(x, fs, 15, 40),
		BandEnergy(z, fs, 15, 40),
		Kurtosis(y),
		RMS(y),
		Energy(y),
		floats.Max(y),
		Percentile(y, 0.10),
	}
}

// Windows slides a window of size samples by step over samples and
// returns the feature vector of each full window.
func Windows(source string, samples []models.ResampledSample, fs float64, size, step int) []models.FeatureVector {
	if size <= 0 || step <= 0 {
		return nil
	}
	var out []models.FeatureVector
	for start := 0; start+size <= len(samples); start += step {
		w := samples[start : start+size]
		out = append(out, models.FeatureVector{
			Source:      source,
			Label:       w[0].Label,
			WindowStart: w[0].Timestamp,
			WindowEnd:   w[size-1].Timestamp,
			Values:      Extract(w, fs),
		})
	}
	return out
}

// Energy is the sum of squares.
func Energy(v []float64) float64 { return floats.Dot(v, v) }

// RMS is the root mean square.
func RMS(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return math.Sqrt(Energy(v) / float64(len(v)))
}

// Kurtosis is the excess kurtosis from population moments.
func Kurtosis(v []float64) float64 {
	n := float64(len(v))
	if n == 0 {
		return 0
	}
	mean := floats.Sum(v) / n
	var m2, m4 float64
	for _, x := range v {
		d2 := (x - mean) * (x - mean)
		m2 += d2
		m4 += d2 * d2
	}
	m2 /= n
	m4 /= n
	if m2 < minVariance {
		return 0
	}
	return m4/(m2*m2) - 3
}

// Percentile returns the sorted value at index int(p*(n-1)), without
// interpolation. v is not modified.
func Percentile(v []float64, p float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := slices.Clone(v)
	slices.Sort(s)
	return s[int(p*float64(len(s)-1))]
}

// BandEnergy sums Goertzel power over every integer frequency in [f1, f2] Hz.
func BandEnergy(v []float64, fs, f1, f2 float64) float64 {
	var total float64
	for f := int(f1); f <= int(f2); f++ {
		total += goertzel(v, fs, float64(f))
	}
	return total
}

// goertzel returns the power of the DFT bin nearest to freq.
func goertzel(v []float64, fs, freq float64) float64 {
	n := float64(len(v))
	k := math.Floor(0.5 + n*freq/fs)
	w := 2 * math.Pi * k / n
	coeff := 2 * math.Cos(w)

	var s1, s2 float64
	for _, x := range v {
		s := x + coeff*s1 - s2
		s2 = s1
		s1 = s
	}
	return s2*s2 + s1*s1 - coeff*s1*s2
}
