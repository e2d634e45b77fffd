package features

import (
	"math"
	"testing"

	"motion-resampler/models"
)

func TestScalarFeatures(t *testing.T) {
	v := []float64{3, -1, 4, 1, -5, 9, 2, 6}

	if got, want := Energy(v), 173.0; got != want {
		t.Errorf("Energy = %v, want %v", got, want)
	}
	if got, want := RMS(v), math.Sqrt(173.0/8); math.Abs(got-want) > 1e-12 {
		t.Errorf("RMS = %v, want %v", got, want)
	}
	// sorted: -5 -1 1 2 3 4 6 9; index int(0.1*7) = 0
	if got := Percentile(v, 0.10); got != -5 {
		t.Errorf("Percentile(0.10) = %v, want -5", got)
	}
	// index int(0.5*7) = 3
	if got := Percentile(v, 0.5); got != 2 {
		t.Errorf("Percentile(0.5) = %v, want 2", got)
	}
	if v[0] != 3 {
		t.Error("Percentile reordered its input")
	}
}

func TestKurtosis(t *testing.T) {
	// Two-point symmetric distribution has excess kurtosis -2.
	if got := Kurtosis([]float64{1, -1, 1, -1}); math.Abs(got+2) > 1e-12 {
		t.Errorf("Kurtosis(±1) = %v, want -2", got)
	}
	if got := Kurtosis([]float64{0.5, 0.5, 0.5}); got != 0 {
		t.Errorf("Kurtosis(constant) = %v, want 0", got)
	}
	if got := Kurtosis(nil); got != 0 {
		t.Errorf("Kurtosis(nil) = %v, want 0", got)
	}
}

func sine(n int, fs, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return out
}

func TestBandEnergySeparatesBands(t *testing.T) {
	fast := sine(200, 100, 25, 1)
	slow := sine(200, 100, 8, 1)

	if hi, lo := BandEnergy(fast, 100, 15, 40), BandEnergy(fast, 100, 5, 15); hi < 100*lo {
		t.Errorf("25 Hz tone: band 15-40 = %v, band 5-15 = %v; want high band dominant", hi, lo)
	}
	if hi, lo := BandEnergy(slow, 100, 15, 40), BandEnergy(slow, 100, 5, 15); lo < 100*hi {
		t.Errorf("8 Hz tone: band 15-40 = %v, band 5-15 = %v; want low band dominant", hi, lo)
	}
}

func TestGoertzelMatchesDFTPower(t *testing.T) {
	// A unit sine on an exact bin has DFT magnitude n/2.
	v := sine(200, 100, 20, 1)
	got := goertzel(v, 100, 20)
	want := math.Pow(200.0/2, 2)
	if math.Abs(got-want)/want > 1e-9 {
		t.Errorf("goertzel power = %v, want %v", got, want)
	}
}

func samplesFrom(y []float64, label models.Label) []models.ResampledSample {
	out := make([]models.ResampledSample, len(y))
	for i := range y {
		out[i] = models.ResampledSample{
			Timestamp: float64(i) / 100,
			AccX:      0.01,
			AccY:      y[i],
			AccZ:      1,
			Label:     label,
		}
	}
	return out
}

func TestExtractLayout(t *testing.T) {
	y := sine(200, 100, 25, 0.3)
	f := Extract(samplesFrom(y, models.LabelUdrykning), 100)

	if f[6] != RMS(y) || f[7] != Energy(y) {
		t.Errorf("rms/energy slots = %v/%v, want %v/%v", f[6], f[7], RMS(y), Energy(y))
	}
	if f[8] > 0.3+1e-12 || f[8] < 0.29 {
		t.Errorf("max slot = %v, want ~0.3", f[8])
	}
	if f[9] >= 0 {
		t.Errorf("p10 slot = %v, want negative", f[9])
	}
	if f[0] <= f[1] {
		t.Errorf("y band 15-40 (%v) should exceed 5-15 (%v) for a 25 Hz tone", f[0], f[1])
	}
}

func TestWindows(t *testing.T) {
	samples := samplesFrom(make([]float64, 450), models.LabelNormal)

	ws := Windows("Normal_kørsel1", samples, 100, 200, 100)
	// starts at 0, 100, 200; 300+200 > 450
	if len(ws) != 3 {
		t.Fatalf("got %d windows, want 3", len(ws))
	}
	if ws[1].WindowStart != 1.0 || ws[1].WindowEnd != 2.99 {
		t.Errorf("window 1 spans [%v, %v], want [1, 2.99]", ws[1].WindowStart, ws[1].WindowEnd)
	}
	for _, w := range ws {
		if w.Label != models.LabelNormal || w.Source != "Normal_kørsel1" {
			t.Errorf("window metadata = %q/%q", w.Source, w.Label)
		}
	}

	if got := Windows("short", samples[:150], 100, 200, 100); len(got) != 0 {
		t.Errorf("short recording produced %d windows, want 0", len(got))
	}
}
