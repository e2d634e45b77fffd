package ingest

import (
	"math"
	"math/rand"

	"motion-resampler/models"
	"motion-resampler/utils"
)

// SimConfig shapes a synthetic recording.
type SimConfig struct {
	NominalHz float64 // device clock before jitter
	Seconds   float64
	JitterPct float64 // max extra delay per sample, fraction of the period
	Label     models.Label
	Seed      int64
}

// Simulate produces an irregularly time-stamped recording that resembles
// the phone recorder's output: ~1 g on Z, slow road motion on X/Y, and for
// emergency runs an added 25 Hz vibration on Y. Timestamps start at 0 and
// are quantised to whole microseconds.
func Simulate(path string, cfg SimConfig) *models.Recording {
	if cfg.NominalHz <= 0 {
		cfg.NominalHz = 100
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	period := 1.0 / cfg.NominalHz

	rec := &models.Recording{Path: path}
	var t float64
	for t < cfg.Seconds {
		s := models.RawSample{
			TimestampS: math.Round(t*utils.MicrosPerSecond) / utils.MicrosPerSecond,
			AccX:       0.02*math.Sin(0.7*t) + rng.Float64()*0.005,
			AccY:       0.01*math.Cos(0.4*t) + rng.Float64()*0.005,
			AccZ:       1.0 + rng.Float64()*0.02,
		}
		if cfg.Label == models.LabelUdrykning {
			s.AccY += 0.15 * math.Sin(2*math.Pi*25*t)
		}
		rec.Samples = append(rec.Samples, s)
		t += period * (1 + rng.Float64()*cfg.JitterPct)
	}
	return rec
}
