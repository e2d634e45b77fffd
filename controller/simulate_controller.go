package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"motion-resampler/models"
	"motion-resampler/services/ingest"
	"motion-resampler/utils"
	"motion-resampler/views"
)

// SimulateOptions controls how many synthetic recordings are generated.
type SimulateOptions struct {
	OutputDir string
	PerGroup  int
	Seconds   float64
	NominalHz float64
	JitterPct float64
	Seed      int64
}

// Simulate writes PerGroup synthetic raw recordings for every configured
// group, named after the group pattern with "*" replaced by an index.
// It returns the written paths.
func Simulate(cfg *utils.PipelineConfig, opts SimulateOptions) ([]string, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, &models.FileSystemError{Op: "mkdir", Path: opts.OutputDir, Err: err}
	}

	var written []string
	seed := opts.Seed
	for _, g := range cfg.Groups {
		if strings.Count(g.Pattern, "*") != 1 || strings.ContainsAny(g.Pattern, "?[\\") {
			return written, fmt.Errorf("group %s: cannot derive file names from pattern %q", g.Label, g.Pattern)
		}
		for i := 1; i <= opts.PerGroup; i++ {
			name := strings.Replace(g.Pattern, "*", strconv.Itoa(i), 1)
			path := filepath.Join(opts.OutputDir, name)
			rec := ingest.Simulate(path, ingest.SimConfig{
				NominalHz: opts.NominalHz,
				Seconds:   opts.Seconds,
				JitterPct: opts.JitterPct,
				Label:     models.Label(g.Label),
				Seed:      seed,
			})
			seed++

			if err := writeRawRecording(path, cfg.Storage.CSV.BufferSizeKB*1024, rec); err != nil {
				return written, err
			}
			utils.L().Info("simulated %s  (samples=%d, label=%s)", path, rec.Len(), g.Label)
			written = append(written, path)
		}
	}
	return written, nil
}

func writeRawRecording(path string, bufSize int, rec *models.Recording) (err error) {
	w, err := views.NewCSVWriter(path, bufSize, models.RawSample{}.CSVHeader())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	for i := range rec.Samples {
		if err := w.WriteRecord(&rec.Samples[i]); err != nil {
			return err
		}
	}
	return nil
}
