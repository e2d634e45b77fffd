package controller

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"

	"motion-resampler/models"
	"motion-resampler/services/features"
	"motion-resampler/services/ingest"
	"motion-resampler/services/resample"
	"motion-resampler/utils"
	"motion-resampler/views"
)

// FeaturesController turns resampled recordings into one training table
// of windowed feature vectors.
type FeaturesController struct {
	cfg *utils.PipelineConfig
}

func NewFeaturesController(cfg *utils.PipelineConfig) *FeaturesController {
	return &FeaturesController{cfg: cfg}
}

// rateTolerance is the relative difference between a file's realized rate
// and resample.target_hz above which the file's own rate is used.
const rateTolerance = 0.01

// FeaturesResult summarises a feature extraction run.
type FeaturesResult struct {
	OutputFile string
	Outcomes   []FileOutcome // Points holds the number of windows, RealizedHz the file's rate
	Windows    int
}

// Run reads every *_resampled.csv in the input directory, in name order,
// and writes all windows to the configured output file.
func (fc *FeaturesController) Run(ctx context.Context) (res *FeaturesResult, err error) {
	fcfg := fc.cfg.Features
	res = &FeaturesResult{OutputFile: fcfg.OutputFile}

	entries, err := os.ReadDir(fcfg.InputDir)
	if err != nil {
		return res, &models.FileSystemError{Op: "readdir", Path: fcfg.InputDir, Err: err}
	}
	var files []string
	for _, e := range entries {
		if models.IsResampledName(e.Name()) && isRegularFile(fcfg.InputDir, e) {
			files = append(files, filepath.Join(fcfg.InputDir, e.Name()))
		}
	}
	sort.Strings(files)
	utils.L().Info("found %d resampled file(s) in %s", len(files), fcfg.InputDir)

	if dir := filepath.Dir(fcfg.OutputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return res, &models.FileSystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	w, err := views.NewCSVWriter(fcfg.OutputFile, fc.cfg.Storage.CSV.BufferSizeKB*1024, models.FeatureVector{}.CSVHeader())
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	fs := fc.cfg.Resample.TargetHz
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		o := FileOutcome{Input: path, Output: fcfg.OutputFile}

		samples, rerr := ingest.ReadResampled(path)
		if rerr != nil {
			o.Err = rerr
			utils.L().Error("features %s failed: %v", path, rerr)
			res.Outcomes = append(res.Outcomes, o)
			continue
		}
		o.Samples = len(samples)
		if len(samples) > 0 {
			o.Label = samples[0].Label
		}

		rate := fs
		o.RealizedDt, o.RealizedHz = resample.RealizedRate(samples)
		if o.RealizedHz > 0 && math.Abs(o.RealizedHz-fs)/fs > rateTolerance {
			utils.L().Warn("  %s: realized rate %.2f Hz differs from target_hz %.2f Hz, using %.2f Hz for band energies",
				path, o.RealizedHz, fs, o.RealizedHz)
			rate = o.RealizedHz
		}

		windows := features.Windows(models.SourceName(filepath.Base(path)), samples, rate, fcfg.WindowSize, fcfg.StepSize)
		if len(windows) == 0 {
			utils.L().Warn("  %s: %d sample(s), shorter than one %d-sample window", path, len(samples), fcfg.WindowSize)
		}
		for i := range windows {
			if err := w.WriteRecord(&windows[i]); err != nil {
				return res, err
			}
		}
		o.Points = len(windows)
		res.Windows += len(windows)
		res.Outcomes = append(res.Outcomes, o)
		utils.L().Info("extracted %d window(s) from %s", len(windows), path)
	}
	return res, nil
}
