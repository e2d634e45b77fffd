package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"motion-resampler/models"
	"motion-resampler/services/ingest"
	"motion-resampler/services/resample"
	"motion-resampler/utils"
	"motion-resampler/views"
)

// FileOutcome is the result of processing one input file. Err is nil on
// success.
type FileOutcome struct {
	Input      string
	Output     string
	Label      models.Label
	Samples    int // raw samples read
	Points     int // grid points written
	Collapsed  int
	RealizedDt float64
	RealizedHz float64
	Err        error
}

// OK reports whether the file was written.
func (o FileOutcome) OK() bool { return o.Err == nil }

// RunResult summarises one resampling run.
type RunResult struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	OutputDir string
	Outcomes  []FileOutcome
	Succeeded int
	Failed    int
}

// Failures returns the failed outcomes in processing order.
func (r *RunResult) Failures() []FileOutcome {
	var out []FileOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// ErrFailFast is returned by Run when pipeline.fail_fast stopped the run.
var ErrFailFast = errors.New("run stopped at first failing file")

// ResampleController runs discovery → read → sort → resample → label →
// write for every matching file, one file at a time.
type ResampleController struct {
	cfg  *utils.PipelineConfig
	opts resample.Options
}

// NewResampleController validates the resampling options in cfg.
func NewResampleController(cfg *utils.PipelineConfig) (*ResampleController, error) {
	policy, err := resample.ParseDuplicatePolicy(cfg.Resample.Duplicates)
	if err != nil {
		return nil, err
	}
	return &ResampleController{
		cfg:  cfg,
		opts: resample.Options{TargetHz: cfg.Resample.TargetHz, Duplicates: policy},
	}, nil
}

// Run processes every discovered file. Per-file failures are recorded in
// the result and do not stop the run unless fail_fast is set. The error
// return covers run-level problems only: output directory, discovery,
// cancellation, and ErrFailFast.
func (rc *ResampleController) Run(ctx context.Context) (*RunResult, error) {
	st := rc.cfg.Storage
	res := &RunResult{
		RunID:     uuid.NewString(),
		Started:   time.Now(),
		OutputDir: st.OutputDir,
	}
	defer func() { res.Finished = time.Now() }()

	if err := os.MkdirAll(st.OutputDir, 0755); err != nil {
		return res, &models.FileSystemError{Op: "mkdir", Path: st.OutputDir, Err: err}
	}

	groups, err := DiscoverFiles(st.InputDir, rc.cfg.Groups)
	if err != nil {
		return res, err
	}
	for _, g := range groups {
		utils.L().Info("found %d %s file(s)  (pattern=%s)", len(g.Files), g.Label, g.Pattern)
	}

	for _, g := range groups {
		for _, path := range g.Files {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			o := rc.processFile(path, g.Label)
			res.Outcomes = append(res.Outcomes, o)
			if o.OK() {
				res.Succeeded++
				continue
			}
			res.Failed++
			utils.L().Error("resample %s failed (%s): %v", path, models.Kind(o.Err), o.Err)
			if rc.cfg.Pipeline.FailFast {
				return res, errors.Join(ErrFailFast, o.Err)
			}
		}
	}

	utils.L().Info("resampling finished  run=%s  succeeded=%d  failed=%d  output=%s",
		res.RunID, res.Succeeded, res.Failed, st.OutputDir)
	return res, nil
}

// processFile runs the per-file pipeline. Nothing from the file is kept
// once its outcome is returned.
func (rc *ResampleController) processFile(path string, label models.Label) FileOutcome {
	o := FileOutcome{
		Input:  path,
		Output: filepath.Join(rc.cfg.Storage.OutputDir, models.ResampledName(filepath.Base(path))),
		Label:  label,
	}
	utils.L().Info("resampling %s", path)

	rec, err := ingest.ReadRawRecording(path)
	if err != nil {
		o.Err = err
		return o
	}
	o.Samples = rec.Len()
	rec.Sort()

	out, err := resample.Uniform(rec, rc.opts)
	if err != nil {
		o.Err = err
		return o
	}
	out.WithLabel(label)
	o.Points = len(out.Samples)
	o.Collapsed = out.Collapsed
	o.RealizedDt, o.RealizedHz = out.RealizedDt, out.RealizedHz

	if out.Collapsed > 0 {
		utils.L().Warn("  %s: merged %d sample(s) with duplicate timestamps (policy=%s)",
			path, out.Collapsed, rc.opts.Duplicates)
	}
	utils.L().Info("  real dt: %.6f s  |  real sampling rate: %.2f Hz", o.RealizedDt, o.RealizedHz)

	if err := writeResampled(o.Output, rc.cfg.Storage.CSV.BufferSizeKB*1024, out); err != nil {
		o.Err = err
		return o
	}
	utils.L().Info("  → saved as %s", o.Output)
	return o
}

// writeResampled writes out to path, removing the file again if any
// write fails.
func writeResampled(path string, bufSize int, out *models.ResampledRecording) (err error) {
	w, err := views.NewCSVWriter(path, bufSize, models.ResampledSample{}.CSVHeader())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	for i := range out.Samples {
		if err := w.WriteRecord(&out.Samples[i]); err != nil {
			return err
		}
	}
	return nil
}
