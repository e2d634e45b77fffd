package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"motion-resampler/controller"
	"motion-resampler/models"
	"motion-resampler/utils"
)

// configKeyAnnotation marks a flag with the config key it overrides.
const configKeyAnnotation = "config_key"

// errFilesFailed marks a run that finished but left at least one file
// unprocessed. The summary has already been printed when it is returned.
var errFilesFailed = errors.New("one or more files failed")

type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     *utils.PipelineConfig
}

func newCLI() *cli {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix("RESAMPLER")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()
	return c
}

func main() {
	c := newCLI()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := c.rootCmd().ExecuteContext(ctx)
	stop()
	utils.L().Close()

	if err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "motion-resampler",
		Short: "Resample accelerometer CSV recordings onto a uniform time grid",
		Long: "motion-resampler reads raw accelerometer recordings, resamples them to a\n" +
			"fixed rate by linear interpolation, labels them by filename group and\n" +
			"writes one *_resampled.csv per input. Without a subcommand it runs resample.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runResample,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "path to resampler.yaml (defaults apply when empty)")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.String("log-file", "", "optional log file path (stdout is always included)")
	annotateFlags(pf, map[string]string{
		"log-level": "pipeline.log_level",
		"log-file":  "pipeline.log_file",
	})
	resampleFlags(root)

	root.AddCommand(c.resampleCmd(), c.plotCmd(), c.featuresCmd(), c.simulateCmd(), c.configCmd())
	return root
}

// setup binds the running command's flags, loads the file config, overlays
// flags and environment, and starts the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[configKeyAnnotation]; ok && bindErr == nil {
			bindErr = c.v.BindPFlag(keys[0], f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := utils.LoadPipelineConfig(c.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(c.v); err != nil {
		return fmt.Errorf("flags/environment: %w", err)
	}
	c.cfg = cfg
	utils.InitLogger(utils.ParseLevel(cfg.Pipeline.LogLevel), cfg.Pipeline.LogFile)
	return nil
}

func (c *cli) banner(what string) {
	utils.L().Info("═══════════════════════════════════════════════════")
	utils.L().Info("  motion-resampler  ·  %s", what)
	utils.L().Info("  GOMAXPROCS=%d  ·  PID=%d", runtime.GOMAXPROCS(0), os.Getpid())
	utils.L().Info("═══════════════════════════════════════════════════")
}

// ─── resample ───────────────────────────────────────────────────────────

func (c *cli) resampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resample",
		Short: "Resample every matching recording in the input directory",
		Args:  cobra.NoArgs,
		RunE:  c.runResample,
	}
	resampleFlags(cmd)
	return cmd
}

// resampleFlags registers the resample options on cmd. Root carries them
// too, so a bare invocation accepts the same flags as resample.
func resampleFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("input", ".", "directory scanned for raw recordings")
	f.String("output", "resampled", "directory receiving *_resampled.csv files")
	f.Float64("fs", 100, "target sampling rate in Hz")
	f.String("duplicates", "keep-last", "duplicate timestamp policy: keep-last, keep-first or mean")
	f.Bool("fail-fast", false, "stop at the first failing file")
	annotateFlags(f, map[string]string{
		"input":      "storage.input_dir",
		"output":     "storage.output_dir",
		"fs":         "resample.target_hz",
		"duplicates": "resample.duplicates",
		"fail-fast":  "pipeline.fail_fast",
	})
}

func (c *cli) runResample(cmd *cobra.Command, _ []string) error {
	c.banner(fmt.Sprintf("resample to %g Hz", c.cfg.Resample.TargetHz))

	rc, err := controller.NewResampleController(c.cfg)
	if err != nil {
		return err
	}
	res, err := rc.Run(cmd.Context())
	printSummary(res)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return errFilesFailed
	}
	fmt.Println("\n✓ resampling finished. Output at:", res.OutputDir)
	return nil
}

func printSummary(res *controller.RunResult) {
	if res == nil {
		return
	}
	fmt.Printf("\nrun %s: %d succeeded, %d failed (%s)\n",
		res.RunID, res.Succeeded, res.Failed, res.Finished.Sub(res.Started).Round(time.Millisecond))
	for _, o := range res.Outcomes {
		if o.OK() {
			fmt.Printf("  ok    %s -> %s  (%d points, %.2f Hz)\n", o.Input, o.Output, o.Points, o.RealizedHz)
		}
	}
	for _, o := range res.Failures() {
		fmt.Printf("  FAIL  %s  [%s] %v\n", o.Input, models.Kind(o.Err), o.Err)
	}
}

// ─── plot ───────────────────────────────────────────────────────────────

func (c *cli) plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render raw recordings of the selected groups as PNG line plots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.banner("plot " + strings.Join(c.cfg.Plot.Groups, ","))
			outcomes, err := controller.NewPlotController(c.cfg).Run(cmd.Context())
			failed := 0
			for _, o := range outcomes {
				if o.OK() {
					fmt.Printf("  ok    %s -> %s\n", o.Input, o.Output)
					continue
				}
				failed++
				fmt.Printf("  FAIL  %s  [%s] %v\n", o.Input, models.Kind(o.Err), o.Err)
			}
			if err != nil {
				return err
			}
			if failed > 0 {
				return errFilesFailed
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("input", ".", "directory scanned for raw recordings")
	f.String("output", "plots", "directory receiving PNG files")
	f.StringSlice("group", []string{"normal"}, "group labels to plot, or \"all\"")
	annotateFlags(f, map[string]string{
		"input":  "plot.input_dir",
		"output": "plot.output_dir",
		"group":  "plot.groups",
	})
	return cmd
}

// ─── features ───────────────────────────────────────────────────────────

func (c *cli) featuresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Extract windowed feature vectors from resampled recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.banner(fmt.Sprintf("features  window=%d step=%d", c.cfg.Features.WindowSize, c.cfg.Features.StepSize))
			res, err := controller.NewFeaturesController(c.cfg).Run(cmd.Context())
			if err != nil {
				return err
			}
			failed := 0
			for _, o := range res.Outcomes {
				if !o.OK() {
					failed++
					fmt.Printf("  FAIL  %s  [%s] %v\n", o.Input, models.Kind(o.Err), o.Err)
				}
			}
			fmt.Printf("\n%d window(s) from %d file(s) written to %s\n", res.Windows, len(res.Outcomes)-failed, res.OutputFile)
			if failed > 0 {
				return errFilesFailed
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("input", "resampled", "directory holding *_resampled.csv files")
	f.String("output", "features/features.csv", "combined feature CSV")
	f.Int("window", 200, "samples per window")
	f.Int("step", 100, "samples between window starts")
	annotateFlags(f, map[string]string{
		"input":  "features.input_dir",
		"output": "features.output_file",
		"window": "features.window_size",
		"step":   "features.step_size",
	})
	return cmd
}

// ─── simulate ───────────────────────────────────────────────────────────

func (c *cli) simulateCmd() *cobra.Command {
	var opts controller.SimulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write synthetic raw recordings named after each group pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.banner(fmt.Sprintf("simulate %d file(s) per group", opts.PerGroup))
			paths, err := controller.Simulate(c.cfg, opts)
			if err != nil {
				return err
			}
			fmt.Printf("\n✓ %d recording(s) written to %s\n", len(paths), opts.OutputDir)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.OutputDir, "output", ".", "directory receiving raw recordings")
	f.IntVar(&opts.PerGroup, "count", 2, "recordings per group")
	f.Float64Var(&opts.Seconds, "seconds", 30, "recording length in seconds")
	f.Float64Var(&opts.NominalHz, "hz", 100, "nominal device sampling rate")
	f.Float64Var(&opts.JitterPct, "jitter", 0.1, "max extra delay per sample, as a fraction of the period")
	f.Int64Var(&opts.Seed, "seed", 1, "random seed of the first recording")
	return cmd
}

// ─── config ─────────────────────────────────────────────────────────────

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.cfg.Dump()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// annotateFlags tags each named flag with the config key it overrides.
// setup binds only the flags of the command being run, so the same key may
// appear on several commands. Only flags the user passes override the file.
func annotateFlags(f *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := f.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
			panic(fmt.Sprintf("annotate --%s: %v", name, err))
		}
	}
}
