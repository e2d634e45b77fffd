package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (*cli, error) {
	t.Helper()
	c := newCLI()
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	return c, root.ExecuteContext(context.Background())
}

func TestRootAcceptsResampleFlags(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "resampled")
	c, err := execute(t, "--fs", "50", "--input", in, "--output", out, "--duplicates", "mean")
	if err != nil {
		t.Fatalf("root with resample flags: %v", err)
	}
	if c.cfg.Resample.TargetHz != 50 || c.cfg.Storage.InputDir != in || c.cfg.Storage.OutputDir != out {
		t.Errorf("flags not applied: resample=%+v storage=%+v", c.cfg.Resample, c.cfg.Storage)
	}
	if c.cfg.Resample.Duplicates != "mean" {
		t.Errorf("duplicates = %q, want mean", c.cfg.Resample.Duplicates)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestResampleSubcommandFlags(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "resampled")
	c, err := execute(t, "resample", "--fs", "25", "--input", in, "--output", out)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if c.cfg.Resample.TargetHz != 25 || c.cfg.Storage.InputDir != in {
		t.Errorf("flags not applied: %+v %+v", c.cfg.Resample, c.cfg.Storage)
	}
}

func TestSubcommandFlagsKeepTheirOwnKeys(t *testing.T) {
	in := t.TempDir()
	c, err := execute(t, "plot", "--input", in, "--output", filepath.Join(t.TempDir(), "plots"))
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if c.cfg.Plot.InputDir != in {
		t.Errorf("plot.input_dir = %q, want %q", c.cfg.Plot.InputDir, in)
	}
	if c.cfg.Storage.InputDir != "." {
		t.Errorf("plot --input leaked into storage.input_dir = %q", c.cfg.Storage.InputDir)
	}
}

func TestRootRejectsBadRate(t *testing.T) {
	_, err := execute(t, "--fs", "1000", "--input", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "target_hz") {
		t.Errorf("err = %v, want target_hz validation error", err)
	}
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	c := newCLI()
	root := c.rootCmd()
	var buf bytes.Buffer
	root.SetArgs([]string{"config", "--log-level", "debug"})
	root.SetOut(&buf)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(buf.String(), "log_level: debug") || !strings.Contains(buf.String(), "target_hz: 100") {
		t.Errorf("config output:\n%s", buf.String())
	}
}
