package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"roomwalk/internal/maze"
	"roomwalk/internal/sim"
)

func testdataPath(name string) string {
	_, f, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(f), "testdata", name)
}

func TestLoadFromPath_YAML(t *testing.T) {
	c, err := LoadFromPath(testdataPath("run.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	want := RunConfig{
		Trials:  5000,
		Workers: 3,
		Start:   "D",
		Outputs: []string{"mean", "counts"},
		Graph:   filepath.Join(filepath.Dir(testdataPath("run.yaml")), "../../maze/testdata/default.yaml"),
		Format:  "table",
	}
	if diff := cmp.Diff(want, *c); diff != "" {
		t.Errorf("config mismatch:\n%s", diff)
	}
	if _, err := maze.LoadGraph(c.Graph); err != nil {
		t.Errorf("graph path should resolve relative to the config file: %v", err)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	c, err := LoadFromPath(testdataPath("run.json"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if c.Trials != 42 || c.Start != "E" || c.Workers != 0 {
		t.Errorf("got %+v", c)
	}
}

func TestLoad_Detect(t *testing.T) {
	c, err := Load([]byte(`{"trials": 7}`), "")
	if err != nil || c.Trials != 7 {
		t.Errorf("detect JSON: %+v, %v", c, err)
	}
	c, err = Load([]byte("trials: 8\nstart: B\n"), "")
	if err != nil || c.Trials != 8 || c.Start != "B" {
		t.Errorf("detect YAML: %+v, %v", c, err)
	}
	if _, err := Load([]byte(`{"trails": 7}`), ".json"); err == nil {
		t.Error("expected unknown JSON field to be rejected")
	}
}

func TestOverlay(t *testing.T) {
	base := RunConfig{Trials: 10, Workers: 2, Start: "A", Outputs: []string{"mean"}, Format: "plain"}
	got := base.Overlay(RunConfig{Workers: 8, Outputs: []string{"raw"}})
	want := RunConfig{Trials: 10, Workers: 8, Start: "A", Outputs: []string{"raw"}, Format: "plain"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overlay mismatch:\n%s", diff)
	}
}

func TestDefaultWorkers_Env(t *testing.T) {
	t.Setenv(WorkersEnv, "5")
	if got := DefaultWorkers(); got != 5 {
		t.Errorf("DefaultWorkers = %d, want 5", got)
	}
	t.Setenv(WorkersEnv, "-2")
	if got := DefaultWorkers(); got != runtime.NumCPU() {
		t.Errorf("invalid env should fall back to NumCPU, got %d", got)
	}
}

func TestSimConfig(t *testing.T) {
	cfg, err := Defaults().SimConfig()
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	if cfg.Trials != DefaultTrials || cfg.Start != "A" || cfg.Outputs != sim.DefaultOutputs {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	bad := []RunConfig{
		{Trials: 0, Workers: 1, Outputs: []string{"mean"}},
		{Trials: -5, Workers: 1, Outputs: []string{"mean"}},
		{Trials: 1, Workers: 0, Outputs: []string{"mean"}},
		{Trials: 1, Workers: 1, Outputs: []string{"mode"}},
	}
	for _, c := range bad {
		if _, err := c.SimConfig(); !errors.Is(err, sim.ErrInvalidConfig) {
			t.Errorf("SimConfig(%+v): expected ErrInvalidConfig, got %v", c, err)
		}
	}
}
