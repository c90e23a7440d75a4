package tui

import (
	"testing"

	"github.com/theirongolddev/burndown/internal/config"
)

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValuesFrom(cfg)
	if vals.TotalDays != "5" || vals.TotalTasks != "10" {
		t.Fatalf("seeded values = %+v", vals)
	}

	vals.TotalDays = " 4 "
	vals.TotalTasks = "8"
	vals.OutputDir = ""
	vals.Theme = "tokyo-night"
	if err := vals.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Sprint.TotalDays != 4 || cfg.Sprint.TotalTasks != 8 {
		t.Fatalf("sprint = %+v", cfg.Sprint)
	}
	if cfg.Output.Dir != "." {
		t.Fatalf("empty output dir should fall back to '.', got %q", cfg.Output.Dir)
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("theme = %q", cfg.Appearance.Theme)
	}
	if _, err := cfg.BuildSprint(); err != nil {
		t.Fatalf("resized sprint invalid: %v", err)
	}
}

func TestSetupValuesApply_Rejects(t *testing.T) {
	for _, v := range []SetupValues{
		{TotalDays: "zero", TotalTasks: "10"},
		{TotalDays: "5", TotalTasks: "-1"},
		{TotalDays: "0", TotalTasks: "3"},
	} {
		cfg := config.DefaultConfig()
		if err := v.Apply(&cfg); err == nil {
			t.Errorf("Apply(%+v) succeeded, want error", v)
		}
	}
}

func TestNewSetupFormBuilds(t *testing.T) {
	vals := SetupValuesFrom(config.DefaultConfig())
	if NewSetupForm(&vals) == nil {
		t.Fatal("NewSetupForm returned nil")
	}
}
