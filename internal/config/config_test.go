package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	workDir := t.TempDir()
	t.Setenv("STUDYTRACK_DATA", "")
	cfg, err := New(workDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	want := filepath.Join(workDir, StudyDir, "state", "curriculum.json")
	if cfg.DataPath != want {
		t.Fatalf("DataPath = %s, want %s", cfg.DataPath, want)
	}
	scale := cfg.Scale()
	if scale.Best != 1.0 || scale.Worst != 5.0 {
		t.Fatalf("default scale = %+v, want 1.0..5.0", scale)
	}
}

func TestNewEnvOverrides(t *testing.T) {
	workDir := t.TempDir()
	t.Setenv("STUDYTRACK_DATA", "data/progress.json")
	t.Setenv("STUDYTRACK_SCALE_BEST", "100")
	t.Setenv("STUDYTRACK_SCALE_WORST", "0")
	cfg, err := New(workDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	want := filepath.Join(workDir, "data", "progress.json")
	if cfg.DataPath != want {
		t.Fatalf("DataPath = %s, want %s", cfg.DataPath, want)
	}
	if scale := cfg.Scale(); scale.Best != 100 || scale.Worst != 0 {
		t.Fatalf("scale = %+v, want 100..0", scale)
	}
}

func TestNewRejectsDegenerateScale(t *testing.T) {
	t.Setenv("STUDYTRACK_SCALE_BEST", "3")
	t.Setenv("STUDYTRACK_SCALE_WORST", "3")
	if _, err := New(t.TempDir()); err == nil {
		t.Fatalf("equal scale bounds must fail")
	}
}

func TestInitStudyDir(t *testing.T) {
	workDir := t.TempDir()
	if err := InitStudyDir(workDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, dir := range []string{
		filepath.Join(workDir, StudyDir, "state"),
		filepath.Join(workDir, StudyDir, "logs"),
	} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
	}
	// Idempotent.
	if err := InitStudyDir(workDir); err != nil {
		t.Fatalf("second init: %v", err)
	}
}
