// internal/config/config.go
//
// This package handles configuration and the .studytrack directory
// structure. The dashboard keeps everything it owns in a .studytrack/ folder
// next to where it is launched: the state file, the session log, and the
// curriculum template for the first run.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/lbehrendt/studytrack/internal/curriculum"
)

// StudyDir is the name of the directory created next to the launch location.
const StudyDir = ".studytrack"

// envConfig is the full environment surface: the state file path and the
// grading scale bounds. Nothing else is env-configurable.
type envConfig struct {
	DataPath   string  `env:"STUDYTRACK_DATA"`
	ScaleBest  float64 `env:"STUDYTRACK_SCALE_BEST" envDefault:"1.0"`
	ScaleWorst float64 `env:"STUDYTRACK_SCALE_WORST" envDefault:"5.0"`
}

// Config holds the runtime configuration for studytrack.
type Config struct {
	// WorkDir is the directory the user ran `studytrack` from.
	WorkDir string

	// DataPath is the state file location, either the default inside
	// .studytrack/state/ or the STUDYTRACK_DATA override.
	DataPath string

	scale curriculum.Scale
}

// New reads the environment and resolves all paths relative to workDir.
func New(workDir string) (*Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	scale := curriculum.Scale{Best: ec.ScaleBest, Worst: ec.ScaleWorst}
	if err := scale.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := &Config{
		WorkDir:  workDir,
		DataPath: strings.TrimSpace(ec.DataPath),
		scale:    scale,
	}
	if cfg.DataPath == "" {
		cfg.DataPath = filepath.Join(cfg.StudyDirPath(), "state", "curriculum.json")
	} else if !filepath.IsAbs(cfg.DataPath) {
		cfg.DataPath = filepath.Clean(filepath.Join(workDir, cfg.DataPath))
	}
	return cfg, nil
}

// Scale returns the configured grading scale.
func (c *Config) Scale() curriculum.Scale {
	return c.scale
}

// StudyDirPath returns the path of the .studytrack directory.
func (c *Config) StudyDirPath() string {
	return filepath.Join(c.WorkDir, StudyDir)
}

// LogsDir returns the directory holding the session log.
func (c *Config) LogsDir() string {
	return filepath.Join(c.StudyDirPath(), "logs")
}

// LogPath returns the session log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// TemplatePath returns the location of the editable curriculum template.
func (c *Config) TemplatePath() string {
	return filepath.Join(c.StudyDirPath(), "template.yaml")
}

// InitStudyDir creates the .studytrack directory structure. Called once at
// startup, before anything touches the state file.
//
// Structure created:
// .studytrack/
// ├── state/          <- curriculum.json lives here
// ├── logs/           <- session.log
// └── template.yaml   <- written by the template package if absent
func InitStudyDir(workDir string) error {
	base := filepath.Join(workDir, StudyDir)
	for _, dir := range []string{
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return nil
}
