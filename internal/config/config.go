// Package config loads and saves the burndown TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/burndown/internal/model"

	"github.com/BurntSushi/toml"
)

// DefaultPattern names each chart by its day number.
const DefaultPattern = "sprint_burndown_day%d.png"

// Config holds all burndown configuration.
type Config struct {
	Sprint     SprintConfig     `toml:"sprint"`
	Output     OutputConfig     `toml:"output"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// SprintConfig holds the sprint parameters and observed progress.
type SprintConfig struct {
	TotalDays  int         `toml:"total_days"`
	TotalTasks int         `toml:"total_tasks"`
	Snapshots  [][]float64 `toml:"snapshots,omitempty"`
}

// OutputConfig controls where and how chart images are written.
type OutputConfig struct {
	Dir     string `toml:"dir"`
	Pattern string `toml:"pattern"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`

	// Manifest keeps a SQLite record of rendered images so unchanged days
	// are not redrawn. Off by default: the images are then the only state.
	Manifest bool `toml:"manifest"`
}

// AppearanceConfig holds theme settings for terminal output.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration, which reproduces the
// built-in demonstration sprint.
func DefaultConfig() Config {
	s := model.DefaultSprint()
	return Config{
		Sprint: SprintConfig{
			TotalDays:  s.TotalDays,
			TotalTasks: s.TotalTasks,
			Snapshots:  s.Snapshots,
		},
		Output: OutputConfig{
			Dir:     ".",
			Pattern: DefaultPattern,
			Width:   800,
			Height:  500,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "burndown")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "burndown")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// Snapshots replace the defaults wholesale rather than merging by index.
	cfg.Sprint.Snapshots = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Sprint.Snapshots == nil {
		cfg.Sprint.Snapshots = defaultSnapshotsFor(cfg.Sprint.TotalDays, cfg.Sprint.TotalTasks)
	}
	cfg.Output.applyDefaults()
	if err := ValidatePattern(cfg.Output.Pattern); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating the parent directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// BuildSprint converts the sprint section into a validated model.Sprint.
func (c Config) BuildSprint() (model.Sprint, error) {
	s := model.Sprint{
		TotalDays:  c.Sprint.TotalDays,
		TotalTasks: c.Sprint.TotalTasks,
		Snapshots:  c.Sprint.Snapshots,
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid sprint in %s: %w", Path(), err)
	}
	return s, nil
}

// SetSprintSize changes the sprint parameters. Existing snapshots are kept
// when they still fit the new size, otherwise they are reset to the ideal line.
func (c *Config) SetSprintSize(totalDays, totalTasks int) {
	c.Sprint.TotalDays = totalDays
	c.Sprint.TotalTasks = totalTasks
	s := model.Sprint{TotalDays: totalDays, TotalTasks: totalTasks, Snapshots: c.Sprint.Snapshots}
	if s.Validate() != nil {
		c.Sprint.Snapshots = defaultSnapshotsFor(totalDays, totalTasks)
	}
}

func defaultSnapshotsFor(totalDays, totalTasks int) [][]float64 {
	def := model.DefaultSprint()
	if totalDays == def.TotalDays && totalTasks == def.TotalTasks {
		return def.Snapshots
	}
	if totalDays <= 0 {
		return nil
	}
	return model.LinearSnapshots(totalDays, totalTasks)
}

// ValidatePattern checks that an image name pattern formats exactly one day
// number. Width flags such as %02d are accepted, %% is a literal percent.
func ValidatePattern(pattern string) error {
	days := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		j := i + 1
		for j < len(pattern) && pattern[j] >= '0' && pattern[j] <= '9' {
			j++
		}
		if j >= len(pattern) {
			return fmt.Errorf("output pattern %q ends in an incomplete verb", pattern)
		}
		switch {
		case pattern[j] == '%' && j == i+1:
		case pattern[j] == 'd':
			days++
		default:
			return fmt.Errorf("output pattern %q: unsupported verb %q, only %%d is allowed", pattern, pattern[i:j+1])
		}
		i = j
	}
	if days != 1 {
		return fmt.Errorf("output pattern %q must contain exactly one %%d, found %d", pattern, days)
	}
	return nil
}

func (o *OutputConfig) applyDefaults() {
	def := DefaultConfig().Output
	if o.Dir == "" {
		o.Dir = def.Dir
	}
	if o.Pattern == "" {
		o.Pattern = def.Pattern
	}
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
}
