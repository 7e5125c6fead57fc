package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winarrange/internal/tiling"
)

// Profile is a named window size and grid shape.
type Profile struct {
	WindowWidth        int `yaml:"window_width"`
	WindowHeight       int `yaml:"window_height"`
	MaxHorizontalStack int `yaml:"max_horizontal_stack"`
	MaxVerticalStack   int `yaml:"max_vertical_stack"`
	HorizontalSpacing  int `yaml:"horizontal_spacing"`
	VerticalSpacing    int `yaml:"vertical_spacing"`
}

// Grid converts the profile into a tiling grid.
func (p Profile) Grid() tiling.Grid {
	return tiling.Grid{
		MaxHorizontal:     p.MaxHorizontalStack,
		MaxVertical:       p.MaxVerticalStack,
		HorizontalSpacing: p.HorizontalSpacing,
		VerticalSpacing:   p.VerticalSpacing,
		WindowWidth:       p.WindowWidth,
		WindowHeight:      p.WindowHeight,
	}
}

// DiscoveryConfig bounds how long a launched process is polled for a window.
type DiscoveryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	Interval          time.Duration `yaml:"interval"`
	FollowDescendants bool          `yaml:"follow_descendants"`
}

type ArrangeConfig struct {
	Pacing time.Duration `yaml:"pacing"`
}

type SpawnConfig struct {
	LaunchDelay time.Duration `yaml:"launch_delay"`
	// ConfirmThreshold is the count above which spawn asks for CONFIRM.
	ConfirmThreshold int `yaml:"confirm_threshold"`
}

type NotifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig configures the action log file.
type LoggingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

type Config struct {
	LogLevel       string             `yaml:"log_level"`
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
	Discovery      DiscoveryConfig    `yaml:"discovery"`
	Arrange        ArrangeConfig      `yaml:"arrange"`
	Spawn          SpawnConfig        `yaml:"spawn"`
	Notify         NotifyConfig       `yaml:"notify"`
	Logging        LoggingConfig      `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		DefaultProfile: DefaultBuiltinProfile,
		Profiles:       BuiltinProfiles(),
		Discovery: DiscoveryConfig{
			MaxAttempts:       20,
			Interval:          500 * time.Millisecond,
			FollowDescendants: true,
		},
		Arrange: ArrangeConfig{
			Pacing: 500 * time.Millisecond,
		},
		Spawn: SpawnConfig{
			LaunchDelay:      1500 * time.Millisecond,
			ConfirmThreshold: 20,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			File:      defaultActionLogPath(),
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

func defaultActionLogPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "winarrange", "actions.log")
	}
	return filepath.Join(os.TempDir(), "winarrange-actions.log")
}

// Profile returns the named profile. An empty name selects the default.
func (c *Config) Profile(name string) (Profile, error) {
	if strings.TrimSpace(name) == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if len(c.Profiles) == 0 {
		return &ValidationError{Path: "profiles", Err: fmt.Errorf("profiles must not be empty")}
	}
	if c.DefaultProfile == "" {
		return &ValidationError{Path: "default_profile", Err: fmt.Errorf("default_profile is required")}
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		return &ValidationError{Path: "default_profile", Err: fmt.Errorf("default_profile %q not found in profiles", c.DefaultProfile)}
	}
	for _, name := range sortedKeys(c.Profiles) {
		if err := c.Profiles[name].Grid().Validate(); err != nil {
			return &ValidationError{Path: "profiles." + name, Err: err}
		}
	}

	if c.Discovery.MaxAttempts < 1 {
		return &ValidationError{Path: "discovery.max_attempts", Err: fmt.Errorf("max_attempts must be >= 1")}
	}
	if c.Discovery.Interval < 0 {
		return &ValidationError{Path: "discovery.interval", Err: fmt.Errorf("interval must be >= 0")}
	}
	if c.Arrange.Pacing < 0 {
		return &ValidationError{Path: "arrange.pacing", Err: fmt.Errorf("pacing must be >= 0")}
	}
	if c.Spawn.LaunchDelay < 0 {
		return &ValidationError{Path: "spawn.launch_delay", Err: fmt.Errorf("launch_delay must be >= 0")}
	}
	if c.Spawn.ConfirmThreshold < 1 {
		return &ValidationError{Path: "spawn.confirm_threshold", Err: fmt.Errorf("confirm_threshold must be >= 1")}
	}

	if c.Logging.Enabled && strings.TrimSpace(c.Logging.File) == "" {
		return &ValidationError{Path: "logging.file", Err: fmt.Errorf("file is required when logging is enabled")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 1 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 1")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}
