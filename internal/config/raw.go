package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawProfile struct {
	Inherits           *string `yaml:"inherits"`
	WindowWidth        *int    `yaml:"window_width"`
	WindowHeight       *int    `yaml:"window_height"`
	MaxHorizontalStack *int    `yaml:"max_horizontal_stack"`
	MaxVerticalStack   *int    `yaml:"max_vertical_stack"`
	HorizontalSpacing  *int    `yaml:"horizontal_spacing"`
	VerticalSpacing    *int    `yaml:"vertical_spacing"`
}

type RawDiscoveryConfig struct {
	MaxAttempts       *int           `yaml:"max_attempts"`
	Interval          *time.Duration `yaml:"interval"`
	FollowDescendants *bool          `yaml:"follow_descendants"`
}

type RawArrangeConfig struct {
	Pacing *time.Duration `yaml:"pacing"`
}

type RawSpawnConfig struct {
	LaunchDelay      *time.Duration `yaml:"launch_delay"`
	ConfirmThreshold *int           `yaml:"confirm_threshold"`
}

type RawNotifyConfig struct {
	Enabled *bool `yaml:"enabled"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include        IncludeList           `yaml:"include"`
	LogLevel       *string               `yaml:"log_level"`
	DefaultProfile *string               `yaml:"default_profile"`
	Profiles       map[string]RawProfile `yaml:"profiles"`
	Discovery      *RawDiscoveryConfig   `yaml:"discovery"`
	Arrange        *RawArrangeConfig     `yaml:"arrange"`
	Spawn          *RawSpawnConfig       `yaml:"spawn"`
	Notify         *RawNotifyConfig      `yaml:"notify"`
	Logging        *RawLoggingConfig     `yaml:"logging"`
}

// merge overlays every field set in overlay onto c.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.DefaultProfile != nil {
		out.DefaultProfile = overlay.DefaultProfile
	}
	if overlay.Profiles != nil {
		merged := make(map[string]RawProfile, len(out.Profiles)+len(overlay.Profiles))
		for name, p := range out.Profiles {
			merged[name] = p
		}
		for name, p := range overlay.Profiles {
			merged[name] = mergeRawProfile(merged[name], p)
		}
		out.Profiles = merged
	}
	if overlay.Discovery != nil {
		base := RawDiscoveryConfig{}
		if out.Discovery != nil {
			base = *out.Discovery
		}
		mergePtr(&base.MaxAttempts, overlay.Discovery.MaxAttempts)
		mergePtr(&base.Interval, overlay.Discovery.Interval)
		mergePtr(&base.FollowDescendants, overlay.Discovery.FollowDescendants)
		out.Discovery = &base
	}
	if overlay.Arrange != nil {
		base := RawArrangeConfig{}
		if out.Arrange != nil {
			base = *out.Arrange
		}
		mergePtr(&base.Pacing, overlay.Arrange.Pacing)
		out.Arrange = &base
	}
	if overlay.Spawn != nil {
		base := RawSpawnConfig{}
		if out.Spawn != nil {
			base = *out.Spawn
		}
		mergePtr(&base.LaunchDelay, overlay.Spawn.LaunchDelay)
		mergePtr(&base.ConfirmThreshold, overlay.Spawn.ConfirmThreshold)
		out.Spawn = &base
	}
	if overlay.Notify != nil {
		base := RawNotifyConfig{}
		if out.Notify != nil {
			base = *out.Notify
		}
		mergePtr(&base.Enabled, overlay.Notify.Enabled)
		out.Notify = &base
	}
	if overlay.Logging != nil {
		base := RawLoggingConfig{}
		if out.Logging != nil {
			base = *out.Logging
		}
		mergePtr(&base.Enabled, overlay.Logging.Enabled)
		mergePtr(&base.Level, overlay.Logging.Level)
		mergePtr(&base.File, overlay.Logging.File)
		mergePtr(&base.MaxSizeMB, overlay.Logging.MaxSizeMB)
		mergePtr(&base.MaxFiles, overlay.Logging.MaxFiles)
		out.Logging = &base
	}

	return out
}

func mergeRawProfile(base RawProfile, overlay RawProfile) RawProfile {
	out := base
	mergePtr(&out.Inherits, overlay.Inherits)
	mergePtr(&out.WindowWidth, overlay.WindowWidth)
	mergePtr(&out.WindowHeight, overlay.WindowHeight)
	mergePtr(&out.MaxHorizontalStack, overlay.MaxHorizontalStack)
	mergePtr(&out.MaxVerticalStack, overlay.MaxVerticalStack)
	mergePtr(&out.HorizontalSpacing, overlay.HorizontalSpacing)
	mergePtr(&out.VerticalSpacing, overlay.VerticalSpacing)
	return out
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
