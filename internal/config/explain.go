package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	log_level
//	default_profile
//	profiles.<name>
//	profiles.<name>.window_width
//	discovery.max_attempts
//	arrange.pacing
//	spawn.confirm_threshold
//	notify.enabled
//	logging.file
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if name := profileNameFromPath(path); name != "" {
		return value, Source{Kind: SourceBuiltin, Name: res.ProfileBases[name]}, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func profileNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "profiles" {
		return ""
	}
	return parts[1]
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "profiles" {
		return lookupProfile(cfg, parts, path)
	}

	leaves := map[string]any{
		"log_level":                    cfg.LogLevel,
		"default_profile":              cfg.DefaultProfile,
		"discovery":                    cfg.Discovery,
		"discovery.max_attempts":       cfg.Discovery.MaxAttempts,
		"discovery.interval":           cfg.Discovery.Interval,
		"discovery.follow_descendants": cfg.Discovery.FollowDescendants,
		"arrange":                      cfg.Arrange,
		"arrange.pacing":               cfg.Arrange.Pacing,
		"spawn":                        cfg.Spawn,
		"spawn.launch_delay":           cfg.Spawn.LaunchDelay,
		"spawn.confirm_threshold":      cfg.Spawn.ConfirmThreshold,
		"notify":                       cfg.Notify,
		"notify.enabled":               cfg.Notify.Enabled,
		"logging":                      cfg.Logging,
		"logging.enabled":              cfg.Logging.Enabled,
		"logging.level":                cfg.Logging.Level,
		"logging.file":                 cfg.Logging.File,
		"logging.max_size_mb":          cfg.Logging.MaxSizeMB,
		"logging.max_files":            cfg.Logging.MaxFiles,
	}
	if v, ok := leaves[path]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

func lookupProfile(cfg *Config, parts []string, path string) (any, error) {
	if len(parts) == 1 {
		return cfg.Profiles, nil
	}
	p, ok := cfg.Profiles[parts[1]]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", parts[1])
	}
	if len(parts) == 2 {
		return p, nil
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[2] {
	case "window_width":
		return p.WindowWidth, nil
	case "window_height":
		return p.WindowHeight, nil
	case "max_horizontal_stack":
		return p.MaxHorizontalStack, nil
	case "max_vertical_stack":
		return p.MaxVerticalStack, nil
	case "horizontal_spacing":
		return p.HorizontalSpacing, nil
	case "vertical_spacing":
		return p.VerticalSpacing, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
