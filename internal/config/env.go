package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "WINARRANGE"

// envOverrides lists the settings that can be changed without editing the
// config file. Unset variables leave the pointer nil.
type envOverrides struct {
	LogLevel             *string        `envconfig:"LOG_LEVEL"`
	Profile              *string        `envconfig:"PROFILE"`
	DiscoveryMaxAttempts *int           `envconfig:"DISCOVERY_MAX_ATTEMPTS"`
	DiscoveryInterval    *time.Duration `envconfig:"DISCOVERY_INTERVAL"`
	FollowDescendants    *bool          `envconfig:"DISCOVERY_FOLLOW_DESCENDANTS"`
	ArrangePacing        *time.Duration `envconfig:"ARRANGE_PACING"`
	LaunchDelay          *time.Duration `envconfig:"SPAWN_LAUNCH_DELAY"`
	Notify               *bool          `envconfig:"NOTIFY"`
}

func envSource(name string) Source {
	return Source{Kind: SourceEnv, Name: EnvPrefix + "_" + name}
}

// loadEnvOverrides reads WINARRANGE_* variables into a RawConfig that is
// merged after the config file.
func loadEnvOverrides() (RawConfig, map[string]Source, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return RawConfig{}, nil, fmt.Errorf("environment: %w", err)
	}

	raw := RawConfig{}
	sources := map[string]Source{}
	set := func(path, name string) { sources[path] = envSource(name) }

	if env.LogLevel != nil {
		raw.LogLevel = env.LogLevel
		set("log_level", "LOG_LEVEL")
	}
	if env.Profile != nil {
		raw.DefaultProfile = env.Profile
		set("default_profile", "PROFILE")
	}
	if env.DiscoveryMaxAttempts != nil || env.DiscoveryInterval != nil || env.FollowDescendants != nil {
		raw.Discovery = &RawDiscoveryConfig{
			MaxAttempts:       env.DiscoveryMaxAttempts,
			Interval:          env.DiscoveryInterval,
			FollowDescendants: env.FollowDescendants,
		}
		if env.DiscoveryMaxAttempts != nil {
			set("discovery.max_attempts", "DISCOVERY_MAX_ATTEMPTS")
		}
		if env.DiscoveryInterval != nil {
			set("discovery.interval", "DISCOVERY_INTERVAL")
		}
		if env.FollowDescendants != nil {
			set("discovery.follow_descendants", "DISCOVERY_FOLLOW_DESCENDANTS")
		}
	}
	if env.ArrangePacing != nil {
		raw.Arrange = &RawArrangeConfig{Pacing: env.ArrangePacing}
		set("arrange.pacing", "ARRANGE_PACING")
	}
	if env.LaunchDelay != nil {
		raw.Spawn = &RawSpawnConfig{LaunchDelay: env.LaunchDelay}
		set("spawn.launch_delay", "SPAWN_LAUNCH_DELAY")
	}
	if env.Notify != nil {
		raw.Notify = &RawNotifyConfig{Enabled: env.Notify}
		set("notify.enabled", "NOTIFY")
	}
	return raw, sources, nil
}
