package config

import (
	"fmt"
	"sort"
	"strings"
)

const builtinPrefix = "builtin:"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("%s (from %s): %v", e.Path, e.Source.Name, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig merges raw over DefaultConfig. It also returns, for
// every profile, the builtin it ultimately derives from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.DefaultProfile != nil {
		cfg.DefaultProfile = *raw.DefaultProfile
	}
	if d := raw.Discovery; d != nil {
		cfg.Discovery.MaxAttempts = derefOr(d.MaxAttempts, cfg.Discovery.MaxAttempts)
		cfg.Discovery.Interval = derefOr(d.Interval, cfg.Discovery.Interval)
		cfg.Discovery.FollowDescendants = derefOr(d.FollowDescendants, cfg.Discovery.FollowDescendants)
	}
	if a := raw.Arrange; a != nil {
		cfg.Arrange.Pacing = derefOr(a.Pacing, cfg.Arrange.Pacing)
	}
	if s := raw.Spawn; s != nil {
		cfg.Spawn.LaunchDelay = derefOr(s.LaunchDelay, cfg.Spawn.LaunchDelay)
		cfg.Spawn.ConfirmThreshold = derefOr(s.ConfirmThreshold, cfg.Spawn.ConfirmThreshold)
	}
	if n := raw.Notify; n != nil {
		cfg.Notify.Enabled = derefOr(n.Enabled, cfg.Notify.Enabled)
	}
	if l := raw.Logging; l != nil {
		cfg.Logging.Enabled = derefOr(l.Enabled, cfg.Logging.Enabled)
		cfg.Logging.Level = derefOr(l.Level, cfg.Logging.Level)
		cfg.Logging.File = derefOr(l.File, cfg.Logging.File)
		cfg.Logging.MaxSizeMB = derefOr(l.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefOr(l.MaxFiles, cfg.Logging.MaxFiles)
	}

	bases, err := applyProfiles(cfg, raw.Profiles)
	if err != nil {
		return nil, nil, err
	}
	return cfg, bases, nil
}

// applyProfiles resolves user profile patches on top of the builtins.
//
// A patch without inherits starts from the builtin of the same name, or
// from DefaultBuiltinProfile. inherits names either "builtin:<name>" or
// another user profile, which is resolved first.
func applyProfiles(cfg *Config, patches map[string]RawProfile) (map[string]string, error) {
	builtin := BuiltinProfiles()
	bases := make(map[string]string, len(builtin)+len(patches))
	for name := range builtin {
		bases[name] = name
	}

	resolved := make(map[string]Profile, len(patches))
	var resolve func(name string, stack []string) (Profile, string, error)
	resolve = func(name string, stack []string) (Profile, string, error) {
		if p, ok := resolved[name]; ok {
			return p, bases[name], nil
		}
		for _, s := range stack {
			if s == name {
				return Profile{}, "", &ValidationError{
					Path: "profiles." + name + ".inherits",
					Err:  fmt.Errorf("inherits cycle: %s -> %s", strings.Join(stack, " -> "), name),
				}
			}
		}

		patch := patches[name]
		base, baseName, err := profileBase(name, patch, builtin, patches, func(parent string) (Profile, string, error) {
			return resolve(parent, append(stack, name))
		})
		if err != nil {
			return Profile{}, "", err
		}

		merged := mergeProfilePatch(base, patch)
		resolved[name] = merged
		bases[name] = baseName
		return merged, baseName, nil
	}

	cfg.Profiles = builtin
	for _, name := range sortedKeys(patches) {
		p, _, err := resolve(name, nil)
		if err != nil {
			return nil, err
		}
		cfg.Profiles[name] = p
	}
	return bases, nil
}

func profileBase(
	name string,
	patch RawProfile,
	builtin map[string]Profile,
	patches map[string]RawProfile,
	resolveParent func(string) (Profile, string, error),
) (Profile, string, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	if ref == "" {
		baseName := DefaultBuiltinProfile
		if _, ok := builtin[name]; ok {
			baseName = name
		}
		return builtin[baseName], baseName, nil
	}

	if strings.HasPrefix(ref, builtinPrefix) {
		baseName := strings.TrimSpace(strings.TrimPrefix(ref, builtinPrefix))
		base, ok := builtin[baseName]
		if !ok {
			return Profile{}, "", &ValidationError{
				Path: "profiles." + name + ".inherits",
				Err:  fmt.Errorf("unknown builtin profile %q", baseName),
			}
		}
		return base, baseName, nil
	}

	// A patch of a builtin may name itself to mean the builtin.
	if _, ok := patches[ref]; ok && ref != name {
		return resolveParent(ref)
	}
	if base, ok := builtin[ref]; ok {
		return base, ref, nil
	}
	return Profile{}, "", &ValidationError{
		Path: "profiles." + name + ".inherits",
		Err:  fmt.Errorf("unknown profile %q", ref),
	}
}

func mergeProfilePatch(base Profile, patch RawProfile) Profile {
	out := base
	out.WindowWidth = derefOr(patch.WindowWidth, out.WindowWidth)
	out.WindowHeight = derefOr(patch.WindowHeight, out.WindowHeight)
	out.MaxHorizontalStack = derefOr(patch.MaxHorizontalStack, out.MaxHorizontalStack)
	out.MaxVerticalStack = derefOr(patch.MaxVerticalStack, out.MaxVerticalStack)
	out.HorizontalSpacing = derefOr(patch.HorizontalSpacing, out.HorizontalSpacing)
	out.VerticalSpacing = derefOr(patch.VerticalSpacing, out.VerticalSpacing)
	return out
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
