package config

// DefaultBuiltinProfile is selected when default_profile is not set.
const DefaultBuiltinProfile = "compact"

// BuiltinProfiles returns the profiles available without any config file.
// User profiles with the same name patch these.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"compact": {
			WindowWidth:        308,
			WindowHeight:       265,
			MaxHorizontalStack: 6,
			MaxVerticalStack:   3,
		},
		"large": {
			WindowWidth:        800,
			WindowHeight:       600,
			MaxHorizontalStack: 2,
			MaxVerticalStack:   2,
			HorizontalSpacing:  10,
			VerticalSpacing:    10,
		},
	}
}
