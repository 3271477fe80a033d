package domain

import "strings"

// DefaultMoods is substituted when the user leaves the mood blank.
var DefaultMoods = []string{"平静", "欢喜", "惆怅", "思念", "豁达"}

// ResolveMood trims mood and, when nothing is left, picks one of defaults
// uniformly at random. An empty defaults list falls back to DefaultMoods.
func ResolveMood(mood string, defaults []string, rng Rand) string {
	if m := strings.TrimSpace(mood); m != "" {
		return m
	}
	if len(defaults) == 0 {
		defaults = DefaultMoods
	}
	return defaults[rng.IntN(len(defaults))]
}
