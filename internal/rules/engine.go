package rules

import (
	"regexp"

	"github.com/quasar/mccore/internal/core"
)

// Matches reports whether a single rule applies to host. A rule naming
// "features" never matches — this core does not implement the demo-user or
// custom-resolution feature flags, so any feature-gated rule is always
// treated as not applicable, mirroring how those game features are out of
// scope entirely.
func Matches(rule core.Rule, host HostInfo) bool {
	if rule.Features != nil {
		return false
	}

	if rule.OS == nil {
		return true
	}

	if rule.OS.Name != "" && rule.OS.Name != host.OS {
		return false
	}
	if rule.OS.Arch != "" && !regexMatch(rule.OS.Arch, host.Arch) {
		return false
	}
	if rule.OS.Version != "" && !regexMatch(rule.OS.Version, host.Version) {
		return false
	}
	return true
}

func regexMatch(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// Allowed evaluates a ruleset against host: an empty ruleset is satisfied,
// a ruleset whose rules never match is not, and the action of the last
// matching rule wins.
func Allowed(ruleset []core.Rule, host HostInfo) bool {
	if len(ruleset) == 0 {
		return true
	}
	sat := false
	for _, rule := range ruleset {
		if Matches(rule, host) {
			sat = rule.Action == "allow"
		}
	}
	return sat
}
