package rules

import (
	"testing"

	"github.com/quasar/mccore/internal/core"
)

func TestAllowed_EmptyRulesetIsSatisfied(t *testing.T) {
	if !Allowed(nil, HostInfo{OS: "linux"}) {
		t.Error("empty ruleset should be satisfied")
	}
}

func TestAllowed_DefaultDenyWhenNoRuleMatches(t *testing.T) {
	host := HostInfo{OS: "linux", Arch: "x86_64"}
	ruleset := []core.Rule{
		{Action: "allow", OS: &core.OSRule{Name: "windows"}},
	}
	if Allowed(ruleset, host) {
		t.Error("expected default deny when no rule matches")
	}
}

func TestAllowed_LastMatchingRuleWins(t *testing.T) {
	host := HostInfo{OS: "osx", Arch: "x86_64"}
	ruleset := []core.Rule{
		{Action: "allow"},
		{Action: "disallow", OS: &core.OSRule{Name: "osx"}},
	}
	if Allowed(ruleset, host) {
		t.Error("expected the later disallow rule for osx to win")
	}
}

func TestAllowed_BoundaryOSNameAndArch(t *testing.T) {
	// An allow-all rule narrowed by a disallow for a specific arch regex.
	host32 := HostInfo{OS: "windows", Arch: "x86"}
	host64 := HostInfo{OS: "windows", Arch: "x86_64"}
	ruleset := []core.Rule{
		{Action: "allow"},
		{Action: "disallow", OS: &core.OSRule{Name: "windows", Arch: "^x86$"}},
	}
	if Allowed(ruleset, host32) {
		t.Error("expected x86 windows to be disallowed")
	}
	if !Allowed(ruleset, host64) {
		t.Error("expected x86_64 windows to remain allowed")
	}
}

func TestMatches_FeaturesRuleNeverMatches(t *testing.T) {
	rule := core.Rule{Action: "allow", Features: &core.Features{}}
	if Matches(rule, HostInfo{OS: "linux"}) {
		t.Error("a features-gated rule must never match")
	}
}

func TestDetectHost_PopulatesFields(t *testing.T) {
	host := DetectHost()
	if host.OS == "" {
		t.Error("expected non-empty OS")
	}
	if host.Arch == "" {
		t.Error("expected non-empty Arch")
	}
}
