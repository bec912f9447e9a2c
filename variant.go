package mrbuild

import (
	"fmt"
	"path"
)

// Targets contains one entry for each known target platform identifier.
var Targets = map[string]bool{
	"android": true,
	"win":     true,
	"winuwp":  true,
}

// CPUs contains one entry for each known CPU architecture identifier.
var CPUs = map[string]bool{
	"x86":   true,
	"x64":   true,
	"arm":   true,
	"arm64": true,
}

// Configs contains one entry for each known build configuration.
var Configs = map[string]bool{
	"debug":   true,
	"release": true,
}

// Variant is one concrete (target platform, CPU architecture, build
// configuration) combination, e.g. win-x64-release.
type Variant struct {
	Target string // e.g. win
	CPU    string // e.g. x64
	Config string // debug or release
}

func (v Variant) String() string {
	return v.Target + "-" + v.CPU + "-" + v.Config
}

// OutDir returns the build output directory for the variant, relative to the
// WebRTC source tree, e.g. out/win/x64/release.
func (v Variant) OutDir() string {
	return path.Join("out", v.Target, v.CPU, v.Config)
}

// Rejection is a variant that failed compatibility checking, together with a
// human-readable reason.
type Rejection struct {
	Variant Variant
	Reason  string
}

// Check validates a single variant against the platform compatibility matrix.
// It returns nil if the variant can be built. The checks are ordered so that
// an unknown enum value is reported before a platform restriction.
func Check(v Variant) error {
	if !Targets[v.Target] {
		return fmt.Errorf("invalid platform target %q", v.Target)
	}
	if !CPUs[v.CPU] {
		return fmt.Errorf("invalid CPU architecture %q", v.CPU)
	}
	if !Configs[v.Config] {
		return fmt.Errorf("invalid build configuration %q", v.Config)
	}
	if v.Target == "android" && v.CPU != "arm64" {
		return fmt.Errorf("the android target only supports the arm64 CPU architecture, not %q", v.CPU)
	}
	if v.Target == "win" && v.CPU != "x86" && v.CPU != "x64" {
		return fmt.Errorf("the win target only supports the x86 and x64 CPU architectures, not %q", v.CPU)
	}
	return nil
}

// Set is the result of expanding a build request: the variants that passed
// compatibility checking and the ones that did not.
type Set struct {
	Accepted []Variant
	Rejected []Rejection
}

// Expand computes the cross product of the requested targets, CPUs and
// configurations (in target-major order) and partitions it into accepted and
// rejected variants. Every requested triple appears in exactly one of the two
// lists, in request order.
func Expand(targets, cpus, configs []string) Set {
	var set Set
	for _, target := range targets {
		for _, cpu := range cpus {
			for _, config := range configs {
				v := Variant{Target: target, CPU: cpu, Config: config}
				if err := Check(v); err != nil {
					set.Rejected = append(set.Rejected, Rejection{Variant: v, Reason: err.Error()})
					continue
				}
				set.Accepted = append(set.Accepted, v)
			}
		}
	}
	return set
}

// HasTarget reports whether any accepted variant builds for target.
func (s Set) HasTarget(target string) bool {
	for _, v := range s.Accepted {
		if v.Target == target {
			return true
		}
	}
	return false
}

// Targets returns the distinct target platforms represented among the
// accepted variants, in first-seen order. For display only.
func (s Set) Targets() []string {
	return distinct(s.Accepted, func(v Variant) string { return v.Target })
}

// CPUs returns the distinct CPU architectures represented among the accepted
// variants, in first-seen order. For display only.
func (s Set) CPUs() []string {
	return distinct(s.Accepted, func(v Variant) string { return v.CPU })
}

// Configs returns the distinct build configurations represented among the
// accepted variants, in first-seen order. For display only.
func (s Set) Configs() []string {
	return distinct(s.Accepted, func(v Variant) string { return v.Config })
}

func distinct(variants []Variant, key func(Variant) string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, v := range variants {
		k := key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, k)
	}
	return result
}
