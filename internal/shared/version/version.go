// Package version reports the build version stamped at link time.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/unical-dimes/professors/internal/shared/version.Version=1.4.0"
var Version = "dev"

// Normalize trims v and adds the "v" prefix semver expects.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// Current returns the canonical build version, or "dev" for unstamped and
// malformed builds.
func Current() string {
	return resolve(Version)
}

func resolve(raw string) string {
	v := Normalize(raw)
	if !semver.IsValid(v) {
		return "dev"
	}
	return semver.Canonical(v)
}

// IsRelease is true for a stamped version without a prerelease suffix.
func IsRelease() bool {
	v := Current()
	return v != "dev" && semver.Prerelease(v) == ""
}
