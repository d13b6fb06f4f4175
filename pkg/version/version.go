// Package version reports the pcfcalc build version.
package version

import "github.com/Masterminds/semver/v3"

// Name is the program name.
const Name = "pcfcalc"

// Set at build time with -ldflags "-X github.com/greenledger/pcfcalc/pkg/version.version=...".
var (
	version = "0.0.0-dev" //nolint:gochecknoglobals // Set via ldflags
	commit  = ""          //nolint:gochecknoglobals // Set via ldflags
)

// GetVersion returns the build version, with the commit appended when known.
func GetVersion() string {
	if commit == "" {
		return version
	}
	return version + "+" + commit
}

// Semver parses the build version. Builds with a malformed version string
// report 0.0.0.
func Semver() *semver.Version {
	v, err := semver.NewVersion(version)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return v
}

// IsDev reports whether this is an unreleased development build.
func IsDev() bool {
	return Semver().Prerelease() != ""
}
