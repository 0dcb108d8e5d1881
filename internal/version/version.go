// Package version holds the server version and semver comparison helpers
// used by the schema migrator.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service version in semver format.
var Version = "0.2.1"

// DevVersion is the development version.
var DevVersion = "0.0.0"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 3 {
		return ""
	}
	return strings.Join(versionList[0:2], ".")
}

func GetSchemaVersion(mode string) string {
	currentVersion := GetCurrentVersion(mode)
	minorVersion := GetMinorVersion(currentVersion)
	return fmt.Sprintf("%s.%d", minorVersion, 0)
}

// IsVersionGreaterOrEqualThan returns true if version is greater than or
// equal to target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > -1
}

// IsVersionGreaterThan returns true if version is greater than target.
func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > 0
}
