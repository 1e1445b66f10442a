package util

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings semantically.
// Returns:
// - -1 if v1 < v2
// - 0 if v1 == v2
// - 1 if v1 > v2
// - error if either version string is invalid
func CompareVersions(v1, v2 string) (int, error) {
	// Strip leading 'v' if present (common in version strings)
	v1 = strings.TrimPrefix(v1, "v")
	v2 = strings.TrimPrefix(v2, "v")

	version1, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version %s: %w", v1, err)
	}
	version2, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version %s: %w", v2, err)
	}
	return version1.Compare(version2), nil
}

// SatisfiesMinimum reports whether version is at least minimum. Clients use
// it to check they can talk to a server.
func SatisfiesMinimum(version, minimum string) (bool, error) {
	c, err := CompareVersions(version, minimum)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

// IsValidVersion checks if a version string is valid semantic version.
func IsValidVersion(version string) bool {
	_, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	return err == nil
}
