package analyzer

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// numericRun matches the first dotted numeric sequence in a version
// string, e.g. "1.2.3" inside "^v1.2.3-beta.4+build".
var numericRun = regexp.MustCompile(`\d+(\.\d+)*`)

// coerceVersion parses a loosely formatted version string. Range
// operators, "v" prefixes and surrounding whitespace are tolerated; if
// strict parsing still fails, the first dotted numeric run is extracted
// and parsed instead.
func coerceVersion(raw string) (*semver.Version, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "^~<>= \tv")

	if v, err := semver.NewVersion(s); err == nil {
		return v, true
	}

	if run := numericRun.FindString(s); run != "" {
		if v, err := semver.NewVersion(run); err == nil {
			return v, true
		}
	}

	return nil, false
}

// AnalyzeDelta classifies the distance between a current and latest
// version string. Major takes precedence over minor, minor over patch.
//
// If either side cannot be coerced the conservative fallback
// (patch, major 0 → 0) is returned: ambiguous version data must never
// abort a run or be classified as risky by default.
func AnalyzeDelta(current, latest string) VersionDelta {
	cur, okCur := coerceVersion(current)
	lat, okLat := coerceVersion(latest)
	if !okCur || !okLat {
		return VersionDelta{}
	}

	delta := VersionDelta{
		CurrentMajor: int(cur.Major()),
		LatestMajor:  int(lat.Major()),
	}

	switch {
	case lat.Major() > cur.Major():
		delta.Kind = UpdateMajor
	case lat.Minor() > cur.Minor():
		delta.Kind = UpdateMinor
	default:
		delta.Kind = UpdatePatch
	}

	return delta
}
