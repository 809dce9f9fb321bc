// Package libyear measures dependency staleness. One libyear is one
// calendar year of elapsed time between the release of the installed
// version and the release of the latest version, summed across
// dependencies.
package libyear

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PackageAge holds the per-package publication facts resolved by the
// registry collaborator. Either release date may be unknown.
type PackageAge struct {
	Name            string     `json:"name"`
	CurrentVersion  string     `json:"currentVersion"`
	LatestVersion   string     `json:"latestVersion"`
	CurrentReleased *time.Time `json:"currentReleased,omitempty"`
	LatestReleased  *time.Time `json:"latestReleased,omitempty"`
	ReleasesBehind  int        `json:"releasesBehind"`
}

// Metrics is the aggregate drift over a dependency set.
type Metrics struct {
	TotalLibyears   float64   `json:"totalLibyears"`
	AverageLibyears float64   `json:"averageLibyears"`
	MaxLibyears     float64   `json:"maxLibyears"`
	MaxPackage      string    `json:"maxPackage,omitempty"`
	MajorsBehind    int       `json:"majorsBehind"`
	MinorsBehind    int       `json:"minorsBehind"`
	PatchesBehind   int       `json:"patchesBehind"`
	ReleasesBehind  int       `json:"releasesBehind"`
	PulseDays       int       `json:"pulseDays"`
	NewestRelease   time.Time `json:"newestRelease,omitempty"`
	FreshnessScore  int       `json:"freshnessScore"`
}

// Aggregate folds per-package age facts into drift totals and the
// 0-100 freshness score. An empty input returns the identity metrics
// (freshness 100, everything else zero). Packages with unknown release
// dates contribute zero days rather than failing.
func Aggregate(ages []PackageAge) Metrics {
	return aggregateAt(time.Now(), ages)
}

func aggregateAt(now time.Time, ages []PackageAge) Metrics {
	m := Metrics{FreshnessScore: 100}
	if len(ages) == 0 {
		return m
	}

	var newest time.Time
	for _, age := range ages {
		var days float64
		if age.CurrentReleased != nil && age.LatestReleased != nil && age.LatestReleased.After(*age.CurrentReleased) {
			days = age.LatestReleased.Sub(*age.CurrentReleased).Hours() / 24
		}

		years := days / 365
		m.TotalLibyears += years
		if years > m.MaxLibyears {
			m.MaxLibyears = years
			m.MaxPackage = age.Name
		}

		m.ReleasesBehind += age.ReleasesBehind

		switch behindTier(age.CurrentVersion, age.LatestVersion) {
		case tierMajor:
			m.MajorsBehind++
		case tierMinor:
			m.MinorsBehind++
		case tierPatch:
			m.PatchesBehind++
		}

		if age.LatestReleased != nil && age.LatestReleased.After(newest) {
			newest = *age.LatestReleased
		}
	}

	m.AverageLibyears = m.TotalLibyears / float64(len(ages))

	if !newest.IsZero() {
		m.NewestRelease = newest
		m.PulseDays = int(now.Sub(newest).Hours() / 24)
		if m.PulseDays < 0 {
			m.PulseDays = 0
		}
	}

	score := 100 - int(m.TotalLibyears*10) - m.MajorsBehind*5
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	m.FreshnessScore = score

	return m
}

type behind int

const (
	tierNone behind = iota
	tierPatch
	tierMinor
	tierMajor
)

// behindTier classifies how far current trails latest by comparing
// numeric version components directly. Deliberately independent of the
// semver coercion used for risk classification: this path must survive
// arbitrary malformed input, so every component defaults to 0.
func behindTier(current, latest string) behind {
	curMaj, curMin, curPat := versionParts(current)
	latMaj, latMin, latPat := versionParts(latest)

	switch {
	case latMaj > curMaj:
		return tierMajor
	case latMaj == curMaj && latMin > curMin:
		return tierMinor
	case latMaj == curMaj && latMin == curMin && latPat > curPat:
		return tierPatch
	default:
		return tierNone
	}
}

var leadingDigits = regexp.MustCompile(`^\d+`)

// versionParts extracts up to three numeric components from a version
// string. Non-numeric noise in a component ("3-beta") is trimmed to its
// leading digits; anything unusable becomes 0.
func versionParts(v string) (major, minor, patch int) {
	v = strings.TrimSpace(v)
	v = strings.TrimLeft(v, "^~<>= v")

	parts := strings.SplitN(v, ".", 3)
	nums := [3]int{}
	for i := 0; i < len(parts) && i < 3; i++ {
		digits := leadingDigits.FindString(parts[i])
		if digits == "" {
			break
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			break
		}
		nums[i] = n
		// A component with trailing noise ("3-beta") ends the version
		// proper; whatever follows is prerelease or build metadata.
		if len(digits) != len(parts[i]) {
			break
		}
	}
	return nums[0], nums[1], nums[2]
}
