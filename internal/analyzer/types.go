package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/WillZhangFly/package-outdated-why/internal/libyear"
)

// DependencyKind classifies how a package is declared in the manifest.
type DependencyKind int

const (
	KindProduction DependencyKind = iota
	KindDevelopment
	KindPeer
)

// String returns the manifest section name for the kind.
func (k DependencyKind) String() string {
	switch k {
	case KindProduction:
		return "production"
	case KindDevelopment:
		return "development"
	case KindPeer:
		return "peer"
	default:
		return fmt.Sprintf("DependencyKind(%d)", int(k))
	}
}

// MarshalJSON renders the kind as its string name.
func (k DependencyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// ParseDependencyKind maps npm's manifest section names ("dependencies",
// "devDependencies", "peerDependencies") to a DependencyKind. Unknown
// sections are treated as production, the conservative choice.
func ParseDependencyKind(s string) DependencyKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "devdependencies", "dev", "development":
		return KindDevelopment
	case "peerdependencies", "peer":
		return KindPeer
	default:
		return KindProduction
	}
}

// Severity is an advisory severity level. Values are ordered so that
// direct comparison (<, >=) reflects urgency.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

// String returns the npm audit severity name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityModerate:
		return "moderate"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalJSON renders the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseSeverity maps an npm audit severity string to a Severity.
// Unknown strings map to low rather than failing.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "moderate", "medium":
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// EffortTier is a coarse estimate of developer time needed to adopt an update.
type EffortTier int

const (
	EffortLow EffortTier = iota
	EffortMedium
	EffortHigh
)

// String returns the tier name.
func (e EffortTier) String() string {
	switch e {
	case EffortLow:
		return "low"
	case EffortMedium:
		return "medium"
	case EffortHigh:
		return "high"
	default:
		return fmt.Sprintf("EffortTier(%d)", int(e))
	}
}

// MarshalJSON renders the tier as its string name.
func (e EffortTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalYAML parses a tier name from the breaking-change table.
func (e *EffortTier) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		*e = EffortLow
	case "medium":
		*e = EffortMedium
	case "high":
		*e = EffortHigh
	default:
		return fmt.Errorf("unknown effort tier: %q", s)
	}
	return nil
}

// Hours returns the weighted remediation hours used for effort aggregation.
func (e EffortTier) Hours() float64 {
	switch e {
	case EffortHigh:
		return 4
	case EffortMedium:
		return 1
	default:
		return 0.25
	}
}

// Priority is the triage bucket assigned to an outdated package,
// ordered from most to least urgent.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityImportant
	PrioritySafe
	PrioritySkip
)

// String returns the bucket name.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityImportant:
		return "important"
	case PrioritySafe:
		return "safe"
	case PrioritySkip:
		return "skip"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// MarshalJSON renders the priority as its string name.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UpdateKind classifies the semver distance between the current and
// latest version. The zero value is patch, which is also the fallback
// when a version string cannot be coerced.
type UpdateKind int

const (
	UpdatePatch UpdateKind = iota
	UpdateMinor
	UpdateMajor
)

// String returns the semver level name.
func (u UpdateKind) String() string {
	switch u {
	case UpdatePatch:
		return "patch"
	case UpdateMinor:
		return "minor"
	case UpdateMajor:
		return "major"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(u))
	}
}

// MarshalJSON renders the update kind as its string name.
func (u UpdateKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// PackageFact is the raw input for one outdated dependency, as reported
// by the package manager. It is never mutated by the engine.
type PackageFact struct {
	Name           string         `json:"name"`
	CurrentVersion string         `json:"currentVersion"`
	WantedVersion  string         `json:"wantedVersion"`
	LatestVersion  string         `json:"latestVersion"`
	Kind           DependencyKind `json:"dependencyKind"`
	Location       string         `json:"location,omitempty"`
}

// SecurityAdvisory is one disclosed vulnerability affecting a package.
type SecurityAdvisory struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	URL             string   `json:"url,omitempty"`
	Severity        Severity `json:"severity"`
	VulnerableRange string   `json:"vulnerableVersionRange,omitempty"`
	PatchedVersion  string   `json:"patchedVersion,omitempty"`
}

// VersionDelta describes the semver distance between a package's
// current and latest versions.
type VersionDelta struct {
	Kind         UpdateKind `json:"updateKind"`
	CurrentMajor int        `json:"currentMajor"`
	LatestMajor  int        `json:"latestMajor"`
}

// PackageAssessment is the classifier's verdict for one package.
// Created once per package per analysis run and never mutated.
type PackageAssessment struct {
	Name           string             `json:"name"`
	CurrentVersion string             `json:"currentVersion"`
	LatestVersion  string             `json:"latestVersion"`
	Priority       Priority           `json:"priority"`
	RiskScore      int                `json:"riskScore"`
	Effort         EffortTier         `json:"effort"`
	Reason         string             `json:"reason"`
	WhyItMatters   string             `json:"whyItMatters"`
	UpdateCommand  string             `json:"updateCommand"`
	ReadMoreURL    string             `json:"readMoreUrl,omitempty"`
	Delta          VersionDelta       `json:"delta"`
	Advisories     []SecurityAdvisory `json:"advisories,omitempty"`
	IsDev          bool               `json:"isDevDependency"`
}

// AnalysisSummary holds the aggregate counts and the one-line verdict.
type AnalysisSummary struct {
	TotalPackages   int    `json:"totalPackages"`
	CriticalCount   int    `json:"criticalCount"`
	ImportantCount  int    `json:"importantCount"`
	SafeCount       int    `json:"safeCount"`
	SkipCount       int    `json:"skipCount"`
	EstimatedEffort string `json:"estimatedEffort"`
	Recommendation  string `json:"recommendation"`
}

// AnalysisReport is the full result of one analysis run. Each bucket is
// sorted by descending risk score; every input package appears in
// exactly one bucket.
type AnalysisReport struct {
	Critical      []PackageAssessment `json:"critical"`
	Important     []PackageAssessment `json:"important"`
	Safe          []PackageAssessment `json:"safe"`
	Skip          []PackageAssessment `json:"skip"`
	SecurityScore int                 `json:"securityScore"`
	Summary       AnalysisSummary     `json:"summary"`
	Freshness     *libyear.Metrics    `json:"freshness,omitempty"`
}
