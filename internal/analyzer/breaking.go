package analyzer

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed breaking_data.yaml
var breakingData []byte

// BreakingChange is one entry of the static breaking-change reference
// table: known migration facts for a package's major release.
type BreakingChange struct {
	Summary      string     `yaml:"summary" json:"summary"`
	MigrationURL string     `yaml:"migration_url" json:"migrationUrl,omitempty"`
	Effort       EffortTier `yaml:"effort" json:"effort"`
	KnownIssues  []string   `yaml:"known_issues" json:"knownIssues,omitempty"`
}

// breakingTable maps package name → major version → entry. Loaded once
// at process start and never mutated afterwards.
var breakingTable = mustLoadBreakingTable()

func mustLoadBreakingTable() map[string]map[int]BreakingChange {
	table := make(map[string]map[int]BreakingChange)
	if err := yaml.Unmarshal(breakingData, &table); err != nil {
		panic(fmt.Sprintf("analyzer: invalid embedded breaking-change table: %v", err))
	}
	return table
}

// LookupBreakingChange returns the table entry for the given package
// and target major version, if one exists.
func LookupBreakingChange(name string, major int) (BreakingChange, bool) {
	entry, ok := breakingTable[name][major]
	return entry, ok
}

// HasKnownBreakingChanges reports whether any major version strictly
// after currentMajor up to and including latestMajor has a table entry.
// A package can jump several majors at once and accrue risk from
// intermediate breaking releases even when the final target has no
// entry of its own.
func HasKnownBreakingChanges(name string, currentMajor, latestMajor int) bool {
	majors, ok := breakingTable[name]
	if !ok {
		return false
	}
	for major := range majors {
		if major > currentMajor && major <= latestMajor {
			return true
		}
	}
	return false
}

// Name families used by the effort heuristic when no table entry
// exists. Matching is by substring on the package name.
var (
	toolingFamilies = []string{"eslint", "tslint", "webpack", "rollup", "parcel", "vite", "esbuild", "babel"}
	uiFamilies      = []string{"react", "vue", "angular", "svelte", "ember"}
)

// EstimateEffort returns the effort tier for moving a package across
// the given delta. A table entry for the target major wins; otherwise a
// best-effort name heuristic applies: build-tooling and linter families
// tend to demand config rewrites (high), UI frameworks touch rendering
// code (medium), and a jump of two or more majors is never low. The
// heuristic is advisory only.
func EstimateEffort(name string, delta VersionDelta) EffortTier {
	if entry, ok := LookupBreakingChange(name, delta.LatestMajor); ok {
		return entry.Effort
	}

	if delta.Kind != UpdateMajor {
		return EffortLow
	}

	lower := strings.ToLower(name)
	for _, family := range toolingFamilies {
		if strings.Contains(lower, family) {
			return EffortHigh
		}
	}
	for _, family := range uiFamilies {
		if strings.Contains(lower, family) {
			return EffortMedium
		}
	}

	if delta.LatestMajor-delta.CurrentMajor >= 2 {
		return EffortMedium
	}
	return EffortLow
}
