// Package npm shells out to the npm CLI and the npm registry, turning
// their JSON output into the typed facts the analyzer consumes.
package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
)

// outdatedEntry mirrors one value of `npm outdated --json --long` output.
type outdatedEntry struct {
	Current  string `json:"current"`
	Wanted   string `json:"wanted"`
	Latest   string `json:"latest"`
	Location string `json:"location"`
	Type     string `json:"type"`
	Homepage string `json:"homepage"`
}

// Outdated runs `npm outdated --json --long` in dir and returns one
// PackageFact per outdated dependency, sorted by name.
func Outdated(dir string) ([]analyzer.PackageFact, error) {
	cmd := exec.Command("npm", "outdated", "--json", "--long")
	cmd.Dir = dir
	output, err := cmd.Output()
	// npm outdated exits 1 whenever anything is outdated; the JSON is
	// still on stdout. Only a missing payload is a real failure.
	if err != nil && len(bytes.TrimSpace(output)) == 0 {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("npm outdated failed: %w (stderr: %s)", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("npm outdated failed: %w", err)
	}

	return ParseOutdated(output)
}

// ParseOutdated parses `npm outdated --json --long` output. Empty input
// means nothing is outdated.
func ParseOutdated(data []byte) ([]analyzer.PackageFact, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw map[string]outdatedEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse npm outdated output: %w", err)
	}

	facts := make([]analyzer.PackageFact, 0, len(raw))
	for name, entry := range raw {
		facts = append(facts, analyzer.PackageFact{
			Name:           name,
			CurrentVersion: entry.Current,
			WantedVersion:  entry.Wanted,
			LatestVersion:  entry.Latest,
			Kind:           analyzer.ParseDependencyKind(entry.Type),
			Location:       entry.Location,
		})
	}

	// Map iteration order is random; sort for deterministic reports.
	sort.Slice(facts, func(i, j int) bool {
		return facts[i].Name < facts[j].Name
	})

	return facts, nil
}
