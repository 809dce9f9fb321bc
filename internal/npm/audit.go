package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
)

// auditReport mirrors the top level of `npm audit --json` (npm 7+).
type auditReport struct {
	Vulnerabilities map[string]auditVulnerability `json:"vulnerabilities"`
}

type auditVulnerability struct {
	Name         string            `json:"name"`
	Severity     string            `json:"severity"`
	Range        string            `json:"range"`
	Via          []json.RawMessage `json:"via"`
	FixAvailable json.RawMessage   `json:"fixAvailable"`
}

// auditAdvisory is one object element of a vulnerability's "via" list.
// String elements (references to other vulnerable packages) carry no
// advisory of their own and are skipped.
type auditAdvisory struct {
	Source   int    `json:"source"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Severity string `json:"severity"`
	Range    string `json:"range"`
}

// fixTarget is the object form of "fixAvailable", present when npm
// knows which release resolves the vulnerability.
type fixTarget struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Audit runs `npm audit --json` in dir and returns advisories grouped
// by package name.
func Audit(dir string) (map[string][]analyzer.SecurityAdvisory, error) {
	cmd := exec.Command("npm", "audit", "--json")
	cmd.Dir = dir
	output, err := cmd.Output()
	// npm audit exits non-zero when vulnerabilities exist; the JSON is
	// still on stdout.
	if err != nil && len(bytes.TrimSpace(output)) == 0 {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("npm audit failed: %w (stderr: %s)", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("npm audit failed: %w", err)
	}

	return ParseAudit(output)
}

// ParseAudit parses `npm audit --json` output into advisories keyed by
// package name. Malformed or empty input yields no advisories rather
// than an error: missing audit data must not block the analysis.
func ParseAudit(data []byte) (map[string][]analyzer.SecurityAdvisory, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var report auditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, nil
	}

	advisories := make(map[string][]analyzer.SecurityAdvisory)
	for pkg, vuln := range report.Vulnerabilities {
		patched := patchedVersion(vuln.FixAvailable)

		for _, raw := range vuln.Via {
			var adv auditAdvisory
			if err := json.Unmarshal(raw, &adv); err != nil {
				// A plain string: transitive reference, not an advisory.
				continue
			}
			if adv.Title == "" {
				continue
			}

			vulnerableRange := adv.Range
			if vulnerableRange == "" {
				vulnerableRange = vuln.Range
			}

			advisories[pkg] = append(advisories[pkg], analyzer.SecurityAdvisory{
				ID:              strconv.Itoa(adv.Source),
				Title:           adv.Title,
				URL:             adv.URL,
				Severity:        analyzer.ParseSeverity(adv.Severity),
				VulnerableRange: vulnerableRange,
				PatchedVersion:  patched,
			})
		}
	}

	if len(advisories) == 0 {
		return nil, nil
	}
	return advisories, nil
}

// patchedVersion extracts the fixing release from "fixAvailable", which
// npm emits as either a boolean or an object.
func patchedVersion(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var fix fixTarget
	if err := json.Unmarshal(raw, &fix); err != nil {
		return ""
	}
	return fix.Version
}
