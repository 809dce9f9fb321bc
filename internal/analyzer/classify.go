package analyzer

import (
	"fmt"
	"strings"
)

// Classify assesses a single outdated package. It is a pure function of
// its arguments plus the read-only breaking-change table: identical
// inputs always produce identical assessments.
func Classify(fact PackageFact, advisories []SecurityAdvisory, isDev bool) PackageAssessment {
	delta := AnalyzeDelta(fact.CurrentVersion, fact.LatestVersion)
	hasBreaking := HasKnownBreakingChanges(fact.Name, delta.CurrentMajor, delta.LatestMajor)
	entry, hasEntry := LookupBreakingChange(fact.Name, delta.LatestMajor)

	assessment := PackageAssessment{
		Name:           fact.Name,
		CurrentVersion: fact.CurrentVersion,
		LatestVersion:  fact.LatestVersion,
		Delta:          delta,
		Advisories:     advisories,
		IsDev:          isDev,
		RiskScore:      riskScore(delta, advisories, isDev, hasBreaking),
	}
	assessment.UpdateCommand = updateCommand(fact.Name, delta.Kind, advisories)

	if delta.Kind == UpdateMajor {
		assessment.Effort = EstimateEffort(fact.Name, delta)
	}

	decidePriority(&assessment, entry, hasEntry, hasBreaking)
	return assessment
}

// riskScore computes the additive 0-100 risk score:
//   - Security (80 points): critical/high advisory present = 80,
//     any other advisory = 50
//   - Update distance (30 points): major with known breaking changes = 30,
//     plain major = 20, minor = 5, patch = 0
//   - Dev discount: halved when the package is a dev dependency with no
//     advisories
//
// The raw sum can reach 110, so the result is clamped at 100.
func riskScore(delta VersionDelta, advisories []SecurityAdvisory, isDev, hasBreaking bool) int {
	score := 0

	if worst := worstAdvisory(advisories); worst != nil {
		if worst.Severity >= SeverityHigh {
			score += 80
		} else {
			score += 50
		}
	}

	switch delta.Kind {
	case UpdateMajor:
		if hasBreaking {
			score += 30
		} else {
			score += 20
		}
	case UpdateMinor:
		score += 5
	}

	if isDev && len(advisories) == 0 {
		score /= 2
	}

	if score > 100 {
		score = 100
	}
	return score
}

// worstAdvisory returns the highest-severity advisory, or nil when the
// list is empty.
func worstAdvisory(advisories []SecurityAdvisory) *SecurityAdvisory {
	var worst *SecurityAdvisory
	for i := range advisories {
		if worst == nil || advisories[i].Severity > worst.Severity {
			worst = &advisories[i]
		}
	}
	return worst
}

// updateCommand suggests the remediation command. Minor and patch
// deltas stay inside the declared semver range, so `npm update`
// suffices; a major jump must be requested explicitly so the breaking
// boundary is never crossed silently. High and critical advisories also
// force an explicit install of the latest release rather than trusting
// range satisfaction to pick up the fix.
func updateCommand(name string, kind UpdateKind, advisories []SecurityAdvisory) string {
	urgent := false
	if worst := worstAdvisory(advisories); worst != nil && worst.Severity >= SeverityHigh {
		urgent = true
	}
	if kind == UpdateMajor || urgent {
		return fmt.Sprintf("npm install %s@latest", name)
	}
	return fmt.Sprintf("npm update %s", name)
}

// decidePriority assigns the priority bucket and fills the narrative
// fields. Rules are evaluated in strict order, first match wins:
// security first, then breaking risk, then convenience. Every branch
// sets both Reason and WhyItMatters.
func decidePriority(a *PackageAssessment, entry BreakingChange, hasEntry, hasBreaking bool) {
	worst := worstAdvisory(a.Advisories)

	switch {
	case worst != nil && worst.Severity >= SeverityHigh:
		a.Priority = PriorityCritical
		a.Reason = fmt.Sprintf("%s severity vulnerability: %s", worst.Severity, worst.Title)
		a.WhyItMatters = securityNarrative(worst)
		a.ReadMoreURL = worst.URL

	case worst != nil:
		a.Priority = PriorityImportant
		a.Reason = fmt.Sprintf("%s severity vulnerability: %s", worst.Severity, worst.Title)
		a.WhyItMatters = securityNarrative(worst)
		a.ReadMoreURL = worst.URL

	case a.Delta.Kind == UpdateMajor && a.IsDev && !hasBreaking:
		a.Priority = PrioritySkip
		a.Reason = fmt.Sprintf("major update %d → %d for a development-only dependency", a.Delta.CurrentMajor, a.Delta.LatestMajor)
		a.WhyItMatters = "Nothing in your production code ships this package. Upgrade when convenient."

	case a.Delta.Kind == UpdateMajor && hasEntry:
		a.Priority = PriorityImportant
		a.Reason = entry.Summary
		a.WhyItMatters = breakingNarrative(entry)
		a.ReadMoreURL = entry.MigrationURL

	case a.Delta.Kind == UpdateMajor:
		a.Priority = PriorityImportant
		a.Reason = fmt.Sprintf("major version bump %d → %d", a.Delta.CurrentMajor, a.Delta.LatestMajor)
		a.WhyItMatters = "Major releases may contain breaking changes. Check the changelog before upgrading."

	case a.Delta.Kind == UpdateMinor && !a.IsDev:
		a.Priority = PrioritySafe
		a.Reason = "minor update with new features"
		a.WhyItMatters = "Backwards compatible by semver convention. Safe to pick up during regular maintenance."

	case a.Delta.Kind == UpdateMinor:
		a.Priority = PrioritySkip
		a.Reason = "minor update for a development-only dependency"
		a.WhyItMatters = "No production impact. Upgrade when convenient."

	case !a.IsDev:
		a.Priority = PrioritySafe
		a.Reason = "patch update with bug fixes"
		a.WhyItMatters = "Patch releases only fix bugs. Safe to pick up during regular maintenance."

	default:
		a.Priority = PrioritySkip
		a.Reason = "patch update for a development-only dependency"
		a.WhyItMatters = "No production impact. Upgrade when convenient."
	}
}

// securityNarrative explains what a vulnerability means for the caller.
func securityNarrative(adv *SecurityAdvisory) string {
	target := "the patched release"
	if adv.PatchedVersion != "" {
		target = adv.PatchedVersion
	}
	if adv.Severity >= SeverityHigh {
		if adv.VulnerableRange != "" {
			return fmt.Sprintf("Installed versions matching %s are vulnerable. Upgrade to %s as soon as possible.", adv.VulnerableRange, target)
		}
		return fmt.Sprintf("Your installed version is affected. Upgrade to %s as soon as possible.", target)
	}
	return fmt.Sprintf("The issue is lower severity, but staying on a vulnerable release accumulates risk. Upgrade to %s with your next batch of updates.", target)
}

// breakingNarrative explains a known breaking major, citing the table
// entry's recorded issues.
func breakingNarrative(entry BreakingChange) string {
	var sb strings.Builder
	sb.WriteString("This major release has a documented migration path. Review it before upgrading.")
	for _, issue := range entry.KnownIssues {
		sb.WriteString("\n  - ")
		sb.WriteString(issue)
	}
	return sb.String()
}
