package analyzer

import (
	"fmt"
	"math"
	"sort"
)

// Recommendation messages, selected most-urgent-first by Summarize.
const (
	recommendCriticalNow = "Fix the critical vulnerabilities now. Run the suggested install commands for the critical packages before anything else."
	recommendHighSoon    = "Address the high severity vulnerabilities soon, ideally within the next few days."
	recommendIncremental = "Several major upgrades are pending. Update incrementally, one package at a time, and run your test suite between each."
	recommendAllCurrent  = "All dependencies are current. Nothing to do."
	recommendRoutine     = "No urgent action needed. Fold these updates into your regular maintenance cycle."
)

// Summarize folds a full set of assessments into the 0-100 security
// score and the aggregate summary. Pure: no I/O, no hidden state.
func Summarize(assessments []PackageAssessment) (int, AnalysisSummary) {
	summary := AnalysisSummary{TotalPackages: len(assessments)}

	var hours float64
	majorCount := 0
	worstSeverity := Severity(-1)
	anyAdvisory := false

	for _, a := range assessments {
		switch a.Priority {
		case PriorityCritical:
			summary.CriticalCount++
		case PriorityImportant:
			summary.ImportantCount++
		case PrioritySafe:
			summary.SafeCount++
		case PrioritySkip:
			summary.SkipCount++
		}

		hours += a.Effort.Hours()
		if a.Delta.Kind == UpdateMajor {
			majorCount++
		}
		for _, adv := range a.Advisories {
			anyAdvisory = true
			if adv.Severity > worstSeverity {
				worstSeverity = adv.Severity
			}
		}
	}

	summary.EstimatedEffort = effortLabel(hours)

	switch {
	case anyAdvisory && worstSeverity == SeverityCritical:
		summary.Recommendation = recommendCriticalNow
	case anyAdvisory && worstSeverity == SeverityHigh:
		summary.Recommendation = recommendHighSoon
	case majorCount > 3:
		summary.Recommendation = recommendIncremental
	case len(assessments) == 0:
		summary.Recommendation = recommendAllCurrent
	default:
		summary.Recommendation = recommendRoutine
	}

	return securityScore(assessments), summary
}

// securityScore starts at 100 and deducts per advisory across all
// packages: critical 25, high 15, moderate 5, low 2. Multiple
// advisories on the same package compound independently. Floor is 0.
func securityScore(assessments []PackageAssessment) int {
	score := 100
	for _, a := range assessments {
		for _, adv := range a.Advisories {
			switch adv.Severity {
			case SeverityCritical:
				score -= 25
			case SeverityHigh:
				score -= 15
			case SeverityModerate:
				score -= 5
			default:
				score -= 2
			}
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// effortLabel buckets total remediation hours into a human label,
// assuming an 8-hour working day.
func effortLabel(hours float64) string {
	switch {
	case hours < 1:
		return "under an hour"
	case hours < 4:
		n := int(math.Ceil(hours))
		if n == 1 {
			return "about 1 hour"
		}
		return fmt.Sprintf("about %d hours", n)
	case hours < 8:
		return "about a day"
	default:
		days := int(math.Ceil(hours / 8))
		if days == 1 {
			return "about 1 day"
		}
		return fmt.Sprintf("about %d days", days)
	}
}

// BuildReport partitions assessments into priority buckets, each sorted
// by descending risk score (ties broken by name for stable output), and
// attaches the aggregate summary.
func BuildReport(assessments []PackageAssessment) AnalysisReport {
	report := AnalysisReport{
		Critical:  make([]PackageAssessment, 0),
		Important: make([]PackageAssessment, 0),
		Safe:      make([]PackageAssessment, 0),
		Skip:      make([]PackageAssessment, 0),
	}

	for _, a := range assessments {
		switch a.Priority {
		case PriorityCritical:
			report.Critical = append(report.Critical, a)
		case PriorityImportant:
			report.Important = append(report.Important, a)
		case PrioritySafe:
			report.Safe = append(report.Safe, a)
		default:
			report.Skip = append(report.Skip, a)
		}
	}

	for _, bucket := range [][]PackageAssessment{report.Critical, report.Important, report.Safe, report.Skip} {
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].RiskScore != bucket[j].RiskScore {
				return bucket[i].RiskScore > bucket[j].RiskScore
			}
			return bucket[i].Name < bucket[j].Name
		})
	}

	report.SecurityScore, report.Summary = Summarize(assessments)
	return report
}
