// Package output renders analysis reports for the terminal and for
// files: ANSI-colored text, JSON, and markdown.
//
// Color output is gated by the NO_COLOR env var and a TTY check on
// stdout.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
	"github.com/WillZhangFly/package-outdated-why/internal/libyear"
)

// ANSI color codes for priority display
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is
// not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps s in the given ANSI code when color is enabled.
func colorize(code, s string, color bool) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

func priorityColor(p analyzer.Priority) string {
	switch p {
	case analyzer.PriorityCritical:
		return colorRed
	case analyzer.PriorityImportant:
		return colorYellow
	case analyzer.PrioritySafe:
		return colorGreen
	default:
		return colorGray
	}
}

func scoreColor(score int) string {
	switch {
	case score >= 90:
		return colorGreen
	case score >= 70:
		return colorYellow
	default:
		return colorRed
	}
}

// RenderReport renders the full analysis as terminal text.
func RenderReport(report *analyzer.AnalysisReport, color bool) string {
	var sb strings.Builder

	sb.WriteString(colorize(colorBold, "Dependency Risk Report", color))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Security score: %s/100\n\n",
		colorize(scoreColor(report.SecurityScore), fmt.Sprintf("%d", report.SecurityScore), color)))

	renderBucket(&sb, "CRITICAL - fix immediately", analyzer.PriorityCritical, report.Critical, color)
	renderBucket(&sb, "IMPORTANT - plan this sprint", analyzer.PriorityImportant, report.Important, color)
	renderBucket(&sb, "SAFE - routine updates", analyzer.PrioritySafe, report.Safe, color)
	renderBucket(&sb, "SKIP - low priority", analyzer.PrioritySkip, report.Skip, color)

	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d packages: %d critical, %d important, %d safe, %d skip\n",
		report.Summary.TotalPackages,
		report.Summary.CriticalCount,
		report.Summary.ImportantCount,
		report.Summary.SafeCount,
		report.Summary.SkipCount))
	sb.WriteString(fmt.Sprintf("Estimated effort: %s\n", report.Summary.EstimatedEffort))
	sb.WriteString(fmt.Sprintf("\n%s\n", colorize(colorBold, report.Summary.Recommendation, color)))

	if report.Freshness != nil {
		sb.WriteString("\n")
		sb.WriteString(RenderFreshness(report.Freshness, color))
	}

	return sb.String()
}

func renderBucket(sb *strings.Builder, title string, priority analyzer.Priority, assessments []analyzer.PackageAssessment, color bool) {
	if len(assessments) == 0 {
		return
	}

	sb.WriteString(colorize(priorityColor(priority), title, color))
	sb.WriteString("\n")

	for _, a := range assessments {
		sb.WriteString(fmt.Sprintf("  %s  %s → %s  (risk %d, effort %s)\n",
			colorize(colorBold, a.Name, color),
			a.CurrentVersion,
			a.LatestVersion,
			a.RiskScore,
			a.Effort))
		sb.WriteString(fmt.Sprintf("      %s\n", a.Reason))
		for _, line := range strings.Split(a.WhyItMatters, "\n") {
			sb.WriteString(fmt.Sprintf("      %s\n", line))
		}
		sb.WriteString(fmt.Sprintf("      run: %s\n", a.UpdateCommand))
		if a.ReadMoreURL != "" {
			sb.WriteString(fmt.Sprintf("      read more: %s\n", colorize(colorGray, a.ReadMoreURL, color)))
		}
	}
	sb.WriteString("\n")
}

// RenderFreshness renders libyear metrics as terminal text.
func RenderFreshness(m *libyear.Metrics, color bool) string {
	var sb strings.Builder

	sb.WriteString(colorize(colorBold, "Freshness (libyear)", color))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Total drift:     %.1f libyears\n", m.TotalLibyears))
	sb.WriteString(fmt.Sprintf("  Average drift:   %.2f libyears per package\n", m.AverageLibyears))
	if m.MaxPackage != "" {
		sb.WriteString(fmt.Sprintf("  Most stale:      %s (%.1f libyears)\n", m.MaxPackage, m.MaxLibyears))
	}
	sb.WriteString(fmt.Sprintf("  Behind by tier:  %d major, %d minor, %d patch\n",
		m.MajorsBehind, m.MinorsBehind, m.PatchesBehind))
	sb.WriteString(fmt.Sprintf("  Missed releases: %d\n", m.ReleasesBehind))
	if !m.NewestRelease.IsZero() {
		sb.WriteString(fmt.Sprintf("  Pulse:           newest release %s\n", humanize.Time(m.NewestRelease)))
	}
	sb.WriteString(fmt.Sprintf("  Freshness score: %s/100\n",
		colorize(scoreColor(m.FreshnessScore), fmt.Sprintf("%d", m.FreshnessScore), color)))

	return sb.String()
}

// RenderUnreferenced lists outdated packages that no source file
// imports. An upgrade there may be better spent on removal.
func RenderUnreferenced(names []string, color bool) string {
	if len(names) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(colorize(colorBold, "Not referenced in source", color))
	sb.WriteString("\n")
	sb.WriteString("  These outdated packages were not found in any import or require\n")
	sb.WriteString("  statement. Consider removing them instead of upgrading:\n")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("    %s\n", name))
	}
	return sb.String()
}
