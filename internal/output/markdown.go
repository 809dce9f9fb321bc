package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
)

const markdownTemplate = `# Dependency Risk Report

**Security score:** {{ .SecurityScore }}/100

{{ bucket "Critical" .Critical }}
{{- bucket "Important" .Important }}
{{- bucket "Safe" .Safe }}
{{- bucket "Skip" .Skip }}
## Summary

| Metric | Value |
|--------|-------|
| Packages | {{ .Summary.TotalPackages }} |
| Critical | {{ .Summary.CriticalCount }} |
| Important | {{ .Summary.ImportantCount }} |
| Safe | {{ .Summary.SafeCount }} |
| Skip | {{ .Summary.SkipCount }} |
| Estimated effort | {{ .Summary.EstimatedEffort }} |

> {{ .Summary.Recommendation }}
{{- if .Freshness }}

## Freshness

| Metric | Value |
|--------|-------|
| Total drift | {{ printf "%.1f" .Freshness.TotalLibyears }} libyears |
| Average drift | {{ printf "%.2f" .Freshness.AverageLibyears }} libyears |
| Majors behind | {{ .Freshness.MajorsBehind }} |
| Missed releases | {{ .Freshness.ReleasesBehind }} |
| Freshness score | {{ .Freshness.FreshnessScore }}/100 |
{{- end }}
`

// WriteMarkdown writes the report as a markdown document.
func WriteMarkdown(w io.Writer, report *analyzer.AnalysisReport) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"bucket": markdownBucket,
	}).Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	if err := tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render markdown report: %w", err)
	}
	return nil
}

// markdownBucket renders one priority bucket as a markdown section.
func markdownBucket(title string, assessments []analyzer.PackageAssessment) string {
	if len(assessments) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString("| Package | Current | Latest | Risk | Effort | Reason | Command |\n")
	sb.WriteString("|---------|---------|--------|------|--------|--------|---------|\n")
	for _, a := range assessments {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | %s | `%s` |\n",
			a.Name,
			a.CurrentVersion,
			a.LatestVersion,
			a.RiskScore,
			a.Effort,
			escapePipes(a.Reason),
			a.UpdateCommand))
	}
	sb.WriteString("\n")
	return sb.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
