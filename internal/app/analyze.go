package app

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
	"github.com/WillZhangFly/package-outdated-why/internal/libyear"
	"github.com/WillZhangFly/package-outdated-why/internal/npm"
	"github.com/WillZhangFly/package-outdated-why/internal/output"
	"github.com/WillZhangFly/package-outdated-why/internal/scanner"
)

var (
	analyzeFormat       string
	analyzeOutput       string
	analyzeOutdatedFile string
	analyzeAuditFile    string
	analyzeMinScore     int
	analyzeDev          bool
	analyzeFreshness    bool
	analyzeNoCache      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Classify outdated dependencies into a prioritized risk report",
	Long: `Run npm outdated and npm audit for a project, classify every outdated
package into a priority bucket with a risk score and an effort
estimate, and render the aggregate report.

Offline use: --outdated-json and --audit-json read previously captured
'npm outdated --json --long' and 'npm audit --json' output instead of
invoking npm.`,
	Example: `  # Analyze the current directory
  outdated-why analyze

  # Machine-readable output
  outdated-why analyze --format json

  # Markdown for a PR description, including libyear metrics
  outdated-why analyze --format markdown --freshness -o report.md

  # Classify captured CI artifacts without touching npm
  outdated-why analyze --outdated-json outdated.json --audit-json audit.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format: text, json, markdown")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeOutdatedFile, "outdated-json", "", "Read 'npm outdated --json --long' output from a file")
	analyzeCmd.Flags().StringVar(&analyzeAuditFile, "audit-json", "", "Read 'npm audit --json' output from a file")
	analyzeCmd.Flags().IntVar(&analyzeMinScore, "min-score", 0, "Hide packages below this risk score (0-100)")
	analyzeCmd.Flags().BoolVar(&analyzeDev, "dev", true, "Include devDependencies in the report")
	analyzeCmd.Flags().BoolVar(&analyzeFreshness, "freshness", false, "Include libyear freshness metrics (requires registry access)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Bypass the registry metadata cache")

	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	report, err := buildReport(dir)
	if err != nil {
		return err
	}

	w, closeFn, err := reportWriter()
	if err != nil {
		return err
	}
	defer closeFn()

	switch analyzeFormat {
	case "text":
		color := analyzeOutput == "" && output.IsColorEnabled()
		fmt.Fprint(w, output.RenderReport(report, color))
		if note := unreferencedNote(dir, report, color); note != "" {
			fmt.Fprintf(w, "\n%s", note)
		}
		return nil
	case "json":
		return output.WriteJSON(w, report)
	case "markdown":
		return output.WriteMarkdown(w, report)
	default:
		return fmt.Errorf("unknown format: %s (must be text, json, or markdown)", analyzeFormat)
	}
}

// buildReport gathers facts, classifies every package and assembles the
// report, including freshness metrics when requested.
func buildReport(dir string) (*analyzer.AnalysisReport, error) {
	facts, err := loadFacts(dir)
	if err != nil {
		return nil, err
	}

	advisories := loadAdvisories(dir)

	assessments := make([]analyzer.PackageAssessment, 0, len(facts))
	for _, fact := range facts {
		if !analyzeDev && fact.Kind == analyzer.KindDevelopment {
			continue
		}
		a := analyzer.Classify(fact, advisories[fact.Name], fact.Kind == analyzer.KindDevelopment)
		if a.RiskScore < analyzeMinScore {
			continue
		}
		assessments = append(assessments, a)
	}

	report := analyzer.BuildReport(assessments)

	if analyzeFreshness {
		metrics, err := resolveFreshness(facts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: freshness metrics unavailable: %v\n", err)
		} else {
			report.Freshness = metrics
		}
	}

	return &report, nil
}

func loadFacts(dir string) ([]analyzer.PackageFact, error) {
	if analyzeOutdatedFile != "" {
		data, err := os.ReadFile(analyzeOutdatedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", analyzeOutdatedFile, err)
		}
		return npm.ParseOutdated(data)
	}
	return npm.Outdated(dir)
}

// loadAdvisories returns audit findings grouped by package. Audit
// failures degrade to "no advisories" with a warning: a broken audit
// endpoint must not block the report.
func loadAdvisories(dir string) map[string][]analyzer.SecurityAdvisory {
	if analyzeAuditFile != "" {
		data, err := os.ReadFile(analyzeAuditFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to read %s: %v\n", analyzeAuditFile, err)
			return nil
		}
		advisories, _ := npm.ParseAudit(data)
		return advisories
	}

	advisories, err := npm.Audit(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: npm audit unavailable: %v\n", err)
		return nil
	}
	return advisories
}

// resolveFreshness queries the registry (through the cache) for every
// package's publish dates and folds them into libyear metrics.
// Individual lookup failures degrade to unknown dates.
func resolveFreshness(facts []analyzer.PackageFact) (*libyear.Metrics, error) {
	client := npm.NewRegistryClient(nil)
	if !analyzeNoCache {
		st, err := openCache()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (continuing without cache)\n", err)
		} else {
			defer st.Close()
			client.Cache = st
		}
	}

	ages := make([]libyear.PackageAge, 0, len(facts))
	for _, fact := range facts {
		age, err := client.PackageAge(fact.Name, fact.CurrentVersion, fact.LatestVersion)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: registry lookup for %s: %v\n", fact.Name, err)
		}
		ages = append(ages, age)
	}

	metrics := libyear.Aggregate(ages)
	return &metrics, nil
}

// unreferencedNote scans project source for imports and lists outdated
// packages that nothing references. Scan failures drop the note.
func unreferencedNote(dir string, report *analyzer.AnalysisReport, color bool) string {
	imports, err := scanner.Imports(dir)
	if err != nil || len(imports) == 0 {
		return ""
	}

	seen := map[string]bool{}
	var unreferenced []string
	for _, bucket := range [][]analyzer.PackageAssessment{report.Critical, report.Important, report.Safe, report.Skip} {
		for _, a := range bucket {
			if !imports[a.Name] && !seen[a.Name] {
				seen[a.Name] = true
				unreferenced = append(unreferenced, a.Name)
			}
		}
	}
	sort.Strings(unreferenced)

	return output.RenderUnreferenced(unreferenced, color)
}

// reportWriter returns the destination for the rendered report.
func reportWriter() (io.Writer, func(), error) {
	if analyzeOutput == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(analyzeOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", analyzeOutput, err)
	}
	return f, func() { f.Close() }, nil
}
