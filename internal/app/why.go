package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
	"github.com/WillZhangFly/package-outdated-why/internal/npm"
	"github.com/WillZhangFly/package-outdated-why/internal/output"
	"github.com/WillZhangFly/package-outdated-why/internal/scanner"
)

var whyCmd = &cobra.Command{
	Use:   "why <package> [dir]",
	Short: "Explain one package's risk assessment in detail",
	Long: `Show the full assessment for a single outdated package: priority
bucket, risk score, effort estimate, narrative explanation, suggested
command, and whether the project's source actually references it.`,
	Example: `  # Explain why lodash is flagged
  outdated-why why lodash

  # Explain a package in another project
  outdated-why why react ../frontend`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWhy,
}

func init() {
	RootCmd.AddCommand(whyCmd)
}

func runWhy(cmd *cobra.Command, args []string) error {
	name := args[0]
	dir := "."
	if len(args) > 1 {
		dir = args[1]
	}

	facts, err := npm.Outdated(dir)
	if err != nil {
		return err
	}

	var fact *analyzer.PackageFact
	for i := range facts {
		if facts[i].Name == name {
			fact = &facts[i]
			break
		}
	}
	if fact == nil {
		return fmt.Errorf("%s is not outdated (or not a dependency of %s)", name, dir)
	}

	advisories, err := npm.Audit(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: npm audit unavailable: %v\n", err)
	}

	assessment := analyzer.Classify(*fact, advisories[name], fact.Kind == analyzer.KindDevelopment)

	referenced := false
	if imports, err := scanner.Imports(dir); err == nil {
		referenced = imports[name]
	}

	renderWhy(&assessment, fact, referenced)
	return nil
}

func renderWhy(a *analyzer.PackageAssessment, fact *analyzer.PackageFact, referenced bool) {
	color := output.IsColorEnabled()
	bold := func(s string) string {
		if color {
			return "\033[1m" + s + "\033[0m"
		}
		return s
	}

	fmt.Printf("%s  %s → %s\n", bold(a.Name), a.CurrentVersion, a.LatestVersion)
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("Priority:   %s\n", a.Priority)
	fmt.Printf("Risk score: %d/100\n", a.RiskScore)
	fmt.Printf("Effort:     %s\n", a.Effort)
	fmt.Printf("Kind:       %s dependency", fact.Kind)
	if fact.Location != "" {
		fmt.Printf(" (%s)", fact.Location)
	}
	fmt.Println()
	if referenced {
		fmt.Println("Usage:      referenced in source")
	} else {
		fmt.Println("Usage:      not referenced in any source file")
	}
	fmt.Println()
	fmt.Printf("Why: %s\n", a.Reason)
	for _, line := range strings.Split(a.WhyItMatters, "\n") {
		fmt.Printf("     %s\n", line)
	}
	if len(a.Advisories) > 0 {
		fmt.Println()
		fmt.Println("Advisories:")
		for _, adv := range a.Advisories {
			fmt.Printf("  [%s] %s\n", adv.Severity, adv.Title)
			if adv.URL != "" {
				fmt.Printf("        %s\n", adv.URL)
			}
		}
	}
	fmt.Println()
	fmt.Printf("Run: %s\n", a.UpdateCommand)
	if a.ReadMoreURL != "" {
		fmt.Printf("Read more: %s\n", a.ReadMoreURL)
	}
}
