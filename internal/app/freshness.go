package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WillZhangFly/package-outdated-why/internal/libyear"
	"github.com/WillZhangFly/package-outdated-why/internal/npm"
	"github.com/WillZhangFly/package-outdated-why/internal/output"
)

var freshnessNoCache bool

var freshnessCmd = &cobra.Command{
	Use:   "freshness [dir]",
	Short: "Measure dependency staleness in libyears",
	Long: `Compute libyear drift for every outdated dependency: how much
calendar time separates the installed releases from the latest ones,
summed across the project, plus a 0-100 freshness score.

Registry lookups are cached in ~/.outdated-why/registry.db for a day;
--no-cache forces fresh fetches.`,
	Example: `  # Freshness of the current project
  outdated-why freshness

  # Bypass the registry cache
  outdated-why freshness --no-cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFreshness,
}

func init() {
	freshnessCmd.Flags().BoolVar(&freshnessNoCache, "no-cache", false, "Bypass the registry metadata cache")

	RootCmd.AddCommand(freshnessCmd)
}

func runFreshness(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	facts, err := npm.Outdated(dir)
	if err != nil {
		return err
	}

	client := npm.NewRegistryClient(nil)
	if !freshnessNoCache {
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
	fmt.Print(output.RenderFreshness(&metrics, output.IsColorEnabled()))
	return nil
}
