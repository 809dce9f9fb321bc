package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/WillZhangFly/package-outdated-why/internal/store"
)

var (
	cachePath string

	// RootCmd is the root command for outdated-why
	RootCmd = &cobra.Command{
		Use:   "outdated-why",
		Short: "Explain which outdated npm dependencies actually matter",
		Long: `outdated-why turns npm's outdated and audit output into a prioritized
risk report: which updates are urgent, which can wait, why, and how
long the whole batch should take.

Packages are classified into four buckets:
  critical   - a high or critical severity vulnerability is known
  important  - lower-severity vulnerability, or a major update pending
  safe       - minor/patch updates on production dependencies
  skip       - housekeeping on dev-only dependencies

Examples:
  # Analyze the project in the current directory
  outdated-why analyze

  # Explain a single package's assessment
  outdated-why why lodash

  # Measure dependency staleness in libyears
  outdated-why freshness

  # Re-analyze whenever package.json changes
  outdated-why watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("outdated-why: prioritized npm dependency risk reports")
			fmt.Println()
			fmt.Println("Run 'outdated-why analyze' in a project directory to get started.")
			fmt.Println("Run 'outdated-why --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "registry cache path (default: ~/.outdated-why/registry.db)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getCachePath returns the cache database path, using the flag value or default
func getCachePath() (string, error) {
	if cachePath != "" {
		return cachePath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".outdated-why")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return filepath.Join(dir, "registry.db"), nil
}

// openCache opens the registry cache store and ensures its schema exists.
func openCache() (*store.Store, error) {
	path, err := getCachePath()
	if err != nil {
		return nil, err
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry cache: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
