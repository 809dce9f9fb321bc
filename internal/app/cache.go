package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the registry metadata cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached registry lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCache()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearRegistryCache(); err != nil {
			return err
		}
		fmt.Println("registry cache cleared")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and age",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCache()
		if err != nil {
			return err
		}
		defer st.Close()

		count, oldest, err := st.RegistryCacheStats()
		if err != nil {
			return err
		}

		fmt.Printf("cached packages: %d\n", count)
		if !oldest.IsZero() {
			fmt.Printf("oldest entry:    %s\n", oldest.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	RootCmd.AddCommand(cacheCmd)
}
