package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/WillZhangFly/package-outdated-why/internal/output"
	"github.com/WillZhangFly/package-outdated-why/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-run the analysis whenever the manifest changes",
	Long: `Watch package.json and package-lock.json for changes and print a
fresh risk report after each one. Useful while working through a batch
of updates: every npm install triggers a re-analysis.

Press Ctrl-C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	printReport := func() {
		report, err := buildReport(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			return
		}
		fmt.Print(output.RenderReport(report, output.IsColorEnabled()))
	}

	// Initial run before the first change.
	printReport()

	w, err := watcher.New(dir, printReport)
	if err != nil {
		return err
	}
	w.Start()

	fmt.Fprintf(os.Stderr, "\nwatching %s for manifest changes (Ctrl-C to stop)\n", dir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return w.Stop()
}
