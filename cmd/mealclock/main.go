package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mealclock",
		Short: "Plan a meal so every dish is ready at the same moment",
		Long: `mealclock turns the lead-time of each dish into a countdown: what to start
first, and how long to wait before starting the next one.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newPlanCmd(), newChainCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
