package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for privacyrank.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privacyrank",
		Short: "Rank websites by privacy and security score",
		Long: `privacyrank looks up privacy and security scores for websites and
classifies each site as Good, Moderate or High Risk from the average
of both scores (Good at 700 and above, Moderate at 500 and above, on a
0-1000 scale).

Scores come from a scoring backend (--remote), a YAML catalog
(--catalog) or the built-in sample data. Results are stored in a local
SQLite database so that history can be reviewed later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewRankCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
