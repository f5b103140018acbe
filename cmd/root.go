package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "normanav",
	Short: "Reader and navigator for a hierarchically-structured norm",
	Long: `Normanav loads a pre-built legal document (titles, chapters, sections,
articles and their sub-units) together with its systematic, subject and
references indexes, and serves the navigation core: multi-term search,
cross-reference resolution, subject filtering and historical-version
comparison.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".normanav.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
