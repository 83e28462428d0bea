package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "findora",
	Short: "AI-powered lost & found matching service",
	Long: `findora matches reports of lost items against reports of found items
using image embeddings, text embeddings, location proximity and report
timing, and notifies reporters when a high-confidence match appears.

The autonomous agent polls for new reports, extracts features via the
configured encoders, and persists ranked matches to SQLite.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	rootCmd.AddCommand(newAgentCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newItemsCmd())
	rootCmd.AddCommand(newMatchesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("findora version %s\n", version)
		},
	}
}
