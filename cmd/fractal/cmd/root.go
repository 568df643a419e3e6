package cmd

import (
	"os"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

var verbose bool

func init() {
	log.SetHandler(clihander.Default)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
}

// rootCmd starts the interactive explorer when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "fractal",
	Short: "Explore and export fractals from your terminal",
	Long: `fractal renders escape-time fractals and Newton basins as live character
rasters. Run it without arguments to start the interactive explorer; use the
subcommands to export PNGs, serve renders over HTTP, or inspect what this
terminal can display.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplorer()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
