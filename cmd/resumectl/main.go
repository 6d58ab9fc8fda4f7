// Command resumectl works with resume documents offline: it validates draft
// JSON, renders previews and PDFs, and answers FAQ questions.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/resumeforge/resumeforge/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Validate, preview and export resume documents",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Init("debug")
			return
		}
		logger.Init(os.Getenv("LOG_LEVEL"))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(faqCmd, draftCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
