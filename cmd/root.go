package cmd

import (
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string
)

var rootCmd = &cobra.Command{
	Use:   "videonote",
	Short: "Turn a video into an illustrated markdown note",
	Long: `videonote downloads a video, transcribes it, summarizes the transcript
and illustrates the summary with screenshots of the key moments.

Every stage is checkpointed under the results directory, so an interrupted
run picks up where it stopped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set the global log level based on the flag
		logLevel := utils.LogLevelFromString(verbosityLevel)
		utils.SetLogLevel(logLevel)
	},
	RunE: runNote,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
}
