package main

import (
	"fmt"
	"os"
	"telemetryd/internal/structures"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:   "telemetryd",
	Short: "Popup Maker usage telemetry daemon",
	Long: `Aggregates popup configuration into an anonymous usage report and
sends it at most once per throttle window, only after an administrator
has opted in.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Log to the console as well")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(setCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
