package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "An AI tutor for technology and programming",
	Long: `tutor answers technology questions and explains code using AI,
and generates synthetic datasets for testing and prototyping.

Examples:
  tutor ask "what is a goroutine?"
  tutor ask --code --language python "def f(x): return x*2"
  tutor generate --domain ecommerce --samples 50 --format csv
  tutor serve --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

// SetVersion wires the build-time version into the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the entry point called from main.
func Execute() error {
	return rootCmd.Execute()
}
