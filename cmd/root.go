// Package cmd contains all CLI commands for the sma binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/cmd/analyze"
	cmdconfig "github.com/rkatmsl/smaianalysis/cmd/config"
	"github.com/rkatmsl/smaianalysis/cmd/inspect"
	"github.com/rkatmsl/smaianalysis/cmd/serve"
	"github.com/rkatmsl/smaianalysis/cmd/shell"
	"github.com/rkatmsl/smaianalysis/cmd/version"
	cmdwatch "github.com/rkatmsl/smaianalysis/cmd/watch"
)

var (
	jsonOutput bool
	verbose    bool
	modelName  string
	provider   string
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all
// subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sma",
		Short: "AI-powered social media data analysis",
		Long: `Social Media Analyzer — strategic insight from post metrics.

Load a spreadsheet of social media posts, ask an analytical question,
and get an AI-generated strategy report you can export as a document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model name override")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", os.Getenv("SMA_PROVIDER"), "Analysis provider: gemini | openai (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(analyze.NewCommand())
	rootCmd.AddCommand(serve.NewCommand())
	rootCmd.AddCommand(shell.NewCommand())
	rootCmd.AddCommand(inspect.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
