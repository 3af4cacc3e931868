// Package shell provides the interactive session command.
package shell

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/internal/config"
	"github.com/rkatmsl/smaianalysis/internal/session"
	"github.com/rkatmsl/smaianalysis/internal/shell"
)

// NewCommand returns the shell subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive analysis session",
		Long: `Opens a REPL for one analysis session: load a spreadsheet, set a
question, pick a provider, analyze, and export — with the loaded table
held in memory between commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if providerName == "" {
				providerName = cfg.Provider
			}

			sess := session.New(providerName)
			if key := cfg.APIKey(providerName); key != "" {
				sess.SetCredential(key)
			}
			if modelName != "" {
				sess.SetModel(modelName)
			} else if cfg.Model != "" {
				sess.SetModel(cfg.Model)
			}

			return shell.New(sess).Run(context.Background())
		},
	}
}
