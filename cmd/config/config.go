// Package config provides CLI commands for configuration management.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/internal/config"
	"github.com/rkatmsl/smaianalysis/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage analyzer configuration",
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newPathCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if jsonFlag {
				// Keys are reported as set/unset, never echoed.
				return output.NewWriter().WriteJSON(map[string]interface{}{
					"provider":      cfg.Provider,
					"model":         cfg.Model,
					"googleKeySet":  cfg.APIKeys.Google != "",
					"openaiKeySet":  cfg.APIKeys.OpenAI != "",
					"server":        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
					"output.format": cfg.Output.Format,
					"output.color":  cfg.Output.Color,
				})
			}

			fmt.Printf("Provider:  %s\n", cfg.Provider)
			if cfg.Model != "" {
				fmt.Printf("Model:     %s\n", cfg.Model)
			} else {
				fmt.Println("Model:     (provider default)")
			}
			fmt.Printf("Server:    %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			printKey("Google", cfg.APIKeys.Google)
			printKey("OpenAI", cfg.APIKeys.OpenAI)
			return nil
		},
	}
}

func printKey(name, key string) {
	if key != "" {
		color.Green("%s key: set", name)
	} else {
		color.Yellow("%s key: not set", name)
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(filepath.Join(config.Dir(), "config.yaml"))
		},
	}
}
