// Package serve provides the web UI command.
package serve

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/internal/config"
	"github.com/rkatmsl/smaianalysis/internal/server"
	"github.com/rkatmsl/smaianalysis/internal/session"
)

// NewCommand returns the serve subcommand.
func NewCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the single-page analysis web UI",
		Long: `Starts a local web server hosting the analyzer: upload a spreadsheet,
ask a question, run the analysis, and download the report as a .docx.
The server holds one session; it is a single-user tool, not a shared
service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if providerName == "" {
				providerName = cfg.Provider
			}
			if host == "" {
				host = cfg.Server.Host
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			sess := session.New(providerName)
			if key := cfg.APIKey(providerName); key != "" {
				sess.SetCredential(key)
			}
			if modelName != "" {
				sess.SetModel(modelName)
			} else if cfg.Model != "" {
				sess.SetModel(cfg.Model)
			}

			return server.New(host, port, sess, log).Run()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config)")

	return cmd
}
