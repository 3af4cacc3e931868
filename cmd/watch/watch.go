// Package watch provides the re-analyze-on-change command.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/internal/config"
	"github.com/rkatmsl/smaianalysis/internal/docx"
	"github.com/rkatmsl/smaianalysis/internal/prompt"
	"github.com/rkatmsl/smaianalysis/internal/session"
	"github.com/rkatmsl/smaianalysis/internal/watch"
)

// NewCommand returns the watch subcommand.
func NewCommand() *cobra.Command {
	var (
		question string
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "watch <file.xlsx>",
		Short: "Re-run the analysis whenever the spreadsheet changes",
		Long: `Watches a spreadsheet file and re-runs the analysis after every save,
writing the refreshed report as a .docx next to the source file. Each
save fully replaces the loaded table.`,
		Args: cobra.ExactArgs(1),
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
			if question != "" {
				sess.SetQuestion(question)
			} else {
				sess.SetQuestion(prompt.DefaultQuestion)
			}

			if outFile == "" {
				base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				outFile = base + "_analysis.docx"
			}

			run := func(ctx context.Context, path string) error {
				if err := sess.LoadFile(path); err != nil {
					return err
				}
				fmt.Printf("Change detected — analyzing %s (%s)...\n", path, sess.Table().Summary())
				result, err := sess.Analyze(ctx)
				if err != nil {
					return err
				}
				data, err := docx.WriteReport(result.Content)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outFile, data, 0644); err != nil {
					return fmt.Errorf("could not write %s: %w", outFile, err)
				}
				color.Green("Report updated: %s", outFile)
				return nil
			}

			w, err := watch.New(args[0], run)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			// Analyze once up front so the report exists before the
			// first save.
			if err := run(ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("Watching %s — press Ctrl+C to stop.\n", args[0])
			err = w.Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Analytical question (default: built-in template)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Report path (default: <file>_analysis.docx)")

	return cmd
}
