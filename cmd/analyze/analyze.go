// Package analyze provides the one-shot CLI analysis command.
package analyze

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/internal/ai"
	"github.com/rkatmsl/smaianalysis/internal/analyzer"
	"github.com/rkatmsl/smaianalysis/internal/config"
	"github.com/rkatmsl/smaianalysis/internal/docx"
	"github.com/rkatmsl/smaianalysis/internal/output"
	"github.com/rkatmsl/smaianalysis/internal/prompt"
	"github.com/rkatmsl/smaianalysis/internal/table"
)

// largePromptBytes is where we start warning that the composed prompt
// may exceed the provider's input window. Composition itself never
// truncates.
const largePromptBytes = 400000

// NewCommand returns the analyze subcommand.
func NewCommand() *cobra.Command {
	var (
		question     string
		questionFile string
		presetFile   string
		presetName   string
		outFile      string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file.xlsx>",
		Short: "Analyze a spreadsheet of social media posts",
		Long: `Loads a spreadsheet, composes it with an analytical question, and
streams the AI-generated strategy report to stdout. Without --question
the default multi-part analytical template is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if providerName == "" {
				providerName = cfg.Provider
			}
			if modelName == "" {
				modelName = cfg.Model
			}

			q, err := resolveQuestion(question, questionFile, presetFile, presetName)
			if err != nil {
				return err
			}

			t, err := table.LoadFile(args[0])
			if err != nil {
				return err
			}

			promptText := prompt.Compose(t, q)
			if len(promptText) > largePromptBytes {
				output.WriteWarning("composed prompt is %d bytes — very large tables may exceed the provider's input limit", len(promptText))
			}

			provider, err := ai.New(providerName, cfg.APIKey(providerName), modelName)
			if err != nil {
				return err
			}

			a := analyzer.New(provider)
			ctx := context.Background()

			if outFile != "" || jsonFlag {
				result, err := a.Analyze(ctx, promptText)
				if err != nil {
					return err
				}
				return emit(result, outFile, jsonFlag)
			}

			textCh, errCh, cancel, err := a.Stream(ctx, promptText)
			if err != nil {
				return err
			}
			defer cancel()

			for text := range textCh {
				fmt.Print(text)
			}
			fmt.Println()

			select {
			case err := <-errCh:
				if err != nil {
					return &analyzer.BackendError{Err: err}
				}
			default:
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Analytical question (default: built-in template)")
	cmd.Flags().StringVar(&questionFile, "question-file", "", "Read the question from a file")
	cmd.Flags().StringVar(&presetFile, "presets", "", "YAML file of saved question presets")
	cmd.Flags().StringVar(&presetName, "preset", "", "Name of the preset to use from --presets")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Also write the report as a .docx to this path")

	return cmd
}

func resolveQuestion(question, questionFile, presetFile, presetName string) (string, error) {
	switch {
	case question != "":
		return question, nil
	case questionFile != "":
		data, err := os.ReadFile(questionFile)
		if err != nil {
			return "", fmt.Errorf("could not read question file %s: %w", questionFile, err)
		}
		return string(data), nil
	case presetName != "":
		if presetFile == "" {
			return "", fmt.Errorf("--preset requires --presets <file>")
		}
		pf, err := prompt.LoadPresets(presetFile)
		if err != nil {
			return "", err
		}
		p, err := pf.Find(presetName)
		if err != nil {
			return "", err
		}
		return p.Question, nil
	default:
		return prompt.DefaultQuestion, nil
	}
}

func emit(result *analyzer.Result, outFile string, jsonFlag bool) error {
	if outFile != "" {
		data, err := docx.WriteReport(result.Content)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outFile, data, 0644); err != nil {
			return fmt.Errorf("could not write %s: %w", outFile, err)
		}
	}

	w := output.NewWriter()
	if jsonFlag {
		return w.WriteJSON(map[string]interface{}{
			"analysis": result.Content,
			"model":    result.Model,
			"tokens":   result.InputTokens + result.OutputTokens,
		})
	}

	w.Heading("Analysis Results")
	return w.WriteLn(result.Content)
}
