// Package inspect provides the spreadsheet preview command.
package inspect

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rkatmsl/smaianalysis/internal/output"
	"github.com/rkatmsl/smaianalysis/internal/table"
)

// NewCommand returns the inspect subcommand.
func NewCommand() *cobra.Command {
	var (
		rows     int
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.xlsx>",
		Short: "Preview how a spreadsheet will be parsed",
		Long:  "Parses a spreadsheet the same way analyze does and shows the header, row count, and first rows — useful for checking the data before spending an API call.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			t, err := table.LoadFile(args[0])
			if err != nil {
				return err
			}

			w := output.NewWriter()

			if jsonFlag {
				return w.WriteJSON(map[string]interface{}{
					"file":    args[0],
					"columns": t.Columns,
					"rows":    t.RowCount(),
					"preview": t.Preview(rows),
				})
			}

			if markdown {
				return w.WriteText(t.Markdown())
			}

			w.Heading(fmt.Sprintf("%s — %s", args[0], t.Summary()))
			w.WriteLn(strings.Join(t.Columns, " | "))
			for _, row := range t.Preview(rows) {
				w.WriteLn(strings.Join(row, " | "))
			}
			if t.RowCount() > rows {
				w.WriteLn(fmt.Sprintf("... %d more rows", t.RowCount()-rows))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of data rows to preview")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the full markdown rendering sent to the model")

	return cmd
}
