package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wdlkit/wdlkit/internal/astlower"
	"github.com/wdlkit/wdlkit/internal/parser"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a WDL document and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			doc, err := parser.ParseDocument(path, string(data))
			if err != nil {
				return err
			}
			if _, err := astlower.Lower(doc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: parsed ok (%d task(s), workflow=%v)\n",
				path, len(doc.Tasks), doc.Workflow != nil)
			return nil
		},
	}
}
