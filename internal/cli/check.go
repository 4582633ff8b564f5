package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wdlkit/wdlkit/internal/pipeline"
	"github.com/wdlkit/wdlkit/internal/source"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse, resolve imports, and type-check a WDL document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			src := source.NewDefaultResolver(ctx, cfg.SourceCacheDir, logger)

			res, err := pipeline.Check(ctx, src, args[0])
			if err != nil {
				return err
			}
			if res.Errors.HasErrors() {
				for _, e := range res.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
				}
				os.Exit(1)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}
