package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wdlkit/wdlkit/internal/eval"
	"github.com/wdlkit/wdlkit/internal/jsonio"
	"github.com/wdlkit/wdlkit/internal/pipeline"
	"github.com/wdlkit/wdlkit/internal/source"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

func newEvalCmd() *cobra.Command {
	var task string

	cmd := &cobra.Command{
		Use:   "eval <file> [inputs.json]",
		Short: "Evaluate a task or workflow's declarations and command",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			src := source.NewDefaultResolver(ctx, cfg.SourceCacheDir, logger)

			codec := jsonio.NewCodec()
			inputs := map[string]wdl.Value{}
			if len(args) > 1 {
				raw := map[string]json.RawMessage{}
				data, err := os.ReadFile(args[1])
				if err != nil {
					return fmt.Errorf("read inputs file: %w", err)
				}
				if err := json.Unmarshal(data, &raw); err != nil {
					return fmt.Errorf("parse inputs file: %w", err)
				}
				for name, msg := range raw {
					v, err := codec.Decode(msg)
					if err != nil {
						return fmt.Errorf("decode input %q: %w", name, err)
					}
					inputs[name] = v
				}
			}

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			files := &eval.LocalFileIO{Src: src, WorkDir: wd}

			res, err := pipeline.Evaluate(ctx, src, files, args[0], pipeline.EvalTarget{TaskName: task}, inputs)
			if err != nil {
				return err
			}

			out := map[string]any{}
			for name, v := range res.Outputs {
				j, err := v.ToJSON()
				if err != nil {
					return fmt.Errorf("serialize output %q: %w", name, err)
				}
				out[name] = j
			}
			if res.Command != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "--- command ---")
				fmt.Fprintln(cmd.OutOrStdout(), res.Command)
				fmt.Fprintln(cmd.OutOrStdout(), "--- outputs ---")
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task name to evaluate (default: the document's workflow)")
	return cmd
}
