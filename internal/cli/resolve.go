package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// resolveCommand creates the resolve command, which flattens one document.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		flags  resolveFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Flatten the includes of a shader source",
		Long: `Resolve every #include "file" directive of a shader source and print the
flattened document. Circular includes are rejected.`,
		Example: `  shaderinc resolve shaders/main.frag
  shaderinc resolve shaders/main.frag -o build/main.frag
  shaderinc resolve --relative --root shaders shaders/post/bloom.frag`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), result.Text)
				return err
			}
			if err := os.WriteFile(output, []byte(result.Text), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("resolved", "file", args[0], "output", output)
			printFile(output)
			printStats(result.Stats.Documents, result.Stats.Includes, result.CacheInfo.OutputHit)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
