package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderinc/pkg/render"
)

// graphCommand creates the graph command, which exports the include graph.
// A circular include still produces the partial graph with the cycle
// highlighted, then fails.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags  resolveFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Export the include graph of a shader source",
		Long: `Export the include graph of a shader source as Graphviz DOT, SVG, JSON or a
terminal tree. When the includes form a cycle the graph up to the cycle is
exported with the cycle highlighted, and the command exits non-zero.`,
		Example: `  shaderinc graph shaders/main.frag --format tree
  shaderinc graph shaders/main.frag --format svg -o includes.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := render.ValidateFormat(format); err != nil {
				return err
			}
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
			opts.Formats = []string{format}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, resolveErr := runner.Execute(ctx, opts)
			if result == nil {
				return resolveErr
			}
			artifacts := result.Artifacts
			if resolveErr != nil {
				if artifacts, err = runner.Render(ctx, result, opts); err != nil {
					return err
				}
			}

			data := artifacts[format]
			if output == "" {
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printFile(output)
			}
			if resolveErr != nil {
				return resolveErr
			}
			if output != "" {
				printStats(result.Stats.Documents, result.Stats.Includes, result.CacheInfo.RenderHit)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatDOT, "output format: dot, svg, json, tree")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
