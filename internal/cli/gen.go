package cli

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/shaderinc/pkg/errors"
	"github.com/matzehuels/shaderinc/pkg/include"
	"github.com/matzehuels/shaderinc/pkg/render"
	"github.com/matzehuels/shaderinc/pkg/source"
)

// genCommand creates the gen command, which embeds a flattened document in
// generated Go source. It is meant for go:generate lines:
//
//	//go:generate shaderinc gen "shaders/main.frag" -p shaders -n MainFrag -o main_frag.go
func (c *CLI) genCommand() *cobra.Command {
	var (
		flags   resolveFlags
		pkgName string
		name    string
		output  string
	)

	cmd := &cobra.Command{
		Use:   `gen "<file>"`,
		Short: "Generate a Go constant holding a flattened shader",
		Long: `Flatten a shader source and write it as a Go string constant. Takes exactly
one path argument, optionally double-quoted. The generated file lists every
source read so that changes can be tracked.`,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := include.ParseInvocation(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			literal, err := include.ParseInvocation(args)
			if err != nil {
				return err
			}
			if !token.IsIdentifier(pkgName) {
				return errs.New(errs.ErrCodeInvalidInput, "invalid package name %q", pkgName)
			}
			if !token.IsIdentifier(name) {
				return errs.New(errs.ErrCodeInvalidInput, "invalid constant name %q", name)
			}

			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, literal)
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			fs, err := source.NewFS(opts.Root, opts.Relative)
			if err != nil {
				return err
			}
			src, err := generateConst(pkgName, name, result.Text, result.Files, fs.Root)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(output, src, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.Logger.Debug("generated", "output", output, "sources", len(result.Files))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&pkgName, "package", "p", "main", "Go package name of the generated file")
	cmd.Flags().StringVarP(&name, "name", "n", "Shader", "name of the generated constant")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// generateConst renders a gofmt'ed Go file declaring name as text.
func generateConst(pkgName, name, text string, files []string, base string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by %s gen; DO NOT EDIT.\n", appName)
	buf.WriteString("//\n// Sources:\n")
	for _, f := range files {
		fmt.Fprintf(&buf, "//   - %s\n", render.Label(f, base))
	}
	fmt.Fprintf(&buf, "\npackage %s\n\n", pkgName)
	fmt.Fprintf(&buf, "// %s is the flattened source of %s.\n", name, render.Label(files[0], base))
	fmt.Fprintf(&buf, "const %s = %s\n", name, strconv.Quote(text))
	return format.Source(buf.Bytes())
}
