package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderinc/pkg/config"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
	"github.com/matzehuels/shaderinc/pkg/pipeline"
)

// checkCommand creates the check command, which resolves many roots and
// reports every failure.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		flags resolveFlags
		dirs  []string
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Check shader sources for circular or broken includes",
		Long: `Resolve each file independently and report circular includes, missing
files and other resolution errors. Exits non-zero if any file fails.`,
		Example: `  shaderinc check shaders/main.frag shaders/post.frag
  shaderinc check --dir shaders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			files := append([]string(nil), args...)
			for _, dir := range dirs {
				found, err := findSources(dir, cfg)
				if err != nil {
					return err
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				return errs.New(errs.ErrCodeInvalidInput, "no files to check (pass files or --dir)")
			}

			all := make([]pipeline.Options, 0, len(files))
			for _, f := range files {
				opts, err := flags.options(cmd, cfg, f)
				if err != nil {
					return err
				}
				opts.Logger = loggerFromContext(ctx)
				all = append(all, opts)
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			results, err := runner.Check(ctx, all, jobs)
			if err != nil {
				return err
			}
			for i, r := range results {
				reportCheck(files[i], r)
			}

			failed := pipeline.Failed(results)
			prog.done("checked", "files", len(results), "failed", failed)
			if failed > 0 {
				printError("%d of %d files failed", failed, len(results))
				return ErrReported
			}
			printSuccess("All %d files resolved", len(results))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "check every source file under this directory (repeatable)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum concurrent resolutions (default: GOMAXPROCS)")

	return cmd
}

func reportCheck(file string, r pipeline.CheckResult) {
	if r.OK() {
		detail := fmt.Sprintf("%d documents", r.Documents)
		if r.Cached {
			detail += " · " + iconCached
		}
		printSuccess("%s %s", file, StyleDim.Render(detail))
		return
	}
	printError("%s", file)
	if len(r.Cycle) > 0 {
		printDetail("circular include: %s", strings.Join(r.Cycle, " -> "))
		return
	}
	printDetail("%s", errs.UserMessage(r.Err))
}

// findSources returns the files under dir with a configured extension, in
// lexical order.
func findSources(dir string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.HasExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}
