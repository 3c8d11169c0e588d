package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderinc/pkg/config"
	"github.com/matzehuels/shaderinc/pkg/pipeline"
)

// resolveFlags holds the flags shared by commands that resolve documents.
// Unset flags fall back to the project config.
type resolveFlags struct {
	root     string // include root directory
	relative bool   // resolve includes against the including file's directory
	maxDepth int    // include nesting limit; 0 = default, -1 = unlimited
	noCache  bool   // bypass the output cache
	refresh  bool   // ignore cached output but write the new result back
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "directory include literals resolve against (default: config root)")
	cmd.Flags().BoolVar(&f.relative, "relative", false, "resolve includes relative to the including file")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum include depth (0 = default, -1 = unlimited)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the output cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached output")
}

// options merges flags over cfg into pipeline options for the document at
// file. The file argument is a path relative to the working directory.
func (f *resolveFlags) options(cmd *cobra.Command, cfg *config.Config, file string) (pipeline.Options, error) {
	path, err := filepath.Abs(file)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Path:     path,
		Root:     cfg.Root,
		Relative: cfg.Relative,
		MaxDepth: cfg.MaxDepth,
		Refresh:  f.refresh,
	}
	flags := cmd.Flags()
	if flags.Changed("root") {
		opts.Root = f.root
	}
	if flags.Changed("relative") {
		opts.Relative = f.relative
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if opts.Root == "" {
		if opts.Root, err = os.Getwd(); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}
