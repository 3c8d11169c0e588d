package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderinc/pkg/config"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the project configuration",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var (
		yamlFormat bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default shaderinc.toml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			name := config.FileTOML
			if yamlFormat {
				name = config.FileYAML
			}
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			cfg := config.Default()
			if yamlFormat {
				err = cfg.EncodeYAML(f)
			} else {
				err = cfg.EncodeTOML(f)
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Created %s", path)
			printNextStep("Check your shaders", appName+" check --dir "+dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yamlFormat, "yaml", false, "write shaderinc.yaml instead of TOML")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			source := cfg.Path()
			if source == "" {
				source = "defaults"
			}
			maxDepth := strconv.Itoa(cfg.MaxDepth)
			switch cfg.MaxDepth {
			case 0:
				maxDepth = "default"
			case -1:
				maxDepth = "unlimited"
			}
			ttl := "default"
			if cfg.Cache.TTL.Duration > 0 {
				ttl = cfg.Cache.TTL.String()
			}

			printKeyValue("file", source)
			printKeyValue("root", cfg.Root)
			printKeyValue("relative", strconv.FormatBool(cfg.Relative))
			printKeyValue("max_depth", maxDepth)
			printKeyValue("extensions", strings.Join(cfg.Extensions, " "))
			printKeyValue("cache", cfg.Cache.Backend)
			if cfg.Cache.Backend == config.BackendRedis {
				printKeyValue("redis", cfg.Cache.RedisAddr)
			}
			printKeyValue("cache_ttl", ttl)
			printKeyValue("addr", cfg.Server.Addr)
			return nil
		},
	}
}
