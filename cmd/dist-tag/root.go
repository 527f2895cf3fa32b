package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/git-pkgs/disttag"
)

type rootOptions struct {
	config   string
	registry string
	tag      string
	logLevel string
	dir      string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "dist-tag <command> [args]",
		Short: "Modify package distribution tags",
		Long:  "Modify package distribution tags.\n\n" + disttag.Usage,
		Example: "  dist-tag add my-pkg@1.2.0 beta\n" +
			"  dist-tag del my-pkg beta\n" +
			"  dist-tag ls @scope/my-pkg",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := disttag.LoadConfig(opts.config)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := cfg.Logger()
			logger.SetOutput(stderr)

			c, err := disttag.New(cfg, disttag.WithOutput(stdout), disttag.WithLogger(logger))
			if err != nil {
				return err
			}
			return c.Run(cmd.Context(), args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &disttag.UsageError{Usage: err.Error() + "\nUsage:\n" + disttag.Usage}
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "path to config file (default $DIST_TAG_CONFIG or ~/.disttag.yaml)")
	flags.StringVar(&opts.registry, "registry", "", "registry base URL")
	flags.StringVar(&opts.tag, "tag", "", "tag used by add when none is given")
	flags.StringVar(&opts.logLevel, "loglevel", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.dir, "dir", "", "directory holding package.json for ls")

	return cmd
}

// apply copies explicitly set flags over cfg.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *disttag.Config) {
	flags := cmd.Flags()
	if flags.Changed("registry") {
		cfg.Registry = o.registry
	}
	if flags.Changed("tag") {
		cfg.Tag = o.tag
	}
	if flags.Changed("loglevel") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("dir") {
		cfg.Dir = o.dir
	}
}
