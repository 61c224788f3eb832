package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gamecard/internal/build"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page into the public directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			b := &build.Builder{Cfg: cfg, Logger: logger, Force: force}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages (%d unchanged), %d entries, %d warnings -> %s\n",
				res.Pages, res.Skipped, res.Entries, len(res.Warnings), cfg.Build.PublicDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-render pages even when their inputs did not change")
	return cmd
}
