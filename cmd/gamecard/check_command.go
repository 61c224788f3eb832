package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gamecard/internal/app"
	"gamecard/internal/ingest"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var failOnWarn bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config and report catalog warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pages, err := app.ResolvePages(cfg)
			if err != nil {
				return err
			}
			opt, err := app.ParserOptions(cfg)
			if err != nil {
				return err
			}
			catalogs, warns, err := ingest.Ingest(cmd.Context(), app.Sources(cfg, pages), opt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries, versions := 0, 0
			for _, c := range catalogs {
				entries += len(c.Entries)
				versions += c.VersionCount()
			}
			for _, w := range warns {
				fmt.Fprintln(out, "warning:", w)
			}
			fmt.Fprintf(out, "%d pages, %d entries, %d versions, %d warnings\n",
				len(pages), entries, versions, len(warns))

			if failOnWarn && len(warns) > 0 {
				return fmt.Errorf("%d warnings", len(warns))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnWarn, "fail-on-warn", false, "Exit non-zero when any warning is reported")
	return cmd
}
