package main

import (
	"strings"

	"github.com/spf13/cobra"

	"gamecard/internal/serve"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server with live reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if v := strings.TrimSpace(addr); v != "" {
				cfg.Serve.Addr = v
			}
			if noWatch {
				cfg.Serve.Watch = false
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s, err := serve.New(cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.ListenAndServe(cmd.Context(), cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides serve.addr)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not rebuild when source files change")
	return cmd
}
