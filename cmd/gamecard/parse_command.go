package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gamecard/internal/ingest"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var format string
	var mode string
	var untitled string

	cmd := &cobra.Command{
		Use:         "parse FILE",
		Short:       "Print the entries parsed from a catalog file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ingest.ParseMode(mode)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			opt := ingest.Options{Mode: m, Untitled: untitled}
			entries := ingest.Parse(string(raw), opt)
			for _, w := range ingest.Lint(args[0], entries, opt) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(entries)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(entries); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	cmd.Flags().StringVar(&mode, "mode", string(ingest.ModeTolerant), "Parser mode (tolerant, strict)")
	cmd.Flags().StringVar(&untitled, "untitled", "", "Placeholder title for entries without one")
	return cmd
}
