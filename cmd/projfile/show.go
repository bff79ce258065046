// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the settings of a project file",
		Long: `Reads a project file and prints its settings. The yaml format lists
every field by name; the xml format prints the canonical document that
rewrite would produce.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "xml" {
				return fmt.Errorf("unknown format %q (want yaml or xml)", format)
			}
			f, err := opts.load(cmd, args[0])
			if err != nil {
				return failure(err)
			}
			out := cmd.OutOrStdout()
			if format == "xml" {
				if err := f.Encode(out); err != nil {
					return failure(err)
				}
				return nil
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(f.Snapshot()); err != nil {
				return failure(fmt.Errorf("encode yaml: %w", err))
			}
			if err := enc.Close(); err != nil {
				return failure(fmt.Errorf("encode yaml: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or xml)")
	return cmd
}
