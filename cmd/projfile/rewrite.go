// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRewriteCmd(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "rewrite FILE",
		Short: "Rewrite a project file in canonical form",
		Long: `Reads a project file and writes it back in canonical form: deprecated
element names are replaced, unknown elements and empty entries are dropped
and elements appear in their standard order. The file is replaced
atomically unless --output names another destination.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.load(cmd, args[0])
			if err != nil {
				return failure(err)
			}
			if err := f.Write(output); err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f.Filename())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of replacing FILE")
	return cmd
}
