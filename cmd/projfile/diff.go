// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func newDiffCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff A B",
		Short: "Compare the settings of two project files",
		Long: `Compares the settings two project files describe, independent of
formatting, element order and deprecated spellings. Exits with status 1
when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, args[0])
			if err != nil {
				return failure(err)
			}
			b, err := opts.load(cmd, args[1])
			if err != nil {
				return failure(err)
			}

			out := cmd.OutOrStdout()
			diff := cmp.Diff(a.Snapshot(), b.Snapshot())
			if diff == "" {
				fmt.Fprintln(out, "no differences")
				return nil
			}
			fmt.Fprintf(out, "--- %s\n+++ %s\n%s", args[0], args[1], diff)
			return &exitError{code: exitFailure}
		},
	}
}
