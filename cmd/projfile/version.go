// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/ManuGH/projfile/internal/project"
	"github.com/ManuGH/projfile/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "projfile %s (project format %s)\n", version.String(), project.FormatVersion)
			return nil
		},
	}
}
