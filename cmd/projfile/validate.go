// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/ManuGH/projfile/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that project files can be read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.WithComponentFromContext(cmd.Context(), "validate")
			results := make([]error, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(opts.settings.ValidateConcurrency)
			for i, path := range args {
				g.Go(func() error {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					_, results[i] = opts.load(cmd, path)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return failure(err)
			}

			invalid := 0
			out := cmd.OutOrStdout()
			for i, path := range args {
				if err := results[i]; err != nil {
					invalid++
					fmt.Fprintf(out, "✗ %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "✓ %s is valid\n", path)
			}
			logger.Info().Int("files", len(args)).Int("invalid", invalid).Msg("validation finished")

			if invalid > 0 {
				return &exitError{code: exitFailure}
			}
			return nil
		},
	}
}
