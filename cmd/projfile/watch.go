// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/projfile/internal/log"
	"github.com/ManuGH/projfile/internal/project"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		metricsListen string
		metricsFile   string
	)
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reload a project file whenever it changes",
		Long: `Loads a project file and reloads it after every change on disk,
printing a summary of each successful reload. A change that cannot be read
is logged and the last good settings are kept. Stops on SIGINT or SIGTERM.

Read and reload counters can be scraped from --metrics-listen or written to
--metrics-file after every reload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.load(cmd, args[0])
			if err != nil {
				return failure(err)
			}

			logger := log.WithComponentFromContext(cmd.Context(), "watch")
			out := cmd.OutOrStdout()
			if metricsListen != "" {
				srv, err := startMetricsServer(metricsListen, out, logger)
				if err != nil {
					return failure(err)
				}
				defer srv.Shutdown()
			}
			defer writeMetricsFile(metricsFile, logger)

			fmt.Fprintf(out, "watching %s\n", args[0])
			printSummary(cmd, f)
			writeMetricsFile(metricsFile, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			holder := project.NewHolder(f, opts.readOptions(cmd)...)
			holder.SetDebounce(opts.settings.WatchDebounce)
			updates := make(chan *project.File, 1)
			holder.RegisterListener(updates)
			if err := holder.StartWatcher(ctx); err != nil {
				return failure(err)
			}
			defer holder.Stop()

			for {
				select {
				case <-ctx.Done():
					logger.Info().Msg("watch stopped")
					return nil
				case next := <-updates:
					printSummary(cmd, next)
					writeMetricsFile(metricsFile, logger)
				}
			}
		},
	}
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after every reload")
	return cmd
}

func printSummary(cmd *cobra.Command, f *project.File) {
	tools := make([]string, 0, 2)
	for _, t := range f.EnabledTools() {
		tools = append(tools, t.String())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d paths, %d excluded, %d suppressions, tools [%s]\n",
		f.Filename(), len(f.CheckPaths()), len(f.ExcludedPaths()), len(f.Suppressions()), strings.Join(tools, " "))
}
