// SPDX-License-Identifier: MIT

package main

import (
	"github.com/ManuGH/projfile/internal/config"
	"github.com/ManuGH/projfile/internal/log"
	"github.com/ManuGH/projfile/internal/project"
	"github.com/ManuGH/projfile/internal/version"
	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	settings config.Settings
}

func newRootCmd(settings config.Settings) *cobra.Command {
	opts := &globalOptions{settings: settings}

	cmd := &cobra.Command{
		Use:           "projfile",
		Short:         "Inspect and maintain analyzer project files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log.Reconfigure(log.Config{
				Level:   opts.settings.LogLevel,
				Output:  cmd.ErrOrStderr(),
				Service: "projfile",
				Version: version.Version,
			})
			logger := log.Base()
			ctx := log.ContextWithCommand(cmd.Context(), cmd.Name())
			cmd.SetContext(logger.WithContext(ctx))
			return opts.settings.Validate()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.settings.LogLevel, "log-level", settings.LogLevel, "log level (debug, info, warn, error)")
	flags.Int64Var(&opts.settings.MaxDocumentBytes, "max-bytes", settings.MaxDocumentBytes, "largest project file that will be read")

	cmd.AddCommand(
		newShowCmd(opts),
		newValidateCmd(opts),
		newRewriteCmd(opts),
		newDiffCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *globalOptions) readOptions(cmd *cobra.Command) []project.ReadOption {
	return []project.ReadOption{
		project.WithMaxBytes(o.settings.MaxDocumentBytes),
		project.WithLogger(log.WithComponentFromContext(cmd.Context(), "project")),
	}
}

func (o *globalOptions) load(cmd *cobra.Command, path string) (*project.File, error) {
	return project.Load(path, o.readOptions(cmd)...)
}
