package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/evie/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Config prints the settings after the file, the environment and flags
have been applied. With --init it writes a default settings file instead,
leaving an existing one alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if write {
				path := a.cfgFile
				if path == "" {
					path = config.FileName
				}
				if err := config.WriteDefault(a.fs, path); err != nil {
					return err
				}
				a.logger.WithField("path", path).Info("settings file ready")
				return nil
			}

			data, err := a.settings.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&write, "init", false, "write a default settings file")
	return cmd
}
