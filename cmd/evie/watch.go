package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/evie/internal/engine"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>...",
		Short: "Open files and report when they change on disk",
		Long: `Watch opens every file as a buffer and prints one line per change to the
file on disk until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			for _, path := range args {
				if _, err := eng.Add(path, !filepath.IsAbs(path)); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			return eng.Watch(cmd.Context(), func(c engine.Change) {
				fmt.Fprintf(out, "%s\t%s\t%s\n", c.Op, c.Path, c.Buffer.ID())
			})
		},
	}
}
