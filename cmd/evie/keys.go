package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/evie/internal/action"
	"github.com/dshills/evie/internal/input/key"
	"github.com/dshills/evie/internal/input/keymap"
	"github.com/dshills/evie/internal/input/mode"
	"github.com/dshills/evie/internal/input/trigger"
)

type bindingRow struct {
	section string
	keys    string
	action  string
}

func newKeysCmd(a *app) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the compiled keymap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.table(cmd.Context())
			if err != nil {
				return err
			}

			var rows []bindingRow
			collect := func(section string, m *trigger.Map[key.Event]) {
				if only != "" && only != section {
					return
				}
				trigger.Walk(m, func(seq []key.Event, act action.Action) {
					rows = append(rows, bindingRow{section, key.FormatSequence(seq), act.String()})
				})
				if m.HasFallback() {
					rows = append(rows, bindingRow{section, "<fallback>", ""})
				}
			}

			switch {
			case only == "":
			case strings.EqualFold(only, keymap.Universal):
				only = keymap.Universal
			default:
				m, err := mode.Parse(only)
				if err != nil {
					return err
				}
				only = m.String()
			}
			for _, m := range mode.All() {
				collect(m.String(), table.Root(m))
			}
			collect(keymap.Universal, table.Universal())

			sort.SliceStable(rows, func(i, j int) bool {
				if rows[i].section != rows[j].section {
					return rows[i].section < rows[j].section
				}
				return rows[i].keys < rows[j].keys
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.section, r.keys, r.action)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&only, "mode", "m", "", "only print one mode, or \"universal\"")
	return cmd
}
