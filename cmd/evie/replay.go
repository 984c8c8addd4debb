package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/evie/internal/engine"
	"github.com/dshills/evie/internal/input/key"
	"github.com/dshills/evie/internal/input/macro"
	"github.com/dshills/evie/internal/input/mode"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		keys   string
		record string
		play   string
		count  int
		show   bool
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file>...",
		Short: "Feed a key script to files and save them",
		Long: `Replay opens every file, starting from Normal mode for each one, feeds
the key script through a view of it, and writes the files that changed.

Keys use Vim notation. A script can be recorded into a macro register and
played back later from the macro file:

  evie replay notes.txt --keys 'iHello<Esc>'
  evie replay a.txt --keys 'x' --record q
  evie replay b.txt c.txt --play q --count 3 --print`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var seq []key.Event
			if keys != "" || play == "" {
				var err error
				if seq, err = key.ParseSequence(keys); err != nil {
					return fmt.Errorf("parsing --keys: %w", err)
				}
			}

			rec := macro.NewRecorder()
			player := macro.NewPlayer(rec)
			if record != "" || play != "" {
				if err := macro.Load(a.fs, rec, a.settings.MacroFile); err != nil {
					return err
				}
			}
			var playReg rune
			if play != "" {
				r, err := macro.ParseRegister(play)
				if err != nil {
					return err
				}
				if playReg, _, err = macro.Normalize(r); err != nil {
					return err
				}
			}
			if record != "" {
				r, err := macro.ParseRegister(record)
				if err != nil {
					return err
				}
				if err := rec.Start(r); err != nil {
					return err
				}
			}

			ed, err := a.editor(ctx)
			if err != nil {
				return err
			}
			eng := ed.Engine()

			results := make([]<-chan engine.AddResult, len(args))
			for i, path := range args {
				results[i] = eng.AddAsync(ctx, path, !filepath.IsAbs(path))
			}

			for i, path := range args {
				res := <-results[i]
				if res.Err != nil {
					return res.Err
				}

				if err := ed.ChangeMode(mode.Normal); err != nil {
					return err
				}
				view, err := ed.ViewBuffer(res.Buffer.Path(), false)
				if err != nil {
					return err
				}
				feed := rec.Tee(func(ev key.Event) error {
					_, err := view.OnKey(ev)
					return err
				})

				for _, ev := range seq {
					if err := feed(ev); err != nil {
						return fmt.Errorf("replaying keys on %s: %w", path, err)
					}
				}
				if playReg != 0 {
					if err := player.Play(ctx, playReg, count, feed); err != nil {
						return fmt.Errorf("playing register %c on %s: %w", playReg, path, err)
					}
				}

				// Only the first file contributes to the recording.
				rec.Stop()

				if show {
					snap, err := view.Read()
					if err != nil {
						return err
					}
					fmt.Fprint(cmd.OutOrStdout(), snap.Text())
				}
			}

			var errs []error
			if !noSave {
				errs = append(errs, eng.WriteAll(ctx))
			}
			if record != "" {
				errs = append(errs, macro.Save(a.fs, rec, a.settings.MacroFile))
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}

			stats := ed.Stats()
			a.logger.WithFields(map[string]any{
				"keys":    stats.Keys,
				"actions": stats.Actions,
				"errors":  stats.Errors,
				"mode":    ed.Mode().String(),
			}).Info("replay finished in %s", stats.Uptime)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&keys, "keys", "", "key script in Vim notation")
	flags.StringVarP(&record, "record", "r", "", "record the script into a macro register (A-Z appends)")
	flags.StringVar(&play, "play", "", "play a macro register after the script")
	flags.IntVarP(&count, "count", "n", 1, "number of times to play the macro")
	flags.BoolVarP(&show, "print", "p", false, "print each buffer after the replay")
	flags.BoolVar(&noSave, "no-save", false, "leave files on disk untouched")
	cmd.MarkFlagsOneRequired("keys", "play")
	return cmd
}
