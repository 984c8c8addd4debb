// Package macro records key sequences into named registers and plays them
// back, the way Vim's q and @ commands do.
//
// Registers are the lowercase letters a-z and the digits 0-9. Recording to
// an uppercase letter appends to the matching lowercase register.
//
//	rec := macro.NewRecorder()
//	_ = rec.Start('a')
//	feed := rec.Tee(func(ev key.Event) error {
//	    _, err := view.OnKey(ev)
//	    return err
//	})
//	// ... every key goes through feed ...
//	rec.Stop()
//
//	p := macro.NewPlayer(rec)
//	err := p.Play(ctx, 'a', 3, feed)
//
// Registers persist in a TOML file with one Vim-notation string per
// register, so they can be edited by hand:
//
//	[registers]
//	a = "iHello<Esc>"
//	q = "0x<Down>"
//
// All types are safe for concurrent use.
package macro
