package macro

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dshills/evie/internal/input/key"
)

// Player replays registers held by a Recorder.
type Player struct {
	recorder   *Recorder
	playing    atomic.Bool
	lastPlayed atomic.Int32
}

// NewPlayer creates a player reading registers from recorder.
func NewPlayer(recorder *Recorder) *Player {
	return &Player{recorder: recorder}
}

// Play feeds register's keys to handler count times, stopping at the first
// handler error or when ctx is done. A count below 1 plays once.
//
// A macro cannot start while another is playing, so a binding that plays
// a macro from inside a macro fails with ErrPlaying instead of recursing.
func (p *Player) Play(ctx context.Context, register rune, count int, handler func(key.Event) error) error {
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}
	events := p.recorder.Get(register)
	if len(events) == 0 {
		return fmt.Errorf("%w: %c", ErrEmptyRegister, register)
	}
	if count < 1 {
		count = 1
	}

	if !p.playing.CompareAndSwap(false, true) {
		return ErrPlaying
	}
	defer p.playing.Store(false)

	for i := 0; i < count; i++ {
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := handler(ev); err != nil {
				return err
			}
		}
	}

	p.lastPlayed.Store(register)
	return nil
}

// PlayLast replays the register played most recently, like Vim's @@.
func (p *Player) PlayLast(ctx context.Context, count int, handler func(key.Event) error) error {
	reg := p.lastPlayed.Load()
	if reg == 0 {
		return fmt.Errorf("%w: no macro has been played", ErrEmptyRegister)
	}
	return p.Play(ctx, reg, count, handler)
}

// Playing reports whether a macro is being played.
func (p *Player) Playing() bool {
	return p.playing.Load()
}
