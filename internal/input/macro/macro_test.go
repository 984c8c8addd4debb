package macro

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/evie/internal/input/key"
)

func seq(t *testing.T, spec string) []key.Event {
	t.Helper()
	events, err := key.ParseSequence(spec)
	require.NoError(t, err)
	return events
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      rune
		reg     rune
		appends bool
		valid   bool
	}{
		{'a', 'a', false, true},
		{'z', 'z', false, true},
		{'0', '0', false, true},
		{'Q', 'q', true, true},
		{'!', 0, false, false},
		{'é', 0, false, false},
		{0, 0, false, false},
	}

	for _, tt := range tests {
		reg, appends, err := Normalize(tt.in)
		if !tt.valid {
			assert.ErrorIs(t, err, ErrInvalidRegister, "%q", tt.in)
			continue
		}
		require.NoError(t, err, "%q", tt.in)
		assert.Equal(t, tt.reg, reg)
		assert.Equal(t, tt.appends, appends)
	}
}

func TestParseRegister(t *testing.T) {
	r, err := ParseRegister("A")
	require.NoError(t, err)
	assert.Equal(t, 'A', r)

	for _, bad := range []string{"", "ab", "?"} {
		_, err := ParseRegister(bad)
		assert.ErrorIs(t, err, ErrInvalidRegister, bad)
	}
}

func TestRecord(t *testing.T) {
	rec := NewRecorder()

	rec.Record(key.Char('x'))
	assert.Empty(t, rec.Registers(), "keys outside a recording are dropped")

	require.NoError(t, rec.Start('a'))
	reg, on := rec.Recording()
	assert.True(t, on)
	assert.Equal(t, 'a', reg)
	assert.ErrorIs(t, rec.Start('b'), ErrRecording)

	for _, ev := range seq(t, "iHi<Esc>") {
		rec.Record(ev)
	}
	got := rec.Stop()
	assert.Equal(t, seq(t, "iHi<Esc>"), got)
	assert.Equal(t, seq(t, "iHi<Esc>"), rec.Get('a'))

	_, on = rec.Recording()
	assert.False(t, on)
	assert.Nil(t, rec.Stop())
}

func TestRecordUppercaseAppends(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Set('a', seq(t, "ab")))

	require.NoError(t, rec.Start('A'))
	rec.Record(key.Char('c'))
	rec.Stop()
	assert.Equal(t, seq(t, "abc"), rec.Get('a'))

	require.NoError(t, rec.Start('a'))
	rec.Record(key.Char('d'))
	rec.Stop()
	assert.Equal(t, seq(t, "d"), rec.Get('a'))
}

func TestEmptyRecordingKeepsRegister(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Set('q', seq(t, "x")))

	require.NoError(t, rec.Start('q'))
	rec.Stop()
	assert.Equal(t, seq(t, "x"), rec.Get('q'))
}

func TestGetReturnsCopy(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Set('a', seq(t, "ab")))

	got := rec.Get('a')
	got[0] = key.Char('z')
	assert.Equal(t, seq(t, "ab"), rec.Get('a'))
}

func TestSet(t *testing.T) {
	rec := NewRecorder()
	assert.ErrorIs(t, rec.Set('A', seq(t, "x")), ErrInvalidRegister)

	require.NoError(t, rec.Set('b', seq(t, "x")))
	require.NoError(t, rec.Set('a', seq(t, "y")))
	assert.Equal(t, []rune{'a', 'b'}, rec.Registers())

	require.NoError(t, rec.Set('a', nil))
	assert.Equal(t, []rune{'b'}, rec.Registers())
}

func TestTee(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Start('t'))

	var seen []key.Event
	feed := rec.Tee(func(ev key.Event) error {
		seen = append(seen, ev)
		return nil
	})
	for _, ev := range seq(t, "dd") {
		require.NoError(t, feed(ev))
	}
	rec.Stop()

	assert.Equal(t, seq(t, "dd"), seen)
	assert.Equal(t, seq(t, "dd"), rec.Get('t'))
}

func TestPlay(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Set('a', seq(t, "xy")))
	p := NewPlayer(rec)

	var got []key.Event
	collect := func(ev key.Event) error {
		got = append(got, ev)
		return nil
	}

	require.NoError(t, p.Play(context.Background(), 'a', 3, collect))
	assert.Equal(t, seq(t, "xyxyxy"), got)

	got = nil
	require.NoError(t, p.Play(context.Background(), 'a', 0, collect))
	assert.Equal(t, seq(t, "xy"), got)

	got = nil
	require.NoError(t, p.PlayLast(context.Background(), 1, collect))
	assert.Equal(t, seq(t, "xy"), got)
}

func TestPlayErrors(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Set('a', seq(t, "xyz")))
	p := NewPlayer(rec)
	ctx := context.Background()
	nop := func(key.Event) error { return nil }

	assert.ErrorIs(t, p.Play(ctx, 'b', 1, nop), ErrEmptyRegister)
	assert.ErrorIs(t, p.Play(ctx, '#', 1, nop), ErrInvalidRegister)
	assert.ErrorIs(t, p.PlayLast(ctx, 1, nop), ErrEmptyRegister)

	boom := errors.New("boom")
	calls := 0
	err := p.Play(ctx, 'a', 1, func(key.Event) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.False(t, p.Playing())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, p.Play(cancelled, 'a', 1, nop), context.Canceled)
}

func TestPlayIsNotReentrant(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Set('a', seq(t, "x")))
	p := NewPlayer(rec)

	var inner error
	err := p.Play(context.Background(), 'a', 1, func(key.Event) error {
		assert.True(t, p.Playing())
		inner = p.Play(context.Background(), 'a', 1, func(key.Event) error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrPlaying)
}

func TestConcurrentRecordAndGet(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Start('c'))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec.Record(key.Char('k'))
				_ = rec.Get('c')
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Stop(), 800)
}

func TestSaveAndLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	rec := NewRecorder()
	require.NoError(t, rec.Set('a', seq(t, "iHello<Esc>")))
	require.NoError(t, rec.Set('q', seq(t, "0x<Down><C-s>")))

	require.NoError(t, Save(fsys, rec, "/state/macros.toml"))
	exists, err := afero.Exists(fsys, "/state/macros.toml.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	loaded := NewRecorder()
	require.NoError(t, Load(fsys, loaded, "/state/macros.toml"))
	assert.Equal(t, []rune{'a', 'q'}, loaded.Registers())
	assert.Equal(t, rec.Get('a'), loaded.Get('a'))
	assert.Equal(t, rec.Get('q'), loaded.Get('q'))
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()

	rec := NewRecorder()
	require.NoError(t, Load(fsys, rec, "/missing.toml"))
	assert.Empty(t, rec.Registers())

	require.NoError(t, afero.WriteFile(fsys, "/m.toml", []byte("[registers]\nw = \"<lt>b>\"\n"), 0o644))
	require.NoError(t, Load(fsys, rec, "/m.toml"))
	assert.Equal(t, []key.Event{key.Char('<'), key.Char('b'), key.Char('>')}, rec.Get('w'))

	tests := map[string]string{
		"bad register": "[registers]\nAB = \"x\"\n",
		"bad keys":     "[registers]\na = \"\"\n",
		"unknown key":  "version = 2\n",
		"syntax":       "[registers\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, afero.WriteFile(fsys, "/bad.toml", []byte(content), 0o644))
			assert.Error(t, Load(fsys, NewRecorder(), "/bad.toml"))
		})
	}
}
