package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/evie/internal/action"
	"github.com/dshills/evie/internal/engine"
	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/input/mode"
	"github.com/dshills/evie/internal/input/trigger"
)

const esc = '\x1b'

func newEngine(t testing.TB, files map[string]string) *engine.Engine {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "/work/"+name, []byte(content), 0o644))
	}
	eng, err := engine.New("/work", engine.WithFS(fsys))
	require.NoError(t, err)
	return eng
}

func letters(r rune) (trigger.Trigger[rune], bool) {
	if r >= 'a' && r <= 'z' {
		return trigger.End[rune](action.Append(string(r))), true
	}
	return trigger.Trigger[rune]{}, false
}

// testTable is a small keymap over runes:
//
//	normal:    i -> mode insert, gg -> move up, gx -> delete-forward, x -> delete-backward
//	insert:    letters -> append
//	universal: esc -> mode normal, qw -> save, qq -> move down
func testTable(t testing.TB) *trigger.Modes[rune] {
	t.Helper()
	mb := trigger.NewModesBuilder[rune]()
	normal := mb.Mode(mode.Normal)
	require.NoError(t, normal.Bind([]rune("i"), action.Switch(mode.Insert)))
	require.NoError(t, normal.Bind([]rune("gg"), action.Move(buffer.Up)))
	require.NoError(t, normal.Bind([]rune("gx"), action.Edit(buffer.DeleteForward{})))
	require.NoError(t, normal.Bind([]rune("x"), action.Edit(buffer.DeleteBackward{})))
	require.NoError(t, mb.Mode(mode.Insert).SetFallback(nil, letters))

	u := mb.Universal()
	require.NoError(t, u.Bind([]rune{esc}, action.Switch(mode.Normal)))
	require.NoError(t, u.Bind([]rune("qw"), action.Edit(buffer.Save{})))
	require.NoError(t, u.Bind([]rune("qq"), action.Move(buffer.Down)))
	return mb.Build()
}

func TestTriggerEntersInsertMode(t *testing.T) {
	table := testTable(t)
	ed := New(newEngine(t, nil), table)
	assert.Equal(t, mode.Normal, ed.Mode())

	a, ok := ed.Trigger('i')
	require.True(t, ok)
	assert.Equal(t, action.Switch(mode.Insert), a)

	require.NoError(t, ed.Apply(a, nil))
	assert.Equal(t, mode.Insert, ed.Mode())
	assert.Same(t, table.Root(mode.Insert), ed.Cursor())
}

func TestTypingThroughView(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t), WithInitialMode(mode.Insert))
	_, err := ed.AddBuffer("f", true)
	require.NoError(t, err)

	view, err := ed.ViewBuffer("f", true)
	require.NoError(t, err)

	changed, err := view.OnKey('h')
	require.NoError(t, err)
	assert.True(t, changed)
	assertText(t, view, "h")

	changed, err = view.OnKey('i')
	require.NoError(t, err)
	assert.True(t, changed)
	assertText(t, view, "hi")

	changed, err = view.OnKey(esc)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, mode.Normal, ed.Mode())
	assertText(t, view, "hi")
}

func assertText(t *testing.T, v *View[rune], want string) {
	t.Helper()
	snap, err := v.Read()
	require.NoError(t, err)
	assert.Equal(t, want, snap.Text())
}

func TestAddBufferReadsOrStartsEmpty(t *testing.T) {
	ed := New(newEngine(t, map[string]string{"existing.txt": "abc"}), testTable(t))

	missing, err := ed.AddBuffer("missing.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "", missing.Text())

	existing, err := ed.AddBuffer("existing.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "abc", existing.Text())
}

func TestUnmatchedKeyIsNotAnAction(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t))

	a, ok := ed.Trigger('z')
	assert.False(t, ok)
	assert.Nil(t, a)
	assert.False(t, ed.Pending())
}

func TestMultiKeySequence(t *testing.T) {
	table := testTable(t)
	ed := New(newEngine(t, nil), table)

	_, ok := ed.Trigger('g')
	assert.False(t, ok)
	assert.True(t, ed.Pending())
	assert.NotSame(t, table.Root(mode.Normal), ed.Cursor())

	a, ok := ed.Trigger('g')
	require.True(t, ok)
	assert.Equal(t, action.Move(buffer.Up), a)
	assert.False(t, ed.Pending())
}

func TestBrokenSequenceFallsThroughToUniversal(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t))

	_, ok := ed.Trigger('g')
	require.False(t, ok)

	// The mode map is mid-sequence and has no 'q' entry, so the Universal
	// root is consulted for the same key.
	_, ok = ed.Trigger('q')
	assert.False(t, ok)
	assert.True(t, ed.Pending())

	a, ok := ed.Trigger('w')
	require.True(t, ok)
	assert.Equal(t, action.Edit(buffer.Save{}), a)
	assert.False(t, ed.Pending())
}

func TestUniversalSequenceContinuesInUniversalTrie(t *testing.T) {
	table := testTable(t)
	ed := New(newEngine(t, nil), table)

	_, ok := ed.Trigger('q')
	require.False(t, ok)
	assert.True(t, ed.Pending())

	// 'x' is bound in the Normal root but the cursor is inside the
	// Universal trie, which has no 'x' after 'q'. The cursor resets and
	// the Universal root has no 'x' either.
	_, ok = ed.Trigger('x')
	assert.False(t, ok)
	assert.Same(t, table.Root(mode.Normal), ed.Cursor())

	_, ok = ed.Trigger('q')
	require.False(t, ok)
	a, ok := ed.Trigger('q')
	require.True(t, ok)
	assert.Equal(t, action.Move(buffer.Down), a)
}

func TestModeIsolation(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t), WithInitialMode(mode.Visual))

	for _, k := range []rune("igx") {
		_, ok := ed.Trigger(k)
		assert.False(t, ok, "%q is a normal mode binding", k)
	}

	a, ok := ed.Trigger(esc)
	require.True(t, ok, "universal bindings apply in every mode")
	assert.Equal(t, action.Switch(mode.Normal), a)
}

func TestChangeModeDiscardsSequence(t *testing.T) {
	table := testTable(t)
	ed := New(newEngine(t, nil), table)

	_, _ = ed.Trigger('g')
	require.True(t, ed.Pending())

	require.NoError(t, ed.ChangeMode(mode.Normal))
	assert.False(t, ed.Pending())
	assert.Same(t, table.Root(mode.Normal), ed.Cursor())

	assert.ErrorIs(t, ed.ChangeMode(mode.Mode(99)), ErrInvalidMode)
	assert.Equal(t, mode.Normal, ed.Mode())
}

func TestOnModeChange(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t))

	type change struct{ from, to mode.Mode }
	var got []change
	unregister := ed.OnModeChange(func(from, to mode.Mode) {
		got = append(got, change{from, to})
	})

	require.NoError(t, ed.ChangeMode(mode.Insert))
	require.NoError(t, ed.Apply(action.Switch(mode.Command), nil))
	unregister()
	require.NoError(t, ed.ChangeMode(mode.Normal))

	assert.Equal(t, []change{{mode.Normal, mode.Insert}, {mode.Insert, mode.Command}}, got)
	assert.Equal(t, uint64(3), ed.Stats().ModeChanges)
}

func TestViewErrors(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t), WithInitialMode(mode.Insert))
	view, err := ed.ViewBuffer("never-added", true)
	require.NoError(t, err)

	_, err = view.Read()
	assert.ErrorIs(t, err, engine.ErrMissingPath)

	changed, err := view.OnKey('a')
	assert.ErrorIs(t, err, engine.ErrMissingPath)
	assert.False(t, changed)

	changed, err = view.OnKey('1')
	require.NoError(t, err)
	assert.False(t, changed, "unbound keys do nothing")

	assert.Error(t, ed.Apply(action.Append("x"), nil))
}

func TestViewInvalidOffset(t *testing.T) {
	mb := trigger.NewModesBuilder[rune]()
	require.NoError(t, mb.Mode(mode.Normal).Bind([]rune("d"), action.Edit(buffer.Delete{Range: buffer.NewRange(0, 1)})))
	ed := New(newEngine(t, map[string]string{"u.txt": "é"}), mb.Build())

	_, err := ed.AddBuffer("u.txt", true)
	require.NoError(t, err)
	view, err := ed.ViewBuffer("u.txt", true)
	require.NoError(t, err)

	_, err = view.OnKey('d')
	assert.ErrorIs(t, err, buffer.ErrInvalidOffset)
	assertText(t, view, "é")
	assert.Equal(t, uint64(1), ed.Stats().Errors)
}

func TestViewsShareBuffer(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t), WithInitialMode(mode.Insert))
	_, err := ed.AddBuffer("shared", true)
	require.NoError(t, err)

	v1, err := ed.ViewBuffer("shared", true)
	require.NoError(t, err)
	v2, err := ed.ViewBuffer("/work/shared", false)
	require.NoError(t, err)
	assert.Equal(t, v1.Path(), v2.Path())

	_, err = v1.Keys('a', 'b')
	require.NoError(t, err)
	_, err = v2.Keys('c')
	require.NoError(t, err)
	assertText(t, v2, "abc")
}

func TestConcurrentKeys(t *testing.T) {
	ed := New(newEngine(t, nil), testTable(t), WithInitialMode(mode.Insert))
	_, err := ed.AddBuffer("c", true)
	require.NoError(t, err)
	view, err := ed.ViewBuffer("c", true)
	require.NoError(t, err)

	const workers, perWorker = 8, 200
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		applied   int
		conflicts int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				changed, err := view.OnKey('a')
				mu.Lock()
				switch {
				case err == nil && changed:
					applied++
				case errors.Is(err, buffer.ErrBorrowConflict):
					conflicts++
				default:
					t.Errorf("unexpected result: %v, %v", changed, err)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	snap, err := view.Read()
	require.NoError(t, err)
	assert.Equal(t, applied, int(snap.Len()))
	assert.Equal(t, workers*perWorker, applied+conflicts)
	assert.Equal(t, uint64(workers*perWorker), ed.Stats().Keys)
}

// genKeys draws key sequences over an alphabet that exercises every path:
// bound keys, prefixes, fallback keys and keys nothing matches.
func genKeys(t *rapid.T) []rune {
	return rapid.SliceOfN(rapid.RuneFrom([]rune{'i', 'g', 'x', 'q', 'w', 'a', 'b', '1', esc}), 0, 64).Draw(t, "keys")
}

func replay(ed *Editor[rune], keys []rune) []action.Action {
	var out []action.Action
	for _, k := range keys {
		if a, ok := ed.Trigger(k); ok {
			out = append(out, a)
			if action.IsCore(a) {
				_ = ed.Apply(a, nil)
			}
		}
	}
	return out
}

func TestTriggerDeterminism(t *testing.T) {
	table := testTable(t)
	eng := newEngine(t, nil)

	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom(mode.All()).Draw(t, "mode")
		keys := genKeys(t)

		first := replay(New(eng, table, WithInitialMode(start)), keys)

		ed := New(eng, table)
		_ = ed.ChangeMode(start)
		second := replay(ed, keys)

		if len(first) != len(second) {
			t.Fatalf("replays differ: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("action %d differs: %v vs %v", i, first[i], second[i])
			}
		}
	})
}

func TestCursorResetInvariant(t *testing.T) {
	table := testTable(t)
	eng := newEngine(t, nil)

	rapid.Check(t, func(t *rapid.T) {
		ed := New(eng, table)
		for _, k := range genKeys(t) {
			m := ed.Mode()
			_, modeOK := ed.Cursor().Resolve(k)
			_, universalOK := table.Universal().Resolve(k)

			a, ok := ed.Trigger(k)
			if ok && action.IsCore(a) {
				_ = ed.Apply(a, nil)
			}

			if ok || (!modeOK && !universalOK) {
				if ed.Cursor() != table.Root(ed.Mode()) {
					t.Fatalf("cursor not at %s root after %q", ed.Mode(), k)
				}
			}
			if !ok && (modeOK || universalOK) && ed.Mode() != m {
				t.Fatalf("mode changed without an action")
			}
		}
	})
}

func TestNilContinuationNeverLeavesCursorDangling(t *testing.T) {
	table := trigger.NewModes(
		map[mode.Mode]*trigger.Map[rune]{
			mode.Normal: trigger.NewMap(map[rune]trigger.Trigger[rune]{
				'z': trigger.Then[rune](nil),
				'x': trigger.End[rune](action.Edit(buffer.DeleteBackward{})),
			}, nil),
		},
		trigger.NewMap(map[rune]trigger.Trigger[rune]{
			'z': trigger.End[rune](action.Switch(mode.Insert)),
		}, nil),
	)
	ed := New(newEngine(t, nil), table)

	a, ok := ed.Trigger('z')
	require.True(t, ok)
	assert.Equal(t, action.Switch(mode.Insert), a)
	assert.False(t, ed.Pending())

	a, ok = ed.Trigger('x')
	require.True(t, ok)
	assert.Equal(t, action.Edit(buffer.DeleteBackward{}), a)
}
