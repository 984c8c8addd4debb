package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/evie/internal/engine/buffer"
)

func newMemEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join("/work", name), []byte(content), 0o644))
	}
	e, err := New("/work", WithFS(fsys))
	require.NoError(t, err)
	return e
}

func TestAddReadsOrStartsEmpty(t *testing.T) {
	e := newMemEngine(t, map[string]string{"existing.txt": "abc"})

	missing, err := e.Add("missing.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "", missing.Text())
	assert.Equal(t, "/work/missing.txt", missing.Path())

	existing, err := e.Add("existing.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "abc", existing.Text())

	abs, err := e.Add("/work/existing.txt", false)
	require.NoError(t, err)
	assert.Equal(t, "abc", abs.Text())
	assert.Equal(t, 2, e.Len(), "absolute and relative spellings share a key")
}

func TestGetNeverCreates(t *testing.T) {
	e := newMemEngine(t, nil)

	_, err := e.Get("nope.txt", true)
	require.ErrorIs(t, err, ErrMissingPath)
	assert.Contains(t, err.Error(), "/work/nope.txt")
	assert.Equal(t, 0, e.Len())

	added, err := e.Add("nope.txt", true)
	require.NoError(t, err)

	got, err := e.Get("./sub/../nope.txt", true)
	require.NoError(t, err)
	assert.Same(t, added, got)
}

func TestAddReplacesExistingEntry(t *testing.T) {
	e := newMemEngine(t, nil)

	first, err := e.Add("f", true)
	require.NoError(t, err)
	require.NoError(t, first.Apply(buffer.Append{Text: "unsaved"}))

	second, err := e.Add("f", true)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	got, err := e.Get("f", true)
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, "", got.Text())
}

func TestEvict(t *testing.T) {
	e := newMemEngine(t, nil)

	buf, err := e.Add("a.txt", true)
	require.NoError(t, err)

	require.NoError(t, e.Evict("a.txt", true))
	assert.ErrorIs(t, e.Evict("a.txt", true), ErrMissingPath)

	_, err = e.Get("a.txt", true)
	assert.ErrorIs(t, err, ErrMissingPath)

	require.NoError(t, buf.Apply(buffer.Append{Text: "still usable"}))
}

func TestPathsSorted(t *testing.T) {
	e := newMemEngine(t, nil)
	for _, name := range []string{"c", "a", "b"} {
		_, err := e.Add(name, true)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"/work/a", "/work/b", "/work/c"}, e.Paths())
}

func TestConcurrentAddAndGet(t *testing.T) {
	e := newMemEngine(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("file-%d.txt", i)
			added, err := e.Add(name, true)
			if err != nil {
				t.Errorf("add %s: %v", name, err)
				return
			}
			for j := 0; j < 100; j++ {
				got, err := e.Get(name, true)
				if err != nil || got != added {
					t.Errorf("get %s: %v", name, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 32, e.Len())
}

func TestAddAsync(t *testing.T) {
	e := newMemEngine(t, map[string]string{"async.txt": "loaded"})

	res := <-e.AddAsync(context.Background(), "async.txt", true)
	require.NoError(t, res.Err)
	assert.Equal(t, "loaded", res.Buffer.Text())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = <-e.AddAsync(ctx, "other.txt", true)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 1, e.Len())
}

func TestWriteAll(t *testing.T) {
	e := newMemEngine(t, map[string]string{"clean.txt": "clean"})

	clean, err := e.Add("clean.txt", true)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		buf, err := e.Add(fmt.Sprintf("out-%d.txt", i), true)
		require.NoError(t, err)
		require.NoError(t, buf.Apply(buffer.Append{Text: fmt.Sprint(i)}))
	}

	require.NoError(t, e.WriteAll(context.Background()))

	for i := 0; i < 5; i++ {
		data, err := afero.ReadFile(e.FS(), fmt.Sprintf("/work/out-%d.txt", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i), string(data))
	}
	assert.False(t, clean.Dirty())
}

func TestCanonicalizeOnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("real"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.txt"), filepath.Join(dir, "dangling.txt")))

	e, err := New(dir)
	require.NoError(t, err)

	t.Run("symlink shares the target's buffer", func(t *testing.T) {
		target, err := e.Add("real.txt", true)
		require.NoError(t, err)

		viaLink, err := e.Get(filepath.Join(e.BaseDir(), "link.txt"), false)
		require.NoError(t, err)
		assert.Same(t, target, viaLink)
	})

	t.Run("dangling symlink is an io error", func(t *testing.T) {
		_, err := e.Add(filepath.Join(dir, "dangling.txt"), false)
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "canonicalize", ioErr.Op)
	})

	t.Run("missing file resolves under its parent", func(t *testing.T) {
		buf, err := e.Add(filepath.Join(dir, "new.txt"), false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(e.BaseDir(), "new.txt"), buf.Path())
		assert.Equal(t, "", buf.Text())
	})

	t.Run("missing base directory", func(t *testing.T) {
		_, err := New(filepath.Join(dir, "does", "not", "exist"))
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
	})
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir)
	require.NoError(t, err)

	buf, err := e.Add("watched.txt", true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Change, 16)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, func(c Change) { changes <- c })
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case c := <-changes:
			assert.Same(t, buf, c.Buffer)
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(buf.Path(), []byte("changed"), 0o644))
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestWatchRequiresOSFileSystem(t *testing.T) {
	e := newMemEngine(t, nil)
	assert.ErrorIs(t, e.Watch(context.Background(), func(Change) {}), ErrWatchUnsupported)
}
