package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/evie/internal/config"
	"github.com/dshills/evie/internal/input/key"
	"github.com/dshills/evie/internal/input/macro"
)

func execute(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(fsys)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func readFile(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, name)
	require.NoError(t, err)
	return string(data)
}

func TestReplay(t *testing.T) {
	fsys := memFS(t, map[string]string{"/work/notes.txt": "hello"})

	out, err := execute(t, fsys, "replay", "notes.txt", "--base-dir", "/work", "--keys", "iab<Esc>", "--print")
	require.NoError(t, err)
	assert.Equal(t, "abhello", out)
	assert.Equal(t, "abhello", readFile(t, fsys, "/work/notes.txt"))
}

func TestReplayNoSave(t *testing.T) {
	fsys := memFS(t, map[string]string{"/work/notes.txt": "hello"})

	out, err := execute(t, fsys, "replay", "/work/notes.txt", "--keys", "$i!<Esc>", "--no-save", "-p")
	require.NoError(t, err)
	assert.Equal(t, "hello!", out)
	assert.Equal(t, "hello", readFile(t, fsys, "/work/notes.txt"))
}

func TestReplayEachFileStartsInNormalMode(t *testing.T) {
	fsys := memFS(t, map[string]string{"/w/a.txt": "1", "/w/b.txt": "2"})

	// The script ends in insert mode; the second file must not inherit it.
	_, err := execute(t, fsys, "replay", "/w/a.txt", "/w/b.txt", "--keys", "ix")
	require.NoError(t, err)
	assert.Equal(t, "x1", readFile(t, fsys, "/w/a.txt"))
	assert.Equal(t, "x2", readFile(t, fsys, "/w/b.txt"))
}

func TestReplayCreatesMissingFile(t *testing.T) {
	fsys := memFS(t, map[string]string{"/w/.keep": ""})

	_, err := execute(t, fsys, "replay", "/w/new.txt", "--keys", "ihi<CR>there<Esc>")
	require.NoError(t, err)
	assert.Equal(t, "hi\nthere", readFile(t, fsys, "/w/new.txt"))
}

func TestReplayErrors(t *testing.T) {
	fsys := memFS(t, map[string]string{"/w/a.txt": "a"})

	_, err := execute(t, fsys, "replay", "/w/a.txt", "--keys", "")
	assert.ErrorIs(t, err, key.ErrEmptySpec)

	_, err = execute(t, fsys, "replay", "/w/a.txt")
	assert.Error(t, err, "--keys is required")

	_, err = execute(t, fsys, "replay", "--keys", "i")
	assert.Error(t, err, "a file is required")
}

func TestReplayRecordAndPlay(t *testing.T) {
	fsys := memFS(t, map[string]string{"/w/a.txt": "a", "/w/b.txt": "b"})

	_, err := execute(t, fsys, "replay", "/w/a.txt", "--keys", "iX<Esc>", "--record", "q", "--macro-file", "/w/macros.toml")
	require.NoError(t, err)
	assert.Equal(t, "Xa", readFile(t, fsys, "/w/a.txt"))
	assert.Contains(t, readFile(t, fsys, "/w/macros.toml"), "iX<Esc>")

	_, err = execute(t, fsys, "replay", "/w/b.txt", "--play", "q", "-n", "2", "--macro-file", "/w/macros.toml")
	require.NoError(t, err)
	assert.Equal(t, "XXb", readFile(t, fsys, "/w/b.txt"))

	_, err = execute(t, fsys, "replay", "/w/b.txt", "--play", "z", "--macro-file", "/w/macros.toml")
	assert.ErrorIs(t, err, macro.ErrEmptyRegister)

	_, err = execute(t, fsys, "replay", "/w/b.txt", "--keys", "x", "--record", "#", "--macro-file", "/w/macros.toml")
	assert.ErrorIs(t, err, macro.ErrInvalidRegister)
}

func TestKeymapFromSettingsFile(t *testing.T) {
	fsys := memFS(t, map[string]string{
		"/work/evie.toml": `keymap = "/work/keys.toml"`,
		"/work/keys.toml": `
name = "mine"

[[modes.normal.bindings]]
keys = "q"
action = 'append "Q"'
`,
		"/work/a.txt": "a",
	})

	_, err := execute(t, fsys, "replay", "a.txt", "-c", "/work/evie.toml", "--keys", "qq")
	require.NoError(t, err)
	assert.Equal(t, "QQa", readFile(t, fsys, "/work/a.txt"))

	out, err := execute(t, fsys, "keys", "-c", "/work/evie.toml", "--mode", "normal")
	require.NoError(t, err)
	assert.Contains(t, out, `append "Q"`)
}

func TestSettingsPrecedence(t *testing.T) {
	fsys := memFS(t, map[string]string{"/etc/evie.toml": `log_level = "error"`})

	out, err := execute(t, fsys, "config", "-c", "/etc/evie.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "error")

	t.Setenv("EVIE_LOG_LEVEL", "info")
	out, err = execute(t, fsys, "config", "-c", "/etc/evie.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "info")

	out, err = execute(t, fsys, "config", "-c", "/etc/evie.toml", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "debug")

	t.Setenv("EVIE_LOG_LEVEL", "loud")
	_, err = execute(t, fsys, "config", "-c", "/etc/evie.toml")
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestBrokenSettingsFile(t *testing.T) {
	fsys := memFS(t, map[string]string{"/evie.toml": "colour = 'red'\n"})

	_, err := execute(t, fsys, "keys", "-c", "/evie.toml")
	var perr *config.ParseError
	require.ErrorAs(t, err, &perr)

	out, err := execute(t, fsys, "version", "-c", "/evie.toml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "evie dev\n"))
}

func TestConfigInit(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := execute(t, fsys, "config", "--init", "-c", "/cfg/evie.toml")
	require.NoError(t, err)

	s, err := config.Load(fsys, "/cfg/evie.toml")
	require.NoError(t, err)
	assert.Equal(t, config.Default().LogLevel, s.LogLevel)
}

func TestKeysListsEveryMode(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "keys")
	require.NoError(t, err)

	for _, want := range []string{"normal", "insert", "replace", "visual", "command", "terminal", "universal"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "mode insert")
	assert.Contains(t, out, "<C-s>")

	_, err = execute(t, afero.NewMemMapFs(), "keys", "--mode", "sideways")
	assert.Error(t, err)
}

func TestKeysModeFilterIgnoresCase(t *testing.T) {
	tests := []struct {
		flag    string
		section string
	}{
		{"Insert", "insert"},
		{"NORMAL", "normal"},
		{"Universal", "universal"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			out, err := execute(t, afero.NewMemMapFs(), "keys", "--mode", tt.flag)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.NotEmpty(t, lines[0])
			for _, line := range lines {
				assert.True(t, strings.HasPrefix(line, tt.section+" "), "unexpected row %q", line)
			}
		})
	}
}
