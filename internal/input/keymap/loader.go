package keymap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultLuaTimeout bounds the run time of a Lua keymap script.
const DefaultLuaTimeout = 5 * time.Second

// Loader reads keymap files.
type Loader struct {
	fs         afero.Fs
	luaTimeout time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system keymaps are read from.
func WithFS(fsys afero.Fs) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithLuaTimeout sets how long a Lua keymap script may run.
func WithLuaTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.luaTimeout = d
	}
}

// NewLoader creates a keymap loader reading from the OS file system.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:         afero.NewOsFs(),
		luaTimeout: DefaultLuaTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile loads a keymap, choosing the format from the file extension:
// .toml, .yaml/.yml or .lua. The keymap is named after the file when the
// file does not name it.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Keymap, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file: %w", err)
	}

	var km *Keymap
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		km, err = parseTOML(path, data)
	case ".yaml", ".yml":
		km, err = parseYAML(path, data)
	case ".lua":
		km, err = l.parseLua(ctx, path, data)
	default:
		return nil, fmt.Errorf("keymap file %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, err
	}

	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return km, nil
}

// LoadTOML reads a TOML keymap.
func LoadTOML(r io.Reader) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	return parseTOML("<reader>", data)
}

// LoadYAML reads a YAML keymap.
func LoadYAML(r io.Reader) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	return parseYAML("<reader>", data)
}

// LoadLua runs a Lua keymap script.
func (l *Loader) LoadLua(ctx context.Context, r io.Reader) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	return l.parseLua(ctx, "<reader>", data)
}

func parseTOML(source string, data []byte) (*Keymap, error) {
	km := New("")
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(km); err != nil {
		return nil, &ParseError{Path: source, Format: "toml", Err: err}
	}
	return km, nil
}

func parseYAML(source string, data []byte) (*Keymap, error) {
	km := New("")
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(km); err != nil && err != io.EOF {
		return nil, &ParseError{Path: source, Format: "yaml", Err: err}
	}
	return km, nil
}

// ParseError reports a keymap file that could not be decoded.
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s keymap %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
