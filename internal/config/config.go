package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/logging"
)

// FileName is the settings file looked up in the working directory.
const FileName = "evie.toml"

// Settings configures one evie session.
type Settings struct {
	// BaseDir resolves relative buffer paths. Empty means the working directory.
	BaseDir string `toml:"base_dir" mapstructure:"base_dir"`

	// Keymap is a TOML, YAML or Lua keymap merged over the built-in one.
	Keymap string `toml:"keymap,omitempty" mapstructure:"keymap"`

	LogLevel string `toml:"log_level" mapstructure:"log_level"`

	// LineEnding sets the line ending of buffers without line breaks: lf,
	// crlf or cr. Files with line breaks keep the ending they already use.
	LineEnding string `toml:"line_ending,omitempty" mapstructure:"line_ending"`

	// MacroFile stores the macro registers recorded and played by replay.
	MacroFile string `toml:"macro_file" mapstructure:"macro_file"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		BaseDir:   ".",
		LogLevel:  "warn",
		MacroFile: "macros.toml",
	}
}

// Load reads the settings file at path from fsys. Keys missing from the
// file keep their defaults. A file that does not exist is not an error.
func Load(fsys afero.Fs, path string) (Settings, error) {
	s := Default()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return Default(), perr
	}

	// Relative paths in the file are relative to the file, not the process.
	dir := filepath.Dir(path)
	for _, p := range []*string{&s.BaseDir, &s.Keymap, &s.MacroFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return s, nil
}

// Validate checks every setting and returns the first problem found.
func (s Settings) Validate() error {
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return &ValidationError{Key: "log_level", Value: s.LogLevel, Message: "must be debug, info, warn or error"}
	}
	if s.LineEnding != "" {
		if _, err := buffer.ParseLineEnding(s.LineEnding); err != nil {
			return &ValidationError{Key: "line_ending", Value: s.LineEnding, Message: "must be lf, crlf or cr"}
		}
	}
	return nil
}

// Level returns the parsed log level, or LevelWarn when it is invalid.
func (s Settings) Level() logging.Level {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return logging.LevelWarn
	}
	return level
}

// BufferOptions returns the buffer options implied by the settings.
func (s Settings) BufferOptions() []buffer.Option {
	if s.LineEnding == "" {
		return nil
	}
	le, err := buffer.ParseLineEnding(s.LineEnding)
	if err != nil {
		return nil
	}
	return []buffer.Option{buffer.WithLineEnding(le)}
}

// Encode renders the settings as TOML.
func (s Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

// WriteDefault writes Default() to path unless a file is already there.
func WriteDefault(fsys afero.Fs, path string) error {
	if ok, err := afero.Exists(fsys, path); err != nil || ok {
		return err
	}
	data, err := Default().Encode()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}
