package macro

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/dshills/evie/internal/input/key"
)

// file is the on-disk form of a set of registers.
type file struct {
	Registers map[string]string `toml:"registers"`
}

// Load reads the registers stored at path into rec, replacing registers of
// the same name. A file that does not exist loads nothing.
func Load(fsys afero.Fs, rec *Recorder, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading macros %s: %w", path, err)
	}

	var f file
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("parsing macros %s: %w", path, err)
	}

	for name, spec := range f.Registers {
		reg := []rune(name)
		if len(reg) != 1 || !IsValidRegister(reg[0]) {
			return fmt.Errorf("macros %s: %w: %q", path, ErrInvalidRegister, name)
		}
		events, err := key.ParseSequence(spec)
		if err != nil {
			return fmt.Errorf("macros %s: register %s: %w", path, name, err)
		}
		if err := rec.Set(reg[0], events); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every non-empty register of rec to path. The file is
// replaced through a rename so a failed save keeps the previous contents.
func Save(fsys afero.Fs, rec *Recorder, path string) error {
	f := file{Registers: make(map[string]string)}
	for _, reg := range rec.Registers() {
		f.Registers[string(reg)] = key.FormatSequence(rec.Get(reg))
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding macros: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating macros directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing macros: %w", err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("writing macros: %w", err)
	}
	return nil
}
