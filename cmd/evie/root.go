package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/evie/internal/config"
	"github.com/dshills/evie/internal/editor"
	"github.com/dshills/evie/internal/engine"
	"github.com/dshills/evie/internal/input/key"
	"github.com/dshills/evie/internal/input/keymap"
	"github.com/dshills/evie/internal/input/trigger"
	"github.com/dshills/evie/internal/logging"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	fs       afero.Fs
	v        *viper.Viper
	cfgFile  string
	settings config.Settings
	logger   *logging.Logger
}

// settingFlags maps settings keys to the persistent flags that set them.
var settingFlags = map[string]string{
	"base_dir":    "base-dir",
	"keymap":      "keymap",
	"log_level":   "log-level",
	"line_ending": "line-ending",
	"macro_file":  "macro-file",
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	a := &app{fs: fsys, v: viper.New(), logger: logging.Nop()}

	cmd := &cobra.Command{
		Use:   "evie",
		Short: "A modal, multi-buffer text editing core",
		Long: `evie drives a modal editing core without a screen: key scripts are
replayed against files, and keymaps can be compiled and inspected.

Settings come from evie.toml, EVIE_* environment variables and flags,
with flags taking precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"settings file (default: ./"+config.FileName+")")
	flags.String("base-dir", "", "directory relative file arguments are resolved against")
	flags.StringP("keymap", "k", "", "keymap file (.toml, .yaml or .lua) merged over the default")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("line-ending", "", "line ending for new files (lf, crlf, cr)")
	flags.String("macro-file", "", "file macro registers are loaded from and saved to")

	for name, flag := range settingFlags {
		_ = a.v.BindPFlag(name, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newReplayCmd(a),
		newKeysCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// init resolves the settings. The file supplies viper's defaults so that
// EVIE_* variables and flags override it.
func (a *app) init(cmd *cobra.Command) error {
	path := a.cfgFile
	if path == "" {
		path = config.FileName
	}

	file, err := config.Load(a.fs, path)
	if err != nil {
		return err
	}

	a.v.SetDefault("base_dir", file.BaseDir)
	a.v.SetDefault("keymap", file.Keymap)
	a.v.SetDefault("log_level", file.LogLevel)
	a.v.SetDefault("line_ending", file.LineEnding)
	a.v.SetDefault("macro_file", file.MacroFile)

	a.v.SetEnvPrefix("evie")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	var s config.Settings
	if err := a.v.Unmarshal(&s); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s

	a.logger = logging.New(logging.Config{
		Level:  s.Level(),
		Output: cmd.ErrOrStderr(),
		Prefix: "evie",
	})
	a.logger.WithField("config", path).Debug("settings loaded")
	return nil
}

// keymap returns the default keymap with the configured file merged over it.
func (a *app) keymap(ctx context.Context) (*keymap.Keymap, error) {
	km := keymap.Default()
	if a.settings.Keymap == "" {
		return km, nil
	}

	custom, err := keymap.NewLoader(keymap.WithFS(a.fs)).LoadFile(ctx, a.settings.Keymap)
	if err != nil {
		return nil, err
	}
	a.logger.WithField("keymap", custom.Name).Debug("keymap merged")
	return km.Merge(custom), nil
}

func (a *app) table(ctx context.Context) (*trigger.Modes[key.Event], error) {
	km, err := a.keymap(ctx)
	if err != nil {
		return nil, err
	}
	return km.Compile()
}

func (a *app) engine() (*engine.Engine, error) {
	return engine.New(a.settings.BaseDir,
		engine.WithFS(a.fs),
		engine.WithLogger(a.logger),
		engine.WithBufferOptions(a.settings.BufferOptions()...),
	)
}

func (a *app) editor(ctx context.Context) (*editor.Editor[key.Event], error) {
	table, err := a.table(ctx)
	if err != nil {
		return nil, err
	}
	eng, err := a.engine()
	if err != nil {
		return nil, err
	}
	return editor.New(eng, table, editor.WithLogger(a.logger)), nil
}
