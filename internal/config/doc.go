// Package config holds the application settings for evie.
//
// Settings live in a small TOML file, usually evie.toml in the working
// directory:
//
//	base_dir = "."
//	keymap = "keymaps/custom.toml"
//	log_level = "info"
//	line_ending = "lf"
//	macro_file = "macros.toml"
//
// Relative paths in the file are resolved against the file's directory.
//
// Every key is optional. A missing file yields Default(). The command line
// layers flags and EVIE_* environment variables on top through viper and
// decodes the result into the same Settings struct, so the struct carries
// both toml and mapstructure tags.
//
// Settings are validated once after loading:
//
//	s, err := config.Load(afero.NewOsFs(), "evie.toml")
//	if err != nil {
//	    return err
//	}
//	if err := s.Validate(); err != nil {
//	    return err
//	}
package config
