package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds tool-level defaults. Values come from a config file
// (.cjm.yaml in the working directory or $HOME/.config/cjm/), CJM_* env
// variables, or the built-in defaults, in that order of precedence.
type Config struct {
	ComposerFile string
	ModifyFile   string
	Indent       int
	Verbose      bool
}

// Load reads tool configuration. When cfgFile is non-empty that file must
// exist and parse; otherwise a missing config file just yields the defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("composer_file", "composer.json")
	v.SetDefault("modify_file", "modify-composer.json")
	v.SetDefault("indent", 2)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("CJM")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(".cjm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cjm"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return &Config{
		ComposerFile: v.GetString("composer_file"),
		ModifyFile:   v.GetString("modify_file"),
		Indent:       v.GetInt("indent"),
		Verbose:      v.GetBool("verbose"),
	}, nil
}
