package config

import (
	"os"

	"github.com/rileyhilliard/gitid/internal/errors"
	"github.com/spf13/viper"
)

// Load reads the layout from the config file at path, falling back to the
// defaults for any key the file doesn't set. A missing file is not an
// error: the defaults are returned as-is.
func Load(path string) (Paths, error) {
	defaults, err := Default()
	if err != nil {
		return Paths{}, err
	}
	return loadInto(defaults, path)
}

// LoadIn is Load rooted at an explicit home directory, for tests.
func LoadIn(home, path string) (Paths, error) {
	return loadInto(DefaultIn(home), path)
}

func loadInto(defaults Paths, path string) (Paths, error) {
	if path == "" {
		path = defaults.ConfigFilePath()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return Paths{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't access the config file: "+path,
			"Check file permissions")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("ssh_dir", defaults.SSHDir)
	v.SetDefault("ssh_config", defaults.SSHConfig)
	v.SetDefault("git_config", defaults.GitConfig)
	v.SetDefault("code_dir", defaults.CodeDir)

	if err := v.ReadInConfig(); err != nil {
		return Paths{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read the config file: "+path,
			"Check the file is valid YAML")
	}

	p := Paths{
		Home:      defaults.Home,
		SSHDir:    expandPath(v.GetString("ssh_dir"), defaults.Home),
		SSHConfig: expandPath(v.GetString("ssh_config"), defaults.Home),
		GitConfig: expandPath(v.GetString("git_config"), defaults.Home),
		CodeDir:   expandPath(v.GetString("code_dir"), defaults.Home),
	}
	return p, nil
}
