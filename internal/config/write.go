package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/gitid/internal/errors"
	"gopkg.in/yaml.v3"
)

const configHeader = `# gitid configuration
#
# Every path may use ~/ for the home directory. Remove a key to fall
# back to its default.
`

// WriteDefault writes a commented config file for the given layout.
// Returns the path written. Fails if the file already exists.
func WriteDefault(p Paths) (string, error) {
	path := p.ConfigFilePath()

	if _, err := os.Stat(path); err == nil {
		return "", errors.New(errors.ErrConfig,
			"Config file already exists: "+path,
			"Edit it directly, or delete it to start over")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	body, err := yaml.Marshal(p)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't serialize the default config", "")
	}

	data := append([]byte(configHeader), body...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the config file: "+path,
			"Check permissions on "+filepath.Dir(path))
	}

	return path, nil
}
