// Package config holds the filesystem layout for identity environments.
// All paths are carried in a Paths struct that is threaded through the
// other packages, so nothing below the CLI touches the real home
// directory implicitly.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/gitid/internal/errors"
)

const (
	// KeyPrefix is the filename prefix for per-identity private keys
	// inside the SSH directory. Public keys add a ".pub" suffix.
	KeyPrefix = "id_ed25519_gitid_"

	// FragmentPrefix is the filename prefix for per-identity Git config
	// fragments inside the home directory.
	FragmentPrefix = ".gitconfig-gitid-"

	// HostAliasPrefix is prepended to the identity id to form the
	// synthetic SSH host alias.
	HostAliasPrefix = "github.com-"

	// GlobalConfigDir is the directory for the gitid config file,
	// relative to the home directory.
	GlobalConfigDir = ".config/gitid"

	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// Paths describes every filesystem location gitid reads or writes.
type Paths struct {
	Home      string `yaml:"-"`
	SSHDir    string `yaml:"ssh_dir"`
	SSHConfig string `yaml:"ssh_config"`
	GitConfig string `yaml:"git_config"`
	CodeDir   string `yaml:"code_dir"`
}

// Default returns the standard layout under the user's home directory.
func Default() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't determine your home directory",
			"Set the HOME environment variable")
	}
	return DefaultIn(home), nil
}

// DefaultIn returns the standard layout rooted at the given home directory.
// Tests use this to run against a temp dir instead of the real home.
func DefaultIn(home string) Paths {
	return Paths{
		Home:      home,
		SSHDir:    filepath.Join(home, ".ssh"),
		SSHConfig: filepath.Join(home, ".ssh", "config"),
		GitConfig: filepath.Join(home, ".gitconfig"),
		CodeDir:   filepath.Join(home, "code"),
	}
}

// KeyPath returns the private key path for an identity id.
func (p Paths) KeyPath(id string) string {
	return filepath.Join(p.SSHDir, KeyPrefix+id)
}

// PublicKeyPath returns the public key path for an identity id.
func (p Paths) PublicKeyPath(id string) string {
	return p.KeyPath(id) + ".pub"
}

// FragmentPath returns the Git config fragment path for an identity id.
func (p Paths) FragmentPath(id string) string {
	return filepath.Join(p.Home, FragmentPrefix+id)
}

// WorkDir returns the working directory owned by an identity id.
// Git's directory-conditional include keys on this path.
func (p Paths) WorkDir(id string) string {
	return filepath.Join(p.CodeDir, id)
}

// HostAlias returns the synthetic SSH host alias for an identity id.
func (p Paths) HostAlias(id string) string {
	return HostAliasPrefix + id
}

// ConfigFilePath returns the location of the gitid config file.
func (p Paths) ConfigFilePath() string {
	return filepath.Join(p.Home, GlobalConfigDir, GlobalConfigFile)
}

// expandPath resolves a leading ~/ against the given home directory.
func expandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
