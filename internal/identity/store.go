package identity

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/rileyhilliard/gitid/internal/errors"
	"github.com/rileyhilliard/gitid/internal/gitconf"
	"github.com/rileyhilliard/gitid/internal/keys"
	"github.com/rileyhilliard/gitid/internal/logger"
	"github.com/rileyhilliard/gitid/internal/sshconf"
)

// Store exposes typed operations over the flat files that hold identity
// state: key files in the SSH directory, fragment files in the home
// directory, stanzas in the SSH config, and includes in the Git config.
type Store struct {
	paths config.Paths
	log   logger.Logger
}

// NewStore creates a store over the given layout.
func NewStore(paths config.Paths) *Store {
	return &Store{paths: paths, log: logger.NewEnvLogger("[store]")}
}

// NewStoreWithLogger creates a store with a custom logger, for tests.
func NewStoreWithLogger(paths config.Paths, log logger.Logger) *Store {
	return &Store{paths: paths, log: log}
}

// Paths returns the layout the store operates on.
func (s *Store) Paths() config.Paths {
	return s.paths
}

// List enumerates identities by scanning for fragment files. An identity
// with a key but no fragment is invisible here, matching the fragment
// set's role as the authoritative enumeration.
func (s *Store) List() ([]Identity, error) {
	entries, err := os.ReadDir(s.paths.Home)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't scan the home directory: "+s.paths.Home,
			"Check that the directory exists and is readable")
	}

	var ids []Identity
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, config.FragmentPrefix) {
			continue
		}
		id := strings.TrimPrefix(name, config.FragmentPrefix)
		if id == "" {
			continue
		}

		ident := Identity{ID: id}
		frag, err := gitconf.ReadFragment(filepath.Join(s.paths.Home, name))
		if err != nil {
			s.log.Warn("couldn't read fragment for %s: %v", id, err)
		} else {
			ident.GitName = frag.Name
			ident.GitEmail = frag.Email
		}
		ids = append(ids, ident)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].ID < ids[j].ID })
	return ids, nil
}

// Exists reports whether any artifact for the id is present: a private
// key or a fragment file. This is the collision check for registration.
func (s *Store) Exists(id string) bool {
	if _, err := os.Stat(s.paths.KeyPath(id)); err == nil {
		return true
	}
	if _, err := os.Stat(s.paths.FragmentPath(id)); err == nil {
		return true
	}
	return false
}

// Remove deletes every artifact of a single identity: keypair, fragment,
// include directive, and host stanza. Include and stanza removal are
// best-effort; their failure is logged and swallowed so a re-registration
// can proceed over a half-broken config.
func (s *Store) Remove(id string) error {
	if err := keys.RemovePair(s.paths.KeyPath(id)); err != nil {
		return err
	}

	if err := os.Remove(s.paths.FragmentPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't remove the Git identity fragment for "+id,
			"Check file ownership")
	}

	if err := gitconf.RemoveInclude(s.paths.GitConfig, s.paths.WorkDir(id)); err != nil {
		s.log.Warn("couldn't strip include for %s: %v", id, err)
	}
	if err := sshconf.RemoveAlias(s.paths.SSHConfig, s.paths.HostAlias(id)); err != nil {
		s.log.Warn("couldn't strip host stanza for %s: %v", id, err)
	}
	return nil
}

// KeyFiles returns every private key file matching the per-identity
// naming pattern, for the blanket SSH reset.
func (s *Store) KeyFiles() ([]string, error) {
	pattern := filepath.Join(s.paths.SSHDir, config.KeyPrefix+"*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't scan the SSH directory", "")
	}
	return matches, nil
}

// FragmentFiles returns every fragment file matching the per-identity
// naming pattern, for the blanket Git reset.
func (s *Store) FragmentFiles() ([]string, error) {
	pattern := filepath.Join(s.paths.Home, config.FragmentPrefix+"*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't scan the home directory", "")
	}
	return matches, nil
}

// EnsureLayout creates the SSH and code directories and enforces the
// permission invariants: SSH dir 700, client config 600 when present.
func (s *Store) EnsureLayout() error {
	if err := os.MkdirAll(s.paths.SSHDir, 0o700); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't create the SSH directory: "+s.paths.SSHDir,
			"Check permissions on your home directory")
	}
	if err := os.Chmod(s.paths.SSHDir, 0o700); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't set permissions on "+s.paths.SSHDir, "")
	}
	if err := os.MkdirAll(s.paths.CodeDir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the code directory: "+s.paths.CodeDir,
			"Check permissions on your home directory")
	}
	if _, err := os.Stat(s.paths.SSHConfig); err == nil {
		if err := os.Chmod(s.paths.SSHConfig, 0o600); err != nil {
			return errors.WrapWithCode(err, errors.ErrSSH,
				"Couldn't set permissions on "+s.paths.SSHConfig, "")
		}
	}
	return nil
}
