// Package sshconf manages the host stanzas gitid owns inside the shared
// SSH client config. Stanzas are appended in registration order; removal
// rewrites the file without the matching block.
package sshconf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/rileyhilliard/gitid/internal/errors"
)

// Stanza binds a synthetic host alias to an identity's key file.
type Stanza struct {
	Alias        string
	IdentityFile string
}

// Render returns the config block for the stanza.
func (s Stanza) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Host %s\n", s.Alias)
	b.WriteString("  HostName github.com\n")
	b.WriteString("  User git\n")
	b.WriteString("  AddKeysToAgent yes\n")
	b.WriteString("  IdentitiesOnly yes\n")
	fmt.Fprintf(&b, "  IdentityFile %s\n", s.IdentityFile)
	return b.String()
}

// Append adds a stanza to the end of the config file, creating the file
// with mode 600 if it doesn't exist. Existing content is never touched.
func Append(path string, s Stanza) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't open the SSH config: "+path,
			"Check permissions on the SSH directory")
	}
	defer f.Close()

	block := s.Render()
	if size, err := f.Seek(0, 2); err == nil && size > 0 {
		block = "\n" + block
	}

	if _, err := f.WriteString(block); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't write to the SSH config: "+path,
			"Check disk space and permissions")
	}
	return nil
}

// HasAlias reports whether a Host block for the exact alias exists.
// A missing config file means no aliases.
func HasAlias(path, alias string) (bool, error) {
	stanzas, err := List(path, "")
	if err != nil {
		return false, err
	}
	for _, s := range stanzas {
		if s.Alias == alias {
			return true, nil
		}
	}
	return false, nil
}

// List parses the config file and returns every concrete host stanza whose
// alias starts with prefix. An empty prefix matches everything. A missing
// file yields an empty list.
func List(path, prefix string) ([]Stanza, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't read the SSH config: "+path,
			"Check file permissions")
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't parse the SSH config: "+path,
			"Fix the syntax error or recreate the file")
	}

	var stanzas []Stanza

	// No per-alias de-duplication here: callers (the doctor in
	// particular) rely on seeing duplicate blocks.
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()

			// Skip wildcards and special patterns
			if strings.Contains(alias, "*") || strings.Contains(alias, "?") {
				continue
			}
			if prefix != "" && !strings.HasPrefix(alias, prefix) {
				continue
			}

			entry := Stanza{Alias: alias}
			if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
				entry.IdentityFile = identity
			}
			stanzas = append(stanzas, entry)
		}
	}

	return stanzas, nil
}

// RemoveAlias rewrites the config file without any Host block for the
// exact alias. A missing file or absent alias is not an error.
func RemoveAlias(path, alias string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't read the SSH config: "+path,
			"Check file permissions")
	}

	lines := strings.Split(string(data), "\n")
	var kept []string
	dropping := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Host ") {
			dropping = hostLineMatches(trimmed, alias)
		}
		if !dropping {
			kept = append(kept, line)
		}
	}

	out := strings.TrimRight(strings.Join(kept, "\n"), "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't rewrite the SSH config: "+path,
			"Check disk space and permissions")
	}
	return nil
}

// hostLineMatches reports whether a "Host ..." line names exactly the
// given alias and nothing else.
func hostLineMatches(line, alias string) bool {
	fields := strings.Fields(line)
	return len(fields) == 2 && fields[0] == "Host" && fields[1] == alias
}
