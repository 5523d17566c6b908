package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/rileyhilliard/gitid/internal/gitconf"
	"github.com/rileyhilliard/gitid/internal/identity"
	"github.com/rileyhilliard/gitid/internal/sshconf"
)

// All returns the full set of checks for a layout.
func All(paths config.Paths) []Check {
	return []Check{
		&BinaryCheck{Binary: "ssh"},
		&BinaryCheck{Binary: "ssh-keygen"},
		&BinaryCheck{Binary: "git"},
		&AgentCheck{},
		&SSHDirPermCheck{Paths: paths},
		&KeyPermCheck{Paths: paths},
		&ConsistencyCheck{Paths: paths},
		&StanzaCheck{Paths: paths},
	}
}

// BinaryCheck verifies a required external command is on PATH.
type BinaryCheck struct {
	Binary string
}

func (c *BinaryCheck) Name() string     { return c.Binary + " on PATH" }
func (c *BinaryCheck) Category() string { return "TOOLS" }

func (c *BinaryCheck) Run() CheckResult {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    c.Binary + " not found",
			Suggestion: "Install OpenSSH/Git and make sure it's on your PATH",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "found"}
}

// AgentCheck verifies an SSH agent is reachable. A missing agent is a
// warning: registration still works, keys just aren't cached.
type AgentCheck struct{}

func (c *AgentCheck) Name() string     { return "SSH agent reachable" }
func (c *AgentCheck) Category() string { return "SSH" }

func (c *AgentCheck) Run() CheckResult {
	if os.Getenv("SSH_AUTH_SOCK") == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH_AUTH_SOCK is not set",
			Suggestion: "Start an agent with: eval $(ssh-agent)",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "agent socket present"}
}

// SSHDirPermCheck verifies the SSH directory has mode 700 and the client
// config mode 600.
type SSHDirPermCheck struct {
	Paths config.Paths
}

func (c *SSHDirPermCheck) Name() string     { return "SSH directory permissions" }
func (c *SSHDirPermCheck) Category() string { return "SSH" }

func (c *SSHDirPermCheck) Run() CheckResult {
	info, err := os.Stat(c.Paths.SSHDir)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH directory doesn't exist yet",
			Suggestion: "It will be created on the first 'gitid add'",
		}
	}
	if info.Mode().Perm() != 0o700 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s has mode %o, want 700", c.Paths.SSHDir, info.Mode().Perm()),
			Suggestion: "Run: chmod 700 " + c.Paths.SSHDir,
		}
	}
	if cfg, err := os.Stat(c.Paths.SSHConfig); err == nil && cfg.Mode().Perm() != 0o600 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s has mode %o, want 600", c.Paths.SSHConfig, cfg.Mode().Perm()),
			Suggestion: "Run: chmod 600 " + c.Paths.SSHConfig,
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "700/600 enforced"}
}

// KeyPermCheck verifies every managed private key has mode 600.
type KeyPermCheck struct {
	Paths config.Paths
}

func (c *KeyPermCheck) Name() string     { return "key file permissions" }
func (c *KeyPermCheck) Category() string { return "SSH" }

func (c *KeyPermCheck) Run() CheckResult {
	store := identity.NewStore(c.Paths)
	files, err := store.KeyFiles()
	if err != nil {
		return CheckResult{Name: c.Name(), Status: StatusWarn, Message: err.Error()}
	}

	var loose []string
	for _, f := range files {
		if strings.HasSuffix(f, ".pub") {
			continue
		}
		if info, err := os.Stat(f); err == nil && info.Mode().Perm() != 0o600 {
			loose = append(loose, f)
		}
	}
	if len(loose) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "private keys with loose permissions: " + strings.Join(loose, ", "),
			Suggestion: "Run: chmod 600 <key>",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass,
		Message: fmt.Sprintf("%d key file(s) checked", len(files))}
}

// ConsistencyCheck cross-references fragments against keys and includes.
type ConsistencyCheck struct {
	Paths config.Paths
}

func (c *ConsistencyCheck) Name() string     { return "identity consistency" }
func (c *ConsistencyCheck) Category() string { return "GIT" }

func (c *ConsistencyCheck) Run() CheckResult {
	store := identity.NewStore(c.Paths)
	ids, err := store.List()
	if err != nil {
		return CheckResult{Name: c.Name(), Status: StatusWarn, Message: err.Error()}
	}

	var issues []string
	for _, id := range ids {
		if _, err := os.Stat(c.Paths.KeyPath(id.ID)); err != nil {
			issues = append(issues, id.ID+": fragment without a key")
		}
		if ok, _ := gitconf.HasInclude(c.Paths.GitConfig, c.Paths.WorkDir(id.ID)); !ok {
			issues = append(issues, id.ID+": fragment without an include directive")
		}
	}
	if len(issues) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    strings.Join(issues, "; "),
			Suggestion: "Re-run 'gitid add' for the affected environments",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass,
		Message: fmt.Sprintf("%d environment(s) consistent", len(ids))}
}

// StanzaCheck finds managed stanzas whose key file is gone and duplicate
// aliases in the client config.
type StanzaCheck struct {
	Paths config.Paths
}

func (c *StanzaCheck) Name() string     { return "SSH config stanzas" }
func (c *StanzaCheck) Category() string { return "SSH" }

func (c *StanzaCheck) Run() CheckResult {
	stanzas, err := sshconf.List(c.Paths.SSHConfig, config.HostAliasPrefix)
	if err != nil {
		return CheckResult{Name: c.Name(), Status: StatusWarn, Message: err.Error()}
	}

	var issues []string
	seen := make(map[string]bool)
	for _, s := range stanzas {
		if seen[s.Alias] {
			issues = append(issues, s.Alias+": duplicate stanza")
		}
		seen[s.Alias] = true
		if s.IdentityFile != "" {
			if _, err := os.Stat(s.IdentityFile); err != nil {
				issues = append(issues, s.Alias+": IdentityFile missing")
			}
		}
	}
	if len(issues) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    strings.Join(issues, "; "),
			Suggestion: "Re-add the affected environments to rewrite their stanzas",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass,
		Message: fmt.Sprintf("%d managed stanza(s) checked", len(stanzas))}
}
