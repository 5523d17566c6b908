package keys

import (
	"net"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/gitid/internal/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// dialAgent connects to the running SSH agent over SSH_AUTH_SOCK.
// Returns nil when no agent is reachable.
func dialAgent() (agent.Agent, net.Conn) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, nil
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, nil
	}
	return agent.NewClient(conn), conn
}

// AddToAgent registers the private key at keyPath with the running agent,
// with the comment attached. It talks the agent protocol directly when
// SSH_AUTH_SOCK is reachable and falls back to ssh-add otherwise.
// Failure here is a warning in the registration flow, not fatal.
func AddToAgent(keyPath, comment string) error {
	if a, conn := dialAgent(); a != nil {
		defer conn.Close()

		data, err := os.ReadFile(keyPath)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAgent,
				"Couldn't read the private key for agent registration",
				"Check permissions on "+keyPath)
		}
		key, err := ssh.ParseRawPrivateKey(data)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAgent,
				"Couldn't parse the private key for agent registration",
				"The key file may be corrupt; regenerate the environment")
		}
		if err := a.Add(agent.AddedKey{PrivateKey: key, Comment: comment}); err != nil {
			return errors.WrapWithCode(err, errors.ErrAgent,
				"The SSH agent refused the key", "")
		}
		return nil
	}

	// No reachable socket: let ssh-add find the agent its own way.
	cmd := exec.Command("ssh-add", keyPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			"ssh-add failed: "+strings.TrimSpace(string(output)),
			"Start an agent with: eval $(ssh-agent)")
	}
	return nil
}

// ClearAgent removes all keys held by the running agent. Best-effort:
// no reachable agent is not an error, matching reset semantics where an
// empty agent and an absent agent are the same outcome.
func ClearAgent() error {
	if a, conn := dialAgent(); a != nil {
		defer conn.Close()
		if err := a.RemoveAll(); err != nil {
			return errors.WrapWithCode(err, errors.ErrAgent,
				"The SSH agent refused to drop its keys", "")
		}
		return nil
	}

	if _, err := exec.LookPath("ssh-add"); err != nil {
		return nil
	}
	// ssh-add -D exits non-zero when no agent is running; that's fine.
	_ = exec.Command("ssh-add", "-D").Run()
	return nil
}
