// Package probe tests whether an identity's host alias authenticates
// against the remote Git host. GitHub-style servers refuse a shell even
// on success, so the ssh exit code alone is useless; success is detected
// by scanning the combined output for the server's greeting. The
// text-matching heuristic lives behind the Probe interface so callers
// can mock it.
package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/gitid/internal/errors"
)

// successPhrase is the fragment of the remote greeting that marks an
// authenticated connection ("Hi <user>! You've successfully authenticated,
// but GitHub does not provide shell access.").
const successPhrase = "successfully authenticated"

// Result is the outcome of a connectivity check.
type Result struct {
	OK     bool
	Detail string
}

// Probe checks whether an SSH host alias authenticates.
type Probe interface {
	Check(ctx context.Context, alias string) Result
}

// SSHProbe runs the ssh binary against the alias in batch mode.
type SSHProbe struct {
	Timeout time.Duration
}

// NewSSHProbe returns a probe with the given per-attempt timeout.
// A zero timeout defaults to 15 seconds.
func NewSSHProbe(timeout time.Duration) *SSHProbe {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &SSHProbe{Timeout: timeout}
}

// Check attempts an authenticated connection to the alias and classifies
// the combined output. Never returns an error: a probe that can't run is
// a failed check with the cause in Detail.
func (p *SSHProbe) Check(ctx context.Context, alias string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ssh",
		"-T",
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "ConnectTimeout=10",
		alias,
	)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return Result{OK: false, Detail: fmt.Sprintf("timed out after %s", p.Timeout)}
	}
	return Classify(string(output), err)
}

// Classify maps ssh's combined output and run error to a Result. The
// remote refusing a shell makes ssh exit non-zero even on success, so
// the output scan wins over the exit code.
func Classify(output string, runErr error) Result {
	trimmed := strings.TrimSpace(output)

	if strings.Contains(trimmed, successPhrase) {
		return Result{OK: true, Detail: firstLine(trimmed)}
	}

	detail := firstLine(trimmed)
	if detail == "" && runErr != nil {
		detail = runErr.Error()
	}
	if detail == "" {
		detail = "no response from remote"
	}
	return Result{OK: false, Detail: detail}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// Fake is a scripted probe for tests and dry runs.
type Fake struct {
	Results map[string]Result
}

// Check returns the scripted result for the alias, or a failure when the
// alias wasn't scripted.
func (f *Fake) Check(_ context.Context, alias string) Result {
	if r, ok := f.Results[alias]; ok {
		return r
	}
	return Result{OK: false, Detail: "unknown alias"}
}

// Err converts a failed result into a structured error, for callers that
// want to surface the failure without aborting.
func (r Result) Err(alias string) error {
	if r.OK {
		return nil
	}
	return errors.New(errors.ErrSSH,
		fmt.Sprintf("SSH authentication to %s failed", alias),
		"Confirm the public key is registered with the remote host")
}
