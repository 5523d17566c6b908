package gitconf

import (
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/gitid/internal/errors"
)

// Runner executes a git command in a directory and returns its stdout.
// A non-nil error with empty output means the command itself failed;
// git's exit 1 on an unset config key is mapped to ("", nil, false).
type Runner interface {
	Git(dir string, args ...string) (out string, ok bool, err error)
}

// execRunner shells out to the git binary. When globalConfig is set it
// points git's global scope at that file via GIT_CONFIG_GLOBAL, so the
// verifier works against an injected config path instead of ~/.gitconfig.
type execRunner struct {
	globalConfig string
}

func (r execRunner) Git(dir string, args ...string) (string, bool, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if r.globalConfig != "" {
		cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL="+r.globalConfig)
	}
	out, err := cmd.Output()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			// Command ran but reported failure (e.g. unset config key).
			return "", false, nil
		}
		return "", false, errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't run git",
			"Make sure git is installed and on your PATH")
	}
	return strings.TrimSpace(string(out)), true, nil
}

// Verifier reads back the Git identity that takes effect inside a
// directory, by way of a throwaway repository. Git only evaluates
// directory-conditional includes from inside a repository, so the
// scratch repo is what makes the include fire.
type Verifier struct {
	run Runner
}

// NewVerifier returns a Verifier backed by the git binary. globalConfig
// is the main Git config the identity includes hang off; pass the path
// from config.Paths so verification honors a non-default layout.
func NewVerifier(globalConfig string) *Verifier {
	return &Verifier{run: execRunner{globalConfig: globalConfig}}
}

// NewVerifierWithRunner returns a Verifier with a custom runner, for tests.
func NewVerifierWithRunner(r Runner) *Verifier {
	return &Verifier{run: r}
}

// ReadEffectiveIdentity creates a scratch repository under workDir, reads
// the effective user.name and user.email from inside it, and removes the
// scratch repository unconditionally. Unset values come back empty.
func (v *Verifier) ReadEffectiveIdentity(workDir string) (Fragment, error) {
	scratch, err := os.MkdirTemp(workDir, ".gitid-verify-")
	if err != nil {
		return Fragment{}, errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't create a scratch directory in "+workDir,
			"Check that the working directory exists and is writable")
	}
	defer os.RemoveAll(scratch)

	if _, ok, err := v.run.Git(scratch, "init", "-q"); err != nil {
		return Fragment{}, err
	} else if !ok {
		return Fragment{}, errors.New(errors.ErrGit,
			"git init failed in the scratch directory",
			"Run 'git init' manually in "+workDir+" to see why")
	}

	var f Fragment
	if name, ok, err := v.run.Git(scratch, "config", "--get", "user.name"); err != nil {
		return Fragment{}, err
	} else if ok {
		f.Name = name
	}

	if email, ok, err := v.run.Git(scratch, "config", "--get", "user.email"); err != nil {
		return Fragment{}, err
	} else if ok {
		f.Email = email
	}

	return f, nil
}
