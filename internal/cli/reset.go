package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/rileyhilliard/gitid/internal/errors"
	"github.com/rileyhilliard/gitid/internal/identity"
	"github.com/rileyhilliard/gitid/internal/keys"
	"github.com/rileyhilliard/gitid/internal/logger"
	"github.com/rileyhilliard/gitid/internal/ui"
)

// resetDeps collects the externals of the reset operations.
type resetDeps struct {
	clearAgent func() error
	out        io.Writer
	log        logger.Logger
}

func defaultResetDeps() resetDeps {
	return resetDeps{
		clearAgent: keys.ClearAgent,
		out:        os.Stdout,
		log:        logger.NewEnvLogger("[reset]"),
	}
}

// ResetSSH removes all agent-held keys, every managed key file, and the
// shared SSH client config. Blanket and idempotent: a second run over an
// empty layout succeeds with nothing to report.
func ResetSSH(paths config.Paths) error {
	return runResetSSH(paths, defaultResetDeps())
}

func runResetSSH(paths config.Paths, deps resetDeps) error {
	if err := deps.clearAgent(); err != nil {
		deps.log.Warn("couldn't clear the agent: %v", err)
	} else {
		fmt.Fprintln(deps.out, ui.Pass("Cleared agent-held keys"))
	}

	store := identity.NewStoreWithLogger(paths, deps.log)
	files, err := store.KeyFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			deps.log.Warn("couldn't remove %s: %v", f, err)
			continue
		}
		fmt.Fprintln(deps.out, ui.Pass("Removed "+f))
	}

	if err := os.Remove(paths.SSHConfig); err == nil {
		fmt.Fprintln(deps.out, ui.Pass("Removed "+paths.SSHConfig))
	} else if !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't remove the SSH config: "+paths.SSHConfig,
			"Check file ownership")
	}

	if len(files) == 0 {
		fmt.Fprintln(deps.out, "No managed SSH keys found.")
	}
	return nil
}

// ResetGit removes the shared main Git config and every per-identity
// fragment. Blanket and idempotent.
func ResetGit(paths config.Paths) error {
	return runResetGit(paths, defaultResetDeps())
}

func runResetGit(paths config.Paths, deps resetDeps) error {
	removed := 0

	if err := os.Remove(paths.GitConfig); err == nil {
		fmt.Fprintln(deps.out, ui.Pass("Removed "+paths.GitConfig))
		removed++
	} else if !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrGit,
			"Couldn't remove the main Git config: "+paths.GitConfig,
			"Check file ownership")
	}

	store := identity.NewStoreWithLogger(paths, deps.log)
	fragments, err := store.FragmentFiles()
	if err != nil {
		return err
	}
	for _, f := range fragments {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			deps.log.Warn("couldn't remove %s: %v", f, err)
			continue
		}
		fmt.Fprintln(deps.out, ui.Pass("Removed "+f))
		removed++
	}

	if removed == 0 {
		fmt.Fprintln(deps.out, "No Git identity files found.")
	}
	return nil
}
