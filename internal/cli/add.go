package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/rileyhilliard/gitid/internal/errors"
	"github.com/rileyhilliard/gitid/internal/gitconf"
	"github.com/rileyhilliard/gitid/internal/identity"
	"github.com/rileyhilliard/gitid/internal/keys"
	"github.com/rileyhilliard/gitid/internal/logger"
	"github.com/rileyhilliard/gitid/internal/probe"
	"github.com/rileyhilliard/gitid/internal/sshconf"
	"github.com/rileyhilliard/gitid/internal/ui"
)

// AddOptions holds the inputs for registering an identity environment.
type AddOptions struct {
	Name     string // raw identity name, sanitized before use
	GitName  string
	GitEmail string // not validated for format

	// Yes answers the overwrite prompt without asking.
	Yes bool

	// NonInteractive skips every prompt, including the remote-key
	// confirmation gate. Collisions abort unless Yes is also set.
	NonInteractive bool
}

// identityVerifier reads back the Git identity in effect for a directory.
type identityVerifier interface {
	ReadEffectiveIdentity(workDir string) (gitconf.Fragment, error)
}

// addDeps collects the external touchpoints of the registration flow so
// tests can script them.
type addDeps struct {
	generate   func(path, email string) error
	addToAgent func(path, comment string) error
	probe      probe.Probe
	verifier   identityVerifier
	confirm    func(title, description string) (bool, error)
	copyClip   func(text string) bool
	openKeys   func() bool
	out        io.Writer
	log        logger.Logger
}

func defaultAddDeps(paths config.Paths) addDeps {
	return addDeps{
		generate:   keys.Generate,
		addToAgent: keys.AddToAgent,
		probe:      probe.NewSSHProbe(0),
		verifier:   gitconf.NewVerifier(paths.GitConfig),
		confirm:    huhConfirm,
		copyClip:   ui.CopyToClipboard,
		openKeys:   ui.OpenKeySettings,
		out:        os.Stdout,
		log:        logger.NewEnvLogger("[add]"),
	}
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't get your answer", "")
	}
	return ok, nil
}

// Add registers a new identity environment end to end.
func Add(paths config.Paths, opts AddOptions) error {
	return runAdd(paths, opts, defaultAddDeps(paths))
}

func runAdd(paths config.Paths, opts AddOptions, deps addDeps) error {
	id := identity.Sanitize(opts.Name)
	if id == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%q doesn't contain any usable characters for an environment name", opts.Name),
			"Names may use letters, digits, underscore, and dash")
	}

	store := identity.NewStoreWithLogger(paths, deps.log)

	// Step 1: layout and permissions.
	if err := store.EnsureLayout(); err != nil {
		return err
	}
	workDir := paths.WorkDir(id)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the working directory: "+workDir,
			"Check permissions on "+paths.CodeDir)
	}

	// Step 2: collision check with overwrite confirmation.
	if store.Exists(id) {
		overwrite := opts.Yes
		if !overwrite {
			if opts.NonInteractive {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Environment '%s' already exists", id),
					"Re-run with --yes to overwrite it")
			}
			var err error
			overwrite, err = deps.confirm(
				fmt.Sprintf("Environment '%s' already exists. Overwrite?", id),
				"This removes its key, Git fragment, include, and host stanza")
			if err != nil {
				return err
			}
		}
		if !overwrite {
			fmt.Fprintln(deps.out, "Cancelled. Nothing was changed.")
			return nil
		}
		if err := store.Remove(id); err != nil {
			return err
		}
	}

	// Step 3: key generation, the one hard-fail point.
	keyPath := paths.KeyPath(id)
	if err := deps.generate(keyPath, opts.GitEmail); err != nil {
		return err
	}
	fmt.Fprintln(deps.out, ui.Pass("Generated key "+keyPath))

	// Step 4: agent registration, warn-only.
	if err := deps.addToAgent(keyPath, opts.GitEmail); err != nil {
		deps.log.Warn("agent registration failed: %v", err)
		fmt.Fprintln(deps.out, ui.Warn("Couldn't register the key with the SSH agent (continuing)"))
	} else {
		fmt.Fprintln(deps.out, ui.Pass("Key registered with the SSH agent"))
	}

	// Step 5: host stanza. The old stanza was removed with the old
	// environment in step 2, so appending here can't accumulate
	// duplicates for the same alias.
	alias := paths.HostAlias(id)
	if err := sshconf.Append(paths.SSHConfig, sshconf.Stanza{
		Alias:        alias,
		IdentityFile: keyPath,
	}); err != nil {
		return err
	}
	fmt.Fprintln(deps.out, ui.Pass("Added SSH host alias "+alias))

	// Step 6: Git wiring.
	fragPath := paths.FragmentPath(id)
	if err := gitconf.EnsureInclude(paths.GitConfig, workDir, fragPath); err != nil {
		return err
	}
	if err := gitconf.WriteFragment(fragPath, gitconf.Fragment{
		Name:  opts.GitName,
		Email: opts.GitEmail,
	}); err != nil {
		return err
	}
	fmt.Fprintln(deps.out, ui.Pass(fmt.Sprintf("Git identity for %s scoped to %s", id, workDir)))

	// Step 7: surface the public key.
	pub, err := keys.ReadPublicKey(paths.PublicKeyPath(id))
	if err != nil {
		return err
	}
	if deps.copyClip(pub) {
		fmt.Fprintln(deps.out, ui.Pass("Public key copied to clipboard"))
	} else {
		fmt.Fprintln(deps.out, "Public key (copy it manually):")
		fmt.Fprintln(deps.out, "  "+pub)
	}
	if !opts.NonInteractive {
		if deps.openKeys() {
			fmt.Fprintln(deps.out, "Opened "+ui.KeySettingsURL+" in your browser.")
		} else {
			fmt.Fprintln(deps.out, "Add the key at: "+ui.KeySettingsURL)
		}
	} else {
		fmt.Fprintln(deps.out, "Add the key at: "+ui.KeySettingsURL)
	}

	// Step 8: confirmation gate. Re-prompts until affirmed; the only
	// way out besides confirming is interrupting the process.
	if !opts.NonInteractive {
		for {
			ok, err := deps.confirm(
				"Is the key registered with the remote host?",
				"Paste the public key into the key-management page, then confirm")
			if err != nil {
				return err
			}
			if ok {
				break
			}
			fmt.Fprintln(deps.out, "Waiting. Add the key, then confirm.")
		}
	}

	// Step 9: SSH verification, reported but never fatal.
	result := checkWithSpinner(deps.probe, alias, deps.out)
	if result.OK {
		fmt.Fprintln(deps.out, ui.Pass("SSH authentication works: "+result.Detail))
	} else {
		fmt.Fprintln(deps.out, ui.Fail("SSH authentication failed: "+result.Detail))
	}

	// Step 10: Git verification via scratch repository.
	effective, err := deps.verifier.ReadEffectiveIdentity(workDir)
	if err != nil {
		fmt.Fprintln(deps.out, ui.Fail("Couldn't verify the Git identity: "+err.Error()))
	} else if effective.Name == opts.GitName && effective.Email == opts.GitEmail {
		fmt.Fprintln(deps.out, ui.Pass(fmt.Sprintf("Git identity verified: %s <%s>", effective.Name, effective.Email)))
	} else {
		fmt.Fprintln(deps.out, ui.Fail(fmt.Sprintf(
			"Git identity mismatch: got %s <%s>, want %s <%s>",
			orUnset(effective.Name), orUnset(effective.Email), opts.GitName, opts.GitEmail)))
	}

	fmt.Fprintln(deps.out)
	fmt.Fprintln(deps.out, "Environment '"+id+"' is configured. Clone repositories under "+workDir+" using:")
	fmt.Fprintln(deps.out, "  git clone git@"+alias+":<owner>/<repo>.git")
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// checkWithSpinner runs the SSH probe behind an animated status line,
// since the network round trip can stall for several seconds.
func checkWithSpinner(p probe.Probe, alias string, out io.Writer) probe.Result {
	sp := ui.NewSpinner("Checking SSH authentication to " + alias)
	sp.SetOutput(func(s string) { fmt.Fprint(out, s) })
	sp.Start()
	result := p.Check(context.Background(), alias)
	if result.OK {
		sp.Success()
	} else {
		sp.Fail()
	}
	return result
}
