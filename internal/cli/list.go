package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/rileyhilliard/gitid/internal/gitconf"
	"github.com/rileyhilliard/gitid/internal/identity"
	"github.com/rileyhilliard/gitid/internal/logger"
	"github.com/rileyhilliard/gitid/internal/probe"
	"github.com/rileyhilliard/gitid/internal/ui"
)

// listDeps collects the externals of the list-and-verify operation.
type listDeps struct {
	probe    probe.Probe
	verifier identityVerifier
	out      io.Writer
	log      logger.Logger
}

func defaultListDeps(paths config.Paths) listDeps {
	return listDeps{
		probe:    probe.NewSSHProbe(0),
		verifier: gitconf.NewVerifier(paths.GitConfig),
		out:      os.Stdout,
		log:      logger.NewEnvLogger("[list]"),
	}
}

// List enumerates every identity environment and verifies each one.
func List(paths config.Paths) error {
	return runList(paths, defaultListDeps(paths))
}

func runList(paths config.Paths, deps listDeps) error {
	store := identity.NewStoreWithLogger(paths, deps.log)

	ids, err := store.List()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(deps.out, "No environments found.")
		return nil
	}

	for _, ident := range ids {
		alias := paths.HostAlias(ident.ID)
		workDir := paths.WorkDir(ident.ID)

		fmt.Fprintf(deps.out, "%s (%s)\n", ident.ID, alias)

		if _, err := os.Stat(workDir); err != nil {
			fmt.Fprintln(deps.out, "  "+ui.Warn("working directory missing: "+workDir))
		} else {
			effective, err := deps.verifier.ReadEffectiveIdentity(workDir)
			switch {
			case err != nil:
				fmt.Fprintln(deps.out, "  "+ui.Fail("couldn't read Git identity: "+err.Error()))
			case effective.Name == ident.GitName && effective.Email == ident.GitEmail:
				fmt.Fprintln(deps.out, "  "+ui.Pass(fmt.Sprintf("git: %s <%s>", effective.Name, effective.Email)))
			default:
				fmt.Fprintln(deps.out, "  "+ui.Fail(fmt.Sprintf(
					"git: %s <%s> (fragment says %s <%s>)",
					orUnset(effective.Name), orUnset(effective.Email),
					ident.GitName, ident.GitEmail)))
			}
		}

		result := checkWithSpinner(deps.probe, alias, deps.out)
		if result.OK {
			fmt.Fprintln(deps.out, "  "+ui.Pass("ssh: authenticated"))
		} else {
			fmt.Fprintln(deps.out, "  "+ui.Fail("ssh: "+result.Detail))
		}
	}

	return nil
}
