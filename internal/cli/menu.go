package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/gitid/internal/config"
	"golang.org/x/term"
)

// Menu choices, dispatched in the order presented.
const (
	menuResetSSH = "reset-ssh"
	menuResetGit = "reset-git"
	menuAdd      = "add"
	menuList     = "list"
	menuExit     = "exit"
)

// menuCommand runs the interactive menu loop: present choices, dispatch
// one lifecycle operation, report its outcome, and redisplay. Exit is
// the only terminal transition.
func menuCommand() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return rootCmd.Help()
	}

	paths, err := loadPaths()
	if err != nil {
		return err
	}

	for {
		choice, err := menuSelect()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			// Anything else is an input-layer hiccup: report and redisplay.
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if choice == menuExit {
			fmt.Println("Bye.")
			time.Sleep(300 * time.Millisecond)
			return nil
		}

		if err := dispatch(choice, paths); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Println()
	}
}

func menuSelect() (string, error) {
	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("gitid: identity environments").
				Options(
					huh.NewOption("1. Reset SSH (remove all managed keys and config)", menuResetSSH),
					huh.NewOption("2. Reset Git (remove main config and all fragments)", menuResetGit),
					huh.NewOption("3. Add environment", menuAdd),
					huh.NewOption("4. List & verify environments", menuList),
					huh.NewOption("5. Exit", menuExit),
				).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func dispatch(choice string, paths config.Paths) error {
	switch choice {
	case menuResetSSH:
		return ResetSSH(paths)
	case menuResetGit:
		return ResetGit(paths)
	case menuAdd:
		opts, err := promptAddOptions()
		if err != nil {
			return err
		}
		return Add(paths, opts)
	case menuList:
		return List(paths)
	default:
		return fmt.Errorf("unknown choice: %s", choice)
	}
}

// promptAddOptions collects the add-environment inputs interactively.
func promptAddOptions() (AddOptions, error) {
	var opts AddOptions
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Environment name").
				Description("Letters, digits, underscore, and dash").
				Placeholder("work").
				Value(&opts.Name),
			huh.NewInput().
				Title("Git user name").
				Placeholder("Jane Doe").
				Value(&opts.GitName),
			huh.NewInput().
				Title("Git email").
				Placeholder("jane@example.com").
				Value(&opts.GitEmail),
		),
	)
	if err := form.Run(); err != nil {
		return AddOptions{}, err
	}
	return opts, nil
}
