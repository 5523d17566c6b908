package cli

import (
	"fmt"

	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/rileyhilliard/gitid/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	addNameFlag       string
	addGitNameFlag    string
	addEmailFlag      string
	addYesFlag        bool
	addNonInteractive bool
	doctorJSON        bool
)

// addCmd registers a new identity environment
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a Git/SSH identity environment",
	Long: `Register a named identity environment: generate a dedicated SSH key,
wire it into the SSH config under a synthetic host alias, and scope a
Git user identity to the environment's working directory.

Examples:
  gitid add
  gitid add --name work --git-name "Jane Doe" --email jane@example.com
  gitid add --name work --git-name "Jane Doe" --email jane@example.com --non-interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := loadPaths()
		if err != nil {
			return err
		}
		opts := AddOptions{
			Name:           addNameFlag,
			GitName:        addGitNameFlag,
			GitEmail:       addEmailFlag,
			Yes:            addYesFlag,
			NonInteractive: addNonInteractive,
		}
		if opts.Name == "" {
			if opts.NonInteractive {
				return errors.New(errors.ErrConfig,
					"An environment name is required in non-interactive mode",
					"Pass --name, --git-name, and --email")
			}
			opts, err = promptAddOptions()
			if err != nil {
				return err
			}
			opts.Yes = addYesFlag
		}
		return Add(paths, opts)
	},
}

// listCmd enumerates and verifies every environment
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List and verify identity environments",
	Long: `Enumerate every identity environment (by its Git fragment file),
read back the effective Git identity from each working directory, and
probe SSH authentication for each host alias.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := loadPaths()
		if err != nil {
			return err
		}
		return List(paths)
	},
}

// resetCmd holds the blanket reset operations
var resetCmd = &cobra.Command{
	Use:   "reset <ssh|git>",
	Short: "Remove all managed SSH or Git identity state",
	Long: `Blanket reset of one side of the identity store.

'reset ssh' clears agent-held keys, deletes every managed key file, and
removes the shared SSH client config. 'reset git' deletes the main Git
config and every per-identity fragment. Both are idempotent and affect
all environments at once; there is no single-environment delete.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"ssh", "git"},
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := loadPaths()
		if err != nil {
			return err
		}
		switch args[0] {
		case "ssh":
			return ResetSSH(paths)
		case "git":
			return ResetGit(paths)
		default:
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown reset target: %s", args[0]),
				"Use 'gitid reset ssh' or 'gitid reset git'")
		}
	},
}

// configCmd manages the gitid config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gitid configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Write a commented config file with the default filesystem layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.Default()
		if err != nil {
			return err
		}
		path, err := config.WriteDefault(paths)
		if err != nil {
			return err
		}
		fmt.Println("Wrote " + path)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addNameFlag, "name", "", "environment name")
	addCmd.Flags().StringVar(&addGitNameFlag, "git-name", "", "Git user name")
	addCmd.Flags().StringVar(&addEmailFlag, "email", "", "Git email")
	addCmd.Flags().BoolVarP(&addYesFlag, "yes", "y", false, "overwrite an existing environment without asking")
	addCmd.Flags().BoolVar(&addNonInteractive, "non-interactive", false, "skip all prompts, including the remote-key confirmation")

	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}
