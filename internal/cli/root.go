// Package cli wires the cobra commands and the interactive menu. Every
// lifecycle operation is reachable both from the menu (bare invocation)
// and as a subcommand for scripted use.
package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/gitid/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "gitid",
	Short: "Manage Git/SSH identity environments",
	Long: `gitid manages named Git/SSH identity environments on a workstation.

Each environment pairs a dedicated SSH key and host alias with a Git
user identity that activates only inside that environment's working
directory. Run without arguments for the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Assigned here rather than in the literal to avoid an
	// initialization cycle (menuCommand refers back to rootCmd).
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(formatVersion(version))
			return nil
		}
		return menuCommand()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to gitid config file")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadPaths resolves the filesystem layout, honoring --config.
func loadPaths() (config.Paths, error) {
	return config.Load(cfgFile)
}
