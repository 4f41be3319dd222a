package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mgit/internal/engine"
	"mgit/internal/flags"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch>",
	Short: "Checkout a branch in all repositories",
	Long: `Checkout a branch in every repository.

An existing local branch is checked out. Otherwise a tracking branch is
created from <remote>/<branch> when the remote has it, else a new local
branch is created. Exits 1 if any repository failed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := prepare(cmd, cfg); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exit(1)
			return
		}
		exit(engine.NewEngine().Checkout(cmd.Context(), cfg, args[0]))
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull latest changes in all repositories",
	Long:  `Run "git pull" in every repository. Exits 1 if any repository failed.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := prepare(cmd, cfg); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exit(1)
			return
		}
		exit(engine.NewEngine().Pull(cmd.Context(), cfg))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{checkoutCmd, pullCmd} {
		cmd.Flags().BoolVarP(&cfg.Scan.Names, flags.FlagNames, "n", false, "Show real folder names instead of aliases")
		rootCmd.AddCommand(cmd)
	}
}
