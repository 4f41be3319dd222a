package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mgit/internal/config"
	"mgit/internal/engine"
	"mgit/internal/flags"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show repository status (default)",
	Long: `Show a status table for every repository under the directory.

Local fields (unstaged changes, branch) appear first; pull request and sync
columns fill in as the remote queries finish. Pending cells show a spinner and
failed ones show "Error".

Pull requests are looked up through the GitHub API. A token is taken from
GITHUB_TOKEN, GH_TOKEN or "gh auth token"; without one the API is used
unauthenticated. GITHUB_API_URL points the client at GitHub Enterprise.

Local fields are cached in .mgit/cache.json and reused while the repository's
HEAD, index and refs are unchanged.

Output:
	--console-format text draws the live table on a terminal and a plain table
	otherwise. json prints the final results as one array; ndjson streams a
	repo.updated event per change and a closing run.finished event.
	--out and --report write the same results to files.

Exit codes:
	0 = table shown (cells may still show Error)
	1 = fatal error (bad configuration, unreadable directory, output failure)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exit(runStatus(cmd, cfg))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	addStatusFlags(statusCmd, cfg)
}

func addStatusFlags(cmd *cobra.Command, c *config.Config) {
	// Scan
	cmd.Flags().BoolVarP(&c.Scan.Names, flags.FlagNames, "n", false, "Show real folder names instead of aliases")
	cmd.Flags().BoolVar(&c.Scan.NoParallel, flags.FlagNoParallel, false, "Process repositories one at a time and print a single table")

	// Cache
	cmd.Flags().BoolVar(&c.Cache.Clear, flags.FlagClearCache, false, "Clear cached repository data and exit")
	cmd.Flags().BoolVar(&c.Cache.Disabled, flags.FlagNoCache, false, "Ignore cached data for this run")

	// Runtime
	cmd.Flags().IntVar(&c.Runtime.Workers, flags.FlagWorkers, config.DefaultWorkers, "Concurrent workers for local git queries")
	cmd.Flags().IntVar(&c.Runtime.SlowWorkers, flags.FlagSlowWorkers, 0, "Concurrent workers for remote queries (default: min(4, --workers))")

	// Output
	cmd.Flags().StringVar(&c.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson")
	cmd.Flags().BoolVar(&c.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out/--report)")
	cmd.Flags().StringVar(&c.Output.Out, flags.FlagOut, "", "Write structured results to this path")
	cmd.Flags().StringVar(&c.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	cmd.Flags().StringVar(&c.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
}

func runStatus(cmd *cobra.Command, c *config.Config) int {
	if err := prepare(cmd, c); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return engine.NewEngine().Run(cmd.Context(), c)
}
