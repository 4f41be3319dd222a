package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mgit/internal/config"
	"mgit/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "mgit",
	Short: "Show the status of every git repository in a directory",
	Long: `mgit shows a live status table for every git repository directly under the
current directory: unstaged changes, current branch, open pull request and
whether the branch is in sync with its remote.

Running mgit without a command is the same as "mgit status".

Examples:
	# Status of every repository under the current directory
	mgit

	# Switch every repository to a branch
	mgit checkout feature/login

	# Pull the current branch everywhere
	mgit pull

Configuration:
	.mgit/exclude      folder-name globs to skip, one per line
	.mgit/alias        "folder = display name" lines
	.mgit/config.toml  defaults for workers, slow_workers, remote, names,
	                   console_format, exclude and [aliases]
	Command-line flags always win over the files.`,
	Run: func(cmd *cobra.Command, args []string) {
		exit(runStatus(cmd, cfg))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every git command and GitHub API call)")
	rootCmd.PersistentFlags().StringVar(&cfg.Scan.Dir, flags.FlagDir, "", "Directory whose repositories are processed (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&cfg.Runtime.Remote, flags.FlagRemote, config.DefaultRemote, "Remote to fetch and compare against")

	// Status flags are accepted on the root command too, so `mgit -n` works.
	addStatusFlags(rootCmd, cfg)
}

// prepare merges the .mgit files into c and validates the result.
func prepare(cmd *cobra.Command, c *config.Config) error {
	if err := config.Load(c, cmd.Flags().Changed); err != nil {
		return err
	}
	return c.Validate()
}

func exit(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
