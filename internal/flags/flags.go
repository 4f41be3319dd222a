package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// the config loader, which needs them to tell explicitly set flags apart
// from defaults.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().IntVar(&cfg.Runtime.Workers, flags.FlagWorkers, 8, "...")
//	if cmd.Flags().Changed(flags.FlagWorkers) { ... }
const (
	// Scan
	FlagDir        = "dir"
	FlagNames      = "names"
	FlagNoParallel = "no-parallel"

	// Runtime
	FlagWorkers     = "workers"
	FlagSlowWorkers = "slow-workers"
	FlagRemote      = "remote"
	FlagVerbose     = "verbose"

	// Output
	FlagConsoleFormat = "console-format"
	FlagNoConsole     = "no-console"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagReport        = "report"

	// Cache
	FlagClearCache = "clear-cache"
	FlagNoCache    = "no-cache"
)
