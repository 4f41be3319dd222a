package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"mgit/internal/cache"
	"mgit/internal/config"
	"mgit/internal/fetcher"
	gh "mgit/internal/github"
	"mgit/internal/log"
	"mgit/internal/output"
)

const (
	exitOK    = 0
	exitFatal = 1
)

// apiURLEnv overrides the GitHub REST root, for GitHub Enterprise.
const apiURLEnv = "GITHUB_API_URL"

type Engine struct {
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether Stdout is an interactive terminal.
	IsTerminal func() bool

	// newSource is a test seam. If nil, Engine builds the real fetcher.
	newSource func(ctx context.Context, cfg *config.Config) (DataSource, error)
	lookPath  func(file string) (string, error)
	ops       BatchOps
}

func NewEngine() *Engine {
	return &Engine{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

func (e *Engine) logger(cfg *config.Config) *log.Logger {
	return log.New(e.Stderr, cfg.Runtime.Verbose)
}

func scanDir(cfg *config.Config) string {
	if cfg.Scan.Dir == "" {
		return "."
	}
	return cfg.Scan.Dir
}

func (e *Engine) discover(cfg *config.Config) ([]RepositoryRef, bool) {
	repos, err := Discover(scanDir(cfg), cfg.Scan.Exclude, cfg.Scan.Aliases, cfg.Scan.Names)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error discovering repositories: %v\n", err)
		return nil, false
	}
	return repos, true
}

func (e *Engine) setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		var sink output.Sink
		switch cfg.Output.ConsoleFormat {
		case output.FormatJSON, output.FormatNDJSON:
			es, err := output.NewEmitSink(e.Stdout, cfg.Output.ConsoleFormat)
			if err != nil {
				outMgr.Close()
				return nil, err
			}
			sink = es
		default:
			if !cfg.Scan.NoParallel && e.IsTerminal != nil && e.IsTerminal() {
				sink = output.NewTerminalRenderer(e.Stdout)
			} else {
				sink = output.NewPlainSink(e.Stdout)
			}
		}
		if err := outMgr.AddSink(sink); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

var _ DataSource = (*fetcher.Fetcher)(nil)

// buildSource wires the git client and the GitHub API into a Fetcher.
// Missing credentials are not an error; lookups then run unauthenticated.
func buildSource(ctx context.Context, cfg *config.Config) (DataSource, error) {
	logger := log.FromContext(ctx)

	token, source, err := gh.ResolveToken(ctx)
	if err != nil {
		logger.Verbosef("github token: %v", err)
	}
	logger.Verbosef("github token source: %s", source)

	client, err := gh.NewClient(ctx, token,
		gh.WithVerbose(cfg.Runtime.Verbose, logger.Writer()),
		gh.WithBaseURL(os.Getenv(apiURLEnv)),
	)
	if err != nil {
		return nil, err
	}
	return fetcher.New(cfg.Runtime.Remote, client, nil, fetcher.WithVerboseErrors(cfg.Runtime.Verbose)), nil
}

// Run shows the status dashboard for every repository under the scan
// directory and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if !e.checkRequirements() {
		return exitFatal
	}
	logger := e.logger(cfg)
	ctx = log.WithLogger(ctx, logger)

	store := cache.Load(scanDir(cfg), cache.WithLogger(logger))
	if cfg.Cache.Clear {
		store.Clear()
		fmt.Fprintln(e.Stdout, "Cache cleared.")
		return exitOK
	}

	repos, ok := e.discover(cfg)
	if !ok {
		return exitFatal
	}
	if len(repos) == 0 {
		fmt.Fprintln(e.Stdout, "No git repositories found in current directory")
		return exitOK
	}
	logger.Verbosef("found %d repositories", len(repos))

	newSource := e.newSource
	if newSource == nil {
		newSource = buildSource
	}
	src, err := newSource(ctx, cfg)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error creating data source: %v\n", err)
		return exitFatal
	}

	scheduler, err := NewScheduler(src, store, SchedulerConfig{
		Workers:      cfg.Runtime.Workers,
		SlowWorkers:  cfg.Runtime.SlowWorkerCount(),
		Remote:       cfg.Runtime.Remote,
		NoCacheReads: cfg.Cache.Disabled,
	})
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error creating scheduler: %v\n", err)
		return exitFatal
	}

	outMgr, err := e.setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error creating output sinks: %v\n", err)
		return exitFatal
	}

	snap := scheduler.Run(ctx, repos, outMgr.Render)
	outMgr.Finish(snap)
	if err := outMgr.Close(); err != nil {
		fmt.Fprintf(e.Stderr, "Error writing output: %v\n", err)
		return exitFatal
	}
	if n := snap.ErrorCount(); n > 0 {
		logger.Verbosef("%d fields could not be computed", n)
	}
	return exitOK
}
