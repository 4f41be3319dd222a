package engine

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	"mgit/internal/config"
	"mgit/internal/git"
	"mgit/internal/log"
)

// BatchOps runs the mutating git operations of checkout and pull.
type BatchOps interface {
	Checkout(ctx context.Context, repoPath, branch, remote string) (git.CheckoutResult, error)
	Pull(ctx context.Context, repoPath string) error
	CurrentBranch(ctx context.Context, repoPath string) (string, error)
}

type gitOps struct{}

func (gitOps) Checkout(ctx context.Context, repoPath, branch, remote string) (git.CheckoutResult, error) {
	return git.Checkout(ctx, repoPath, branch, remote)
}

func (gitOps) Pull(ctx context.Context, repoPath string) error {
	return git.Pull(ctx, repoPath)
}

func (gitOps) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	return git.CurrentBranch(ctx, repoPath)
}

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	failColor = color.New(color.FgRed).SprintFunc()
)

func (e *Engine) batchOps() BatchOps {
	if e.ops != nil {
		return e.ops
	}
	return gitOps{}
}

// Checkout switches every repository to branch, creating it when needed.
func (e *Engine) Checkout(ctx context.Context, cfg *config.Config, branch string) int {
	if !e.checkRequirements() {
		return exitFatal
	}
	ctx = log.WithLogger(ctx, e.logger(cfg))
	repos, ok := e.discover(cfg)
	if !ok {
		return exitFatal
	}

	ops := e.batchOps()
	header := fmt.Sprintf("Checking out branch '%s' in all repositories...", branch)
	return e.runBatch(header, repos, func(repo RepositoryRef) (string, error) {
		res, err := ops.Checkout(ctx, repo.Path, branch, cfg.Runtime.Remote)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	})
}

// Pull runs git pull in every repository.
func (e *Engine) Pull(ctx context.Context, cfg *config.Config) int {
	if !e.checkRequirements() {
		return exitFatal
	}
	ctx = log.WithLogger(ctx, e.logger(cfg))
	repos, ok := e.discover(cfg)
	if !ok {
		return exitFatal
	}

	ops := e.batchOps()
	return e.runBatch("Pulling latest changes in all repositories...", repos, func(repo RepositoryRef) (string, error) {
		branch, err := ops.CurrentBranch(ctx, repo.Path)
		if err != nil {
			branch = "unknown"
		}
		if err := ops.Pull(ctx, repo.Path); err != nil {
			log.FromContext(ctx).Verbosef("%s: %v", repo.Name, err)
			return "", fmt.Errorf("failed to pull changes for branch '%s'", branch)
		}
		return fmt.Sprintf("Successfully pulled latest changes for branch '%s'", branch), nil
	})
}

// runBatch applies op to each repository in order, printing one line per
// repository and a summary. It returns exitFatal if any repository failed.
func (e *Engine) runBatch(header string, repos []RepositoryRef, op func(RepositoryRef) (string, error)) int {
	fmt.Fprintln(e.Stdout, header)
	fmt.Fprintln(e.Stdout)

	succeeded, failed := 0, 0
	for _, repo := range repos {
		fmt.Fprintf(e.Stdout, "Processing %s... ", repo.DisplayName)
		msg, err := op(repo)
		if err != nil {
			failed++
			fmt.Fprintf(e.Stdout, "%s %s\n", failColor("✗"), sentence(err.Error()))
			continue
		}
		succeeded++
		fmt.Fprintf(e.Stdout, "%s %s\n", okColor("✓"), msg)
	}

	fmt.Fprintln(e.Stdout)
	fmt.Fprintf(e.Stdout, "Summary: %d successful, %d failed out of %d repositories\n", succeeded, failed, len(repos))
	if failed > 0 {
		return exitFatal
	}
	return exitOK
}

// sentence upper-cases the first letter of an error message for display.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
