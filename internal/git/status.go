package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"mgit/internal/status"
)

// ErrRefNotFound is returned by ResolveRef when the ref does not exist.
var ErrRefNotFound = errors.New("ref not found")

// StatusSummary counts porcelain status entries.
type StatusSummary struct {
	Staged    int
	Unstaged  int
	Untracked int
}

// Changes is the number shown in the dashboard's unstaged column: tracked
// files with worktree modifications plus untracked files.
func (s StatusSummary) Changes() int {
	return s.Unstaged + s.Untracked
}

// ParsePorcelain summarizes `git status --porcelain` (v1) output.
func ParsePorcelain(out string) StatusSummary {
	var s StatusSummary
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 {
			continue
		}
		x, y := line[0], line[1]
		if x == '?' && y == '?' {
			s.Untracked++
			continue
		}
		if strings.IndexByte("MADRC", x) >= 0 {
			s.Staged++
		}
		if strings.IndexByte("MDA", y) >= 0 {
			s.Unstaged++
		}
	}
	return s
}

func Status(ctx context.Context, dir string) (StatusSummary, error) {
	out, err := outputGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return StatusSummary{}, fmt.Errorf("git status: %w", err)
	}
	// Leading spaces are significant in porcelain output; only trim newlines.
	return ParsePorcelain(strings.TrimRight(string(out), "\n")), nil
}

// CurrentBranch returns the checked out branch, or status.DetachedBranch for
// a detached HEAD.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" {
		return status.DetachedBranch, nil
	}
	return branch, nil
}

func RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	out, err := outputGit(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("no %s remote: %w", remote, err)
	}
	url := strings.TrimSpace(string(out))
	if url == "" {
		return "", fmt.Errorf("remote %s has an empty URL", remote)
	}
	return url, nil
}

func Fetch(ctx context.Context, dir, remote string) error {
	if err := runGit(ctx, dir, "fetch", remote, "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

// ResolveRef resolves ref to a commit hash.
func ResolveRef(ctx context.Context, dir, ref string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", fmt.Errorf("%s: %w", ref, ErrRefNotFound)
		}
		return "", fmt.Errorf("rev-parse %s: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CountCommits returns the number of commits in revRange (e.g. "a..b").
func CountCommits(ctx context.Context, dir, revRange string) (int, error) {
	out, err := outputGit(ctx, dir, "rev-list", "--count", revRange)
	if err != nil {
		return 0, fmt.Errorf("rev-list %s: %w", revRange, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return n, nil
}

// LocalRef and RemoteRef build fully qualified refs so branch names never
// collide with tags.
func LocalRef(branch string) string { return "refs/heads/" + branch }

func RemoteRef(remote, branch string) string { return "refs/remotes/" + remote + "/" + branch }
