package git

import (
	"context"
	"fmt"
	"strings"
)

// CheckoutResult describes what Checkout did.
type CheckoutResult struct {
	Created bool
	Message string
}

// Checkout switches dir to branch. An existing local branch is checked out;
// otherwise a tracking branch is created from <remote>/<branch> if it exists,
// else a new local branch is created.
func Checkout(ctx context.Context, dir, branch, remote string) (CheckoutResult, error) {
	local, err := outputGit(ctx, dir, "branch", "--list", branch)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("failed to list branches: %w", err)
	}
	if strings.TrimSpace(string(local)) != "" {
		if err := runGit(ctx, dir, "checkout", branch); err != nil {
			return CheckoutResult{}, fmt.Errorf("failed to checkout existing branch '%s': %w", branch, err)
		}
		return CheckoutResult{Message: fmt.Sprintf("Switched to branch '%s'", branch)}, nil
	}

	tracking := remote + "/" + branch
	remoteList, err := outputGit(ctx, dir, "branch", "-r", "--list", tracking)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("failed to list remote branches: %w", err)
	}
	if strings.TrimSpace(string(remoteList)) != "" {
		if err := runGit(ctx, dir, "checkout", "-b", branch, tracking); err != nil {
			return CheckoutResult{}, fmt.Errorf("failed to checkout remote branch '%s': %w", branch, err)
		}
		return CheckoutResult{
			Created: true,
			Message: fmt.Sprintf("Created and switched to branch '%s' tracking %s", branch, tracking),
		}, nil
	}

	if err := runGit(ctx, dir, "checkout", "-b", branch); err != nil {
		return CheckoutResult{}, fmt.Errorf("failed to create new branch '%s': %w", branch, err)
	}
	return CheckoutResult{
		Created: true,
		Message: fmt.Sprintf("Created and switched to new branch '%s'", branch),
	}, nil
}

// Pull runs `git pull` for the current branch.
func Pull(ctx context.Context, dir string) error {
	if err := runGit(ctx, dir, "pull", "--quiet"); err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return nil
}
