package engine

import (
	"context"

	"mgit/internal/cache"
	"mgit/internal/git"
	"mgit/internal/status"
)

// DataSource answers the per-repository queries behind each status field.
// Any error is recorded against the field being computed.
type DataSource interface {
	StatusSummary(ctx context.Context, repoPath string) (git.StatusSummary, error)
	// CurrentBranch returns status.DetachedBranch for a detached HEAD.
	CurrentBranch(ctx context.Context, repoPath string) (string, error)
	RepoURL(ctx context.Context, repoPath string) (string, error)
	PullRequests(ctx context.Context, repoPath, branch string) ([]status.PullRequest, error)
	Fetch(ctx context.Context, repoPath string) error
	// ResolveRef returns an error wrapping git.ErrRefNotFound when ref does
	// not exist.
	ResolveRef(ctx context.Context, repoPath, ref string) (string, error)
	CountCommits(ctx context.Context, repoPath, revRange string) (int, error)
}

// ResultCache is the part of cache.Store the scheduler uses.
type ResultCache interface {
	IsValid(repoPath string) bool
	Get(repoPath string) cache.Data
	Set(repoPath string, d cache.Data)
}

var _ ResultCache = (*cache.Store)(nil)
