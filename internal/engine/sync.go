package engine

import (
	"context"
	"errors"

	"mgit/internal/git"
	"mgit/internal/status"
)

// deriveSync compares branch with its remote-tracking counterpart. A local
// branch that cannot be resolved yields SyncUnknown; a missing remote branch
// counts as one commit ahead.
func deriveSync(ctx context.Context, src DataSource, repoPath, remote, branch string) (status.SyncStatus, error) {
	local, err := src.ResolveRef(ctx, repoPath, git.LocalRef(branch))
	if err != nil {
		return status.SyncStatus{State: status.SyncUnknown}, nil
	}

	upstream, err := src.ResolveRef(ctx, repoPath, git.RemoteRef(remote, branch))
	if errors.Is(err, git.ErrRefNotFound) {
		return status.SyncStatus{State: status.SyncAhead, Ahead: 1}, nil
	}
	if err != nil {
		return status.SyncStatus{}, err
	}
	if local == upstream {
		return status.SyncStatus{State: status.SyncSynced}, nil
	}

	ahead, err := src.CountCommits(ctx, repoPath, upstream+".."+local)
	if err != nil {
		return status.SyncStatus{}, err
	}
	behind, err := src.CountCommits(ctx, repoPath, local+".."+upstream)
	if err != nil {
		return status.SyncStatus{}, err
	}

	switch {
	case ahead > 0 && behind > 0:
		return status.SyncStatus{State: status.SyncDiverged, Ahead: ahead, Behind: behind}, nil
	case ahead > 0:
		return status.SyncStatus{State: status.SyncAhead, Ahead: ahead}, nil
	case behind > 0:
		return status.SyncStatus{State: status.SyncBehind, Behind: behind}, nil
	default:
		return status.SyncStatus{State: status.SyncSynced}, nil
	}
}
