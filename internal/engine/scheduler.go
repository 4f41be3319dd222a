package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"mgit/internal/cache"
	"mgit/internal/status"
)

const (
	maxSlowWorkers       = 4
	errBranchUnavailable = "branch unavailable"
)

// ProgressFunc receives a snapshot after every per-repository completion.
// It is called with the result lock held, so calls never overlap.
type ProgressFunc func(snap status.Snapshot, phase status.Phase)

type SchedulerConfig struct {
	Workers int
	// SlowWorkers bounds the network-bound phase; 0 means min(4, Workers).
	SlowWorkers int
	Remote      string
	// NoCacheReads ignores cached fields but still persists fresh ones.
	NoCacheReads bool
}

// Scheduler gathers repository status in two phases separated by a barrier:
// local fields for every repository first, then the remote-dependent ones.
type Scheduler struct {
	src   DataSource
	cache ResultCache
	cfg   SchedulerConfig
}

// NewScheduler returns a Scheduler. cache may be nil.
func NewScheduler(src DataSource, cache ResultCache, cfg SchedulerConfig) (*Scheduler, error) {
	if src == nil {
		return nil, errors.New("data source is nil")
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers must be >= 1, got %d", cfg.Workers)
	}
	if cfg.SlowWorkers < 0 {
		return nil, fmt.Errorf("slow workers must be >= 0, got %d", cfg.SlowWorkers)
	}
	if cfg.SlowWorkers == 0 {
		cfg.SlowWorkers = min(maxSlowWorkers, cfg.Workers)
	}
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	return &Scheduler{src: src, cache: cache, cfg: cfg}, nil
}

// runState is the result map shared by the workers of one run.
type runState struct {
	mu         sync.Mutex
	results    map[string]*status.RepoResult
	onProgress ProgressFunc
}

func (st *runState) snapshotLocked() status.Snapshot {
	snap := make(status.Snapshot, len(st.results))
	for k, r := range st.results {
		snap[k] = r.Clone()
	}
	return snap
}

func (st *runState) notifyLocked(phase status.Phase) {
	if st.onProgress != nil {
		st.onProgress(st.snapshotLocked(), phase)
	}
}

func (st *runState) insert(r *status.RepoResult) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.results[r.Name] = r
	st.notifyLocked(status.PhaseFast)
}

// merge applies updates to an existing record and returns a copy of it.
func (st *runState) merge(name string, updates []status.Update) status.RepoResult {
	st.mu.Lock()
	defer st.mu.Unlock()
	r := st.results[name]
	for _, u := range updates {
		r.Apply(u)
	}
	st.notifyLocked(status.PhaseSlow)
	return r.Clone()
}

// branch returns the branch recorded by the fast phase.
func (st *runState) branch(name string) (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r := st.results[name]
	if r == nil || r.CurrentBranch == nil {
		return "", false
	}
	return *r.CurrentBranch, true
}

func (st *runState) snapshot() status.Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshotLocked()
}

// Run gathers every repository's status and returns the final snapshot. It
// blocks until both phases have drained. Field failures are recorded on the
// results; Run itself does not fail.
func (s *Scheduler) Run(ctx context.Context, repos []RepositoryRef, onProgress ProgressFunc) status.Snapshot {
	st := &runState{
		results:    make(map[string]*status.RepoResult, len(repos)),
		onProgress: onProgress,
	}

	var fast errgroup.Group
	fast.SetLimit(s.cfg.Workers)
	for _, repo := range repos {
		fast.Go(func() error {
			st.insert(s.fastResult(ctx, repo))
			return nil
		})
	}
	_ = fast.Wait()

	var slow errgroup.Group
	slow.SetLimit(s.cfg.SlowWorkers)
	for _, repo := range repos {
		branch, ok := st.branch(repo.Name)
		slow.Go(func() error {
			updates := s.slowUpdates(ctx, repo, branch, ok)
			merged := st.merge(repo.Name, updates)
			s.persist(repo.Path, merged)
			return nil
		})
	}
	_ = slow.Wait()

	return st.snapshot()
}

func (s *Scheduler) cached(repoPath string) (cache.Data, bool) {
	if s.cache == nil || s.cfg.NoCacheReads || !s.cache.IsValid(repoPath) {
		return cache.Data{}, false
	}
	return s.cache.Get(repoPath), true
}

func (s *Scheduler) fastResult(ctx context.Context, repo RepositoryRef) *status.RepoResult {
	r := status.NewRepoResult(repo.Name, repo.DisplayName, repo.Path)
	d, hit := s.cached(repo.Path)

	if hit && d.UnstagedChanges != nil {
		r.Apply(status.SetUnstaged{Count: *d.UnstagedChanges})
	} else if sum, err := s.src.StatusSummary(ctx, repo.Path); err != nil {
		r.Apply(status.FieldError{Tag: status.FieldUnstaged, Message: err.Error()})
	} else {
		r.Apply(status.SetUnstaged{Count: sum.Changes()})
	}

	if hit && d.CurrentBranch != nil {
		r.Apply(status.SetBranch{Name: *d.CurrentBranch})
	} else if branch, err := s.src.CurrentBranch(ctx, repo.Path); err != nil {
		r.Apply(status.FieldError{Tag: status.FieldBranch, Message: err.Error()})
	} else {
		r.Apply(status.SetBranch{Name: branch})
	}
	return r
}

// slowUpdates computes the PR, sync and URL fields. Each is independent; a
// failure becomes a FieldError for that field only.
func (s *Scheduler) slowUpdates(ctx context.Context, repo RepositoryRef, branch string, hasBranch bool) []status.Update {
	updates := make([]status.Update, 0, 3)

	switch {
	case !hasBranch:
		updates = append(updates,
			status.FieldError{Tag: status.FieldPR, Message: errBranchUnavailable},
			status.FieldError{Tag: status.FieldRemote, Message: errBranchUnavailable},
		)
	case branch == status.DetachedBranch:
		updates = append(updates,
			status.SetPR{Info: status.PRInfo{}},
			status.SetSync{Status: status.SyncStatus{State: status.SyncUnknown}},
		)
	default:
		updates = append(updates, s.prUpdate(ctx, repo.Path, branch), s.syncUpdate(ctx, repo.Path, branch))
	}

	if url, err := s.src.RepoURL(ctx, repo.Path); err != nil {
		updates = append(updates, status.FieldError{Tag: status.FieldRepoURL, Message: err.Error()})
	} else {
		updates = append(updates, status.SetRepoURL{URL: url})
	}
	return updates
}

func (s *Scheduler) prUpdate(ctx context.Context, repoPath, branch string) status.Update {
	prs, err := s.src.PullRequests(ctx, repoPath, branch)
	if err != nil {
		return status.FieldError{Tag: status.FieldPR, Message: err.Error()}
	}
	return status.SetPR{Info: status.PRFromList(prs)}
}

func (s *Scheduler) syncUpdate(ctx context.Context, repoPath, branch string) status.Update {
	if err := s.src.Fetch(ctx, repoPath); err != nil {
		return status.FieldError{Tag: status.FieldRemote, Message: err.Error()}
	}
	ss, err := deriveSync(ctx, s.src, repoPath, s.cfg.Remote, branch)
	if err != nil {
		return status.FieldError{Tag: status.FieldRemote, Message: err.Error()}
	}
	return status.SetSync{Status: ss}
}

// persist writes every gathered field of one repository to the cache.
func (s *Scheduler) persist(repoPath string, r status.RepoResult) {
	if s.cache == nil {
		return
	}
	d := cache.DataFromResult(r)
	if d.Empty() {
		return
	}
	s.cache.Set(repoPath, d)
}
