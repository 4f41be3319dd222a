package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mgit/internal/cache"
	"mgit/internal/git"
	"mgit/internal/status"
)

type fakeRepo struct {
	summary   git.StatusSummary
	statusErr error
	branch    string
	branchErr error
	prs       []status.PullRequest
	prErr     error
	fetchErr  error
	url       string
	urlErr    error
	// refs maps full ref names to commit ids.
	refs   map[string]string
	counts map[string]int
}

// inflight tracks the peak number of concurrent calls.
type inflight struct {
	cur atomic.Int64
	max atomic.Int64
}

func (f *inflight) enter() {
	n := f.cur.Add(1)
	for {
		m := f.max.Load()
		if n <= m || f.max.CompareAndSwap(m, n) {
			return
		}
	}
}

func (f *inflight) exit() { f.cur.Add(-1) }

type fakeSource struct {
	repos map[string]*fakeRepo // keyed by path
	delay time.Duration

	fast inflight
	slow inflight

	mu    sync.Mutex
	calls map[string]int // "method path"
}

func newFakeSource(repos map[string]*fakeRepo) *fakeSource {
	return &fakeSource{repos: repos, calls: make(map[string]int)}
}

func (f *fakeSource) record(method, path string) *fakeRepo {
	f.mu.Lock()
	f.calls[method+" "+path]++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.repos[path]
}

func (f *fakeSource) callCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeSource) StatusSummary(_ context.Context, path string) (git.StatusSummary, error) {
	f.fast.enter()
	defer f.fast.exit()
	r := f.record("status", path)
	if r == nil {
		return git.StatusSummary{}, fmt.Errorf("unknown repo %s", path)
	}
	return r.summary, r.statusErr
}

func (f *fakeSource) CurrentBranch(_ context.Context, path string) (string, error) {
	f.fast.enter()
	defer f.fast.exit()
	r := f.record("branch", path)
	if r == nil {
		return "", fmt.Errorf("unknown repo %s", path)
	}
	return r.branch, r.branchErr
}

func (f *fakeSource) RepoURL(_ context.Context, path string) (string, error) {
	f.slow.enter()
	defer f.slow.exit()
	r := f.record("url", path)
	if r == nil {
		return "", fmt.Errorf("unknown repo %s", path)
	}
	return r.url, r.urlErr
}

func (f *fakeSource) PullRequests(_ context.Context, path, _ string) ([]status.PullRequest, error) {
	f.slow.enter()
	defer f.slow.exit()
	r := f.record("prs", path)
	if r == nil {
		return nil, fmt.Errorf("unknown repo %s", path)
	}
	return r.prs, r.prErr
}

func (f *fakeSource) Fetch(_ context.Context, path string) error {
	f.slow.enter()
	defer f.slow.exit()
	r := f.record("fetch", path)
	if r == nil {
		return fmt.Errorf("unknown repo %s", path)
	}
	return r.fetchErr
}

func (f *fakeSource) ResolveRef(_ context.Context, path, ref string) (string, error) {
	r := f.record("resolve", path)
	if r == nil {
		return "", fmt.Errorf("unknown repo %s", path)
	}
	if id, ok := r.refs[ref]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%s: %w", ref, git.ErrRefNotFound)
}

func (f *fakeSource) CountCommits(_ context.Context, path, revRange string) (int, error) {
	r := f.record("count", path)
	if r == nil {
		return 0, fmt.Errorf("unknown repo %s", path)
	}
	n, ok := r.counts[revRange]
	if !ok {
		return 0, errors.New("bad revision range " + revRange)
	}
	return n, nil
}

// memCache is an in-memory ResultCache.
type memCache struct {
	mu    sync.Mutex
	valid map[string]bool
	data  map[string]cache.Data
	sets  map[string]int
}

func newMemCache() *memCache {
	return &memCache{
		valid: make(map[string]bool),
		data:  make(map[string]cache.Data),
		sets:  make(map[string]int),
	}
}

func (c *memCache) IsValid(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid[path]
}

func (c *memCache) Get(path string) cache.Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[path]
}

func (c *memCache) Set(path string, d cache.Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[path] = d
	c.valid[path] = true
	c.sets[path]++
}

func refsInSync(branch, id string) map[string]string {
	return map[string]string{
		git.LocalRef(branch):            id,
		git.RemoteRef("origin", branch): id,
	}
}
