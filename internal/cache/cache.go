package cache

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"mgit/internal/log"
	"mgit/internal/status"
)

// Data holds the cached fields of one repository. Unknown keys in the file
// are ignored so newer versions can add fields.
type Data struct {
	UnstagedChanges *int               `json:"unstaged_changes,omitempty"`
	CurrentBranch   *string            `json:"current_branch,omitempty"`
	PRInfo          *status.PRInfo     `json:"pr_info,omitempty"`
	IsRemoteUpdated *bool              `json:"is_remote_updated,omitempty"`
	SyncStatus      *status.SyncStatus `json:"sync_status,omitempty"`
	RepoURL         *string            `json:"repo_url,omitempty"`
}

// Empty reports whether no field is present.
func (d Data) Empty() bool {
	return d.UnstagedChanges == nil && d.CurrentBranch == nil && d.PRInfo == nil &&
		d.IsRemoteUpdated == nil && d.SyncStatus == nil && d.RepoURL == nil
}

// DataFromResult captures the resolved fields of r.
func DataFromResult(r status.RepoResult) Data {
	c := r.Clone()
	return Data{
		UnstagedChanges: c.UnstagedChanges,
		CurrentBranch:   c.CurrentBranch,
		PRInfo:          c.PR,
		IsRemoteUpdated: c.RemoteUpdated,
		SyncStatus:      c.Sync,
		RepoURL:         c.RepoURL,
	}
}

func (d Data) clone() Data {
	r := status.RepoResult{
		UnstagedChanges: d.UnstagedChanges,
		CurrentBranch:   d.CurrentBranch,
		PR:              d.PRInfo,
		RemoteUpdated:   d.IsRemoteUpdated,
		Sync:            d.SyncStatus,
		RepoURL:         d.RepoURL,
	}
	return DataFromResult(r)
}

type entry struct {
	Mtime float64 `json:"mtime"`
	Data  Data    `json:"data"`
}

// Store is the on-disk cache for one scanned directory. It is safe for
// concurrent use; every Set rewrites the whole file.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]entry
	logger  *log.Logger
}

type Option func(*Store)

// WithLogger routes best-effort persistence failures to l (verbose only).
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// FilePath returns the cache file location for a scanned directory.
func FilePath(scanDir string) string {
	return filepath.Join(scanDir, ".mgit", "cache.json")
}

// Load reads the cache for scanDir. It never fails: unreadable or invalid
// content yields an empty cache.
func Load(scanDir string, opts ...Option) *Store {
	s := &Store{
		path:    FilePath(scanDir),
		entries: make(map[string]entry),
		logger:  log.New(nil, false),
	}
	for _, apply := range opts {
		if apply != nil {
			apply(s)
		}
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Verbosef("cache: ignoring unreadable %s: %v", s.path, err)
		}
		return s
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		s.logger.Verbosef("cache: ignoring corrupt %s: %v", s.path, err)
		return s
	}
	for key, msg := range top {
		var e entry
		if err := json.Unmarshal(msg, &e); err != nil {
			s.logger.Verbosef("cache: dropping invalid entry %s: %v", key, err)
			continue
		}
		s.entries[key] = e
	}
	return s
}

func repoKey(repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return filepath.Clean(repoPath)
	}
	return abs
}

// IsValid reports whether a cached entry exists for repoPath and is at least
// as new as the repository's git metadata.
func (s *Store) IsValid(repoPath string) bool {
	s.mu.Lock()
	e, ok := s.entries[repoKey(repoPath)]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return e.Mtime >= GitMtime(repoPath)
}

// Get returns the cached fields for repoPath, or empty Data.
func (s *Store) Get(repoPath string) Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[repoKey(repoPath)].Data.clone()
}

// Set replaces the entry for repoPath, stamping it with the current git
// metadata mtime, and rewrites the cache file.
func (s *Store) Set(repoPath string, d Data) {
	mtime := GitMtime(repoPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[repoKey(repoPath)] = entry{Mtime: mtime, Data: d.clone()}
	s.saveLocked()
}

// Clear drops every entry and rewrites the file.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	s.saveLocked()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) saveLocked() {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		s.logger.Verbosef("cache: encode failed: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Verbosef("cache: %v", err)
		return
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		s.logger.Verbosef("cache: write %s failed: %v", s.path, err)
	}
}
