package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mgit/internal/status"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// fakeRepo lays out the minimal git metadata GitMtime inspects.
func fakeRepo(t *testing.T, root, name string) string {
	t.Helper()
	repo := filepath.Join(root, name)
	gitDir := filepath.Join(repo, ".git")
	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"HEAD", "index", filepath.Join("refs", "heads", "main")} {
		if err := os.WriteFile(filepath.Join(gitDir, f), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	for _, f := range []string{"HEAD", "index", filepath.Join("refs", "heads", "main")} {
		if err := os.Chtimes(filepath.Join(gitDir, f), past, past); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")

	want := Data{
		UnstagedChanges: intPtr(2),
		CurrentBranch:   strPtr("main"),
		PRInfo:          &status.PRInfo{Exists: true, Number: 7, URL: "https://github.com/o/alpha/pull/7"},
		IsRemoteUpdated: boolPtr(true),
		SyncStatus:      &status.SyncStatus{State: status.SyncSynced},
		RepoURL:         strPtr("https://github.com/o/alpha"),
	}
	Load(dir).Set(repo, want)

	if _, err := os.Stat(FilePath(dir)); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	reloaded := Load(dir)
	if !reloaded.IsValid(repo) {
		t.Fatalf("expected entry to be valid after reload")
	}
	if diff := cmp.Diff(want, reloaded.Get(repo)); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_InvalidatedByHeadChange(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")

	s := Load(dir)
	s.Set(repo, Data{UnstagedChanges: intPtr(0), CurrentBranch: strPtr("main")})
	if !s.IsValid(repo) {
		t.Fatalf("expected fresh entry to be valid")
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(repo, ".git", "HEAD"), future, future); err != nil {
		t.Fatal(err)
	}
	if s.IsValid(repo) {
		t.Fatalf("expected entry to be stale after HEAD moved forward")
	}
}

func TestStore_InvalidatedByRefChange(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")

	s := Load(dir)
	s.Set(repo, Data{CurrentBranch: strPtr("main")})

	future := time.Now().Add(time.Hour)
	ref := filepath.Join(repo, ".git", "refs", "heads", "main")
	if err := os.Chtimes(ref, future, future); err != nil {
		t.Fatal(err)
	}
	if s.IsValid(repo) {
		t.Fatalf("expected entry to be stale after a ref moved forward")
	}
}

func TestStore_MissingEntry(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")

	s := Load(dir)
	if s.IsValid(repo) {
		t.Fatalf("expected no entry to be invalid")
	}
	if !s.Get(repo).Empty() {
		t.Fatalf("expected empty data for unknown repo")
	}
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".mgit"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(FilePath(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if n := Load(dir).Len(); n != 0 {
		t.Fatalf("Len = %d, want 0", n)
	}
}

func TestLoad_ToleratesUnknownAndBadEntries(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")
	abs, err := filepath.Abs(repo)
	if err != nil {
		t.Fatal(err)
	}

	content := `{
  "` + abs + `": {"mtime": 9999999999, "data": {"current_branch": "dev", "future_field": [1, 2]}},
  "/elsewhere": "garbage"
}`
	if err := os.MkdirAll(filepath.Join(dir, ".mgit"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(FilePath(dir), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(dir)
	if n := s.Len(); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
	got := s.Get(repo)
	if got.CurrentBranch == nil || *got.CurrentBranch != "dev" {
		t.Fatalf("CurrentBranch = %v, want dev", got.CurrentBranch)
	}
	if !s.IsValid(repo) {
		t.Fatalf("expected far-future mtime to be valid")
	}
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")

	s := Load(dir)
	s.Set(repo, Data{CurrentBranch: strPtr("main")})
	s.Clear()

	if n := Load(dir).Len(); n != 0 {
		t.Fatalf("Len after Clear = %d, want 0", n)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	repo := fakeRepo(t, dir, "alpha")

	s := Load(dir)
	s.Set(repo, Data{UnstagedChanges: intPtr(1)})

	got := s.Get(repo)
	*got.UnstagedChanges = 42

	if v := *s.Get(repo).UnstagedChanges; v != 1 {
		t.Fatalf("stored value mutated through Get: %d", v)
	}
}

func TestGitMtime_NoMetadata(t *testing.T) {
	if got := GitMtime(t.TempDir()); got != 0 {
		t.Fatalf("GitMtime = %v, want 0", got)
	}
}

func TestDataFromResult(t *testing.T) {
	r := status.NewRepoResult("alpha", "alpha", "/src/alpha")
	r.Apply(status.SetUnstaged{Count: 3})
	r.Apply(status.SetBranch{Name: "main"})
	r.Apply(status.FieldError{Tag: status.FieldPR, Message: "boom"})

	d := DataFromResult(*r)
	if d.UnstagedChanges == nil || *d.UnstagedChanges != 3 {
		t.Fatalf("UnstagedChanges = %v", d.UnstagedChanges)
	}
	if d.PRInfo != nil {
		t.Fatalf("errored PR must not be cached, got %+v", d.PRInfo)
	}
	if d.Empty() {
		t.Fatalf("expected non-empty data")
	}
}
