package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mgit/internal/status"
)

func TestReportSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}

	snap := alphaBeta()
	gamma := status.NewRepoResult("gamma", "gamma", "/src/gamma")
	gamma.Apply(status.SetUnstaged{Count: 1})
	gamma.Apply(status.SetBranch{Name: "dev"})
	gamma.Apply(status.FieldError{Tag: status.FieldPR, Message: "GitHub API request failed (403 Forbidden): nope"})
	gamma.Apply(status.SetSync{Status: status.SyncStatus{State: status.SyncDiverged, Ahead: 1, Behind: 2}})
	gamma.Apply(status.SetRepoURL{URL: "https://github.com/acme/gamma"})
	snap["gamma"] = gamma.Clone()

	s.Render(snap, status.PhaseSlow)
	s.Finish(snap)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		"# mgit Status Report",
		"- Repositories: 3",
		"- With unstaged changes: 2",
		"- With open pull request: 1",
		"- Not in sync with remote: 2",
		"| alpha | 0 | `main` | [#12](https://github.com/acme/alpha/pull/12) | synced |",
		"| beta | 3 | `feature` | No | behind 2 |",
		"| [gamma](https://github.com/acme/gamma) | 1 | `dev` | Error | diverged (+1/-2) |",
		"## Errors",
		"- **gamma** `pr`: GitHub API request failed (403 Forbidden): nope",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestPlainSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewPlainSink(&buf)
	snap := alphaBeta()

	s.Render(snap, status.PhaseFast)
	if buf.Len() != 0 {
		t.Fatalf("plain sink must only print on Finish")
	}
	s.Finish(snap)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[1] != strings.Repeat("-", 86) {
		t.Fatalf("separator = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "alpha ") || !strings.HasPrefix(lines[3], "beta ") {
		t.Fatalf("rows not sorted: %q", lines[2:])
	}
	if strings.Contains(buf.String(), "\x1b[2J") {
		t.Fatalf("plain sink must not clear the screen")
	}
}

func TestReportSink_ErrorsInColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}

	r := status.NewRepoResult("delta", "delta", "/src/delta")
	r.Apply(status.SetUnstaged{Count: 0})
	r.Apply(status.FieldError{Tag: status.FieldRepoURL, Message: "no remote"})
	r.Apply(status.FieldError{Tag: status.FieldRemote, Message: "fetch\nfailed"})
	r.Apply(status.FieldError{Tag: status.FieldBranch, Message: "not a git repository"})
	r.Apply(status.FieldError{Tag: status.FieldPR, Message: "branch unavailable"})
	snap := status.Snapshot{"delta": r.Clone()}

	s.Finish(snap)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	_, errs, ok := strings.Cut(string(data), "## Errors\n\n")
	if !ok {
		t.Fatalf("report has no errors section:\n%s", data)
	}
	want := strings.Join([]string{
		"- **delta** `branch`: not a git repository",
		"- **delta** `pr`: branch unavailable",
		"- **delta** `remote`: fetch failed",
		"- **delta** `repo_url`: no remote",
	}, "\n") + "\n"
	if errs != want {
		t.Fatalf("errors section:\n%s\nwant:\n%s", errs, want)
	}
}
