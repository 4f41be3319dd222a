package output

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"mgit/internal/status"
)

// ReportSink writes a Markdown summary of the final results on Close.
type ReportSink struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	final status.Snapshot
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return &ReportSink{path: path, file: f}, nil
}

func (s *ReportSink) Render(status.Snapshot, status.Phase) {}

func (s *ReportSink) Finish(snap status.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.final = snap
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.file.WriteString(renderReport(s.final))
	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func renderReport(snap status.Snapshot) string {
	var b strings.Builder
	b.WriteString("# mgit Status Report\n\n")

	results := snap.Sorted()
	if len(results) == 0 {
		b.WriteString("No repositories.\n")
		return b.String()
	}

	var dirty, withPR, outOfSync int
	for _, r := range results {
		if r.UnstagedChanges != nil && *r.UnstagedChanges > 0 {
			dirty++
		}
		if r.HasPR() {
			withPR++
		}
		if r.Sync != nil && r.Sync.State != status.SyncSynced {
			outOfSync++
		}
	}
	fmt.Fprintf(&b, "- Repositories: %d\n", len(results))
	fmt.Fprintf(&b, "- With unstaged changes: %d\n", dirty)
	fmt.Fprintf(&b, "- With open pull request: %d\n", withPR)
	fmt.Fprintf(&b, "- Not in sync with remote: %d\n\n", outOfSync)

	b.WriteString("| Repository | Unstaged | Branch | PR | Sync |\n")
	b.WriteString("|---|---:|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			reportName(r),
			reportField(r, status.FieldUnstaged, func() string { return fmt.Sprint(*r.UnstagedChanges) }),
			reportField(r, status.FieldBranch, func() string { return "`" + *r.CurrentBranch + "`" }),
			reportField(r, status.FieldPR, func() string { return reportPR(*r.PR) }),
			reportField(r, status.FieldRemote, func() string { return reportSync(r) }),
		)
	}

	var errLines []string
	for _, r := range results {
		for _, tag := range status.Fields {
			msg, ok := r.Err(tag)
			if !ok {
				continue
			}
			msg = strings.Join(strings.Fields(msg), " ")
			errLines = append(errLines, fmt.Sprintf("- **%s** `%s`: %s", r.DisplayName, tag, msg))
		}
	}
	if len(errLines) > 0 {
		b.WriteString("\n## Errors\n\n")
		b.WriteString(strings.Join(errLines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func reportName(r status.RepoResult) string {
	name := escapeCell(r.DisplayName)
	if r.RepoURL != nil && *r.RepoURL != "" {
		return fmt.Sprintf("[%s](%s)", name, *r.RepoURL)
	}
	return name
}

func reportField(r status.RepoResult, f status.Field, value func() string) string {
	if r.IsSet(f) {
		return escapeCell(value())
	}
	if _, ok := r.Err(f); ok {
		return errorCell
	}
	return "-"
}

func reportPR(pr status.PRInfo) string {
	switch {
	case !pr.Exists:
		return "No"
	case pr.Number != 0 && pr.URL != "":
		return fmt.Sprintf("[#%d](%s)", pr.Number, pr.URL)
	default:
		return "Yes"
	}
}

func reportSync(r status.RepoResult) string {
	if r.Sync == nil {
		if r.RemoteUpdated != nil && *r.RemoteUpdated {
			return "synced"
		}
		return "unknown"
	}
	switch r.Sync.State {
	case status.SyncAhead:
		return fmt.Sprintf("ahead %d", r.Sync.Ahead)
	case status.SyncBehind:
		return fmt.Sprintf("behind %d", r.Sync.Behind)
	case status.SyncDiverged:
		return fmt.Sprintf("diverged (+%d/-%d)", r.Sync.Ahead, r.Sync.Behind)
	default:
		return string(r.Sync.State)
	}
}
