package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"mgit/internal/status"
)

const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// EmitSink writes machine-readable results.
//
// Formats:
//   - json: the final results as one indented JSON array, sorted by display name
//   - ndjson: a repo.updated event whenever a repository's record changes,
//     then a run.finished event
type EmitSink struct {
	mu     sync.Mutex
	w      *stickyWriter
	format string
	sent   map[string][]byte
}

func NewEmitSink(w io.Writer, format string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	if format != FormatJSON && format != FormatNDJSON {
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	return &EmitSink{
		w:      &stickyWriter{w: w},
		format: format,
		sent:   make(map[string][]byte),
	}, nil
}

func (s *EmitSink) Render(snap status.Snapshot, phase status.Phase) {
	if s.format != FormatNDJSON {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitChangesLocked(snap, phase)
	s.w.flush()
}

func (s *EmitSink) Finish(snap status.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == FormatJSON {
		enc := json.NewEncoder(s.w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(snap.Sorted())
		s.w.flush()
		return
	}

	s.emitChangesLocked(snap, status.PhaseFinal)
	_ = json.NewEncoder(s.w).Encode(Event{
		Type:   EventRunFinished,
		Repos:  len(snap),
		Errors: snap.ErrorCount(),
	})
	s.w.flush()
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.err
}

func (s *EmitSink) emitChangesLocked(snap status.Snapshot, phase status.Phase) {
	enc := json.NewEncoder(s.w)
	for _, r := range snap.Sorted() {
		encoded, err := json.Marshal(r)
		if err != nil {
			continue
		}
		if bytes.Equal(s.sent[r.Name], encoded) {
			continue
		}
		s.sent[r.Name] = encoded
		_ = enc.Encode(Event{Type: EventRepoUpdated, Phase: phase, Repo: &r})
	}
}
