package output

import (
	"errors"
	"fmt"

	"mgit/internal/status"
)

// Sink consumes dashboard frames. Render is called once per progress
// notification and Finish once after both phases drained. Neither reports
// errors directly: a sink keeps its first write error and returns it from
// Close.
type Sink interface {
	Render(snap status.Snapshot, phase status.Phase)
	Finish(snap status.Snapshot)
	Close() error
}

// Manager fans frames out to every configured sink.
type Manager struct {
	sinks []Sink
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(s Sink) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

func (m *Manager) Render(snap status.Snapshot, phase status.Phase) {
	for _, s := range m.sinks {
		s.Render(snap, phase)
	}
}

func (m *Manager) Finish(snap status.Snapshot) {
	for _, s := range m.sinks {
		s.Finish(snap)
	}
}

func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
