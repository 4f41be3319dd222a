package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mgit/internal/status"
)

// PlainSink prints one finished table. It is used when stdout is not a
// terminal or when repositories are processed sequentially.
type PlainSink struct {
	mu sync.Mutex
	w  *stickyWriter
}

func NewPlainSink(w io.Writer) *PlainSink {
	if w == nil {
		w = os.Stdout
	}
	return &PlainSink{w: &stickyWriter{w: w}}
}

func (s *PlainSink) Render(status.Snapshot, status.Phase) {}

func (s *PlainSink) Finish(snap status.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := buildRows(snap, Spinner[0])
	w := measure(rows)
	h := header(w)
	fmt.Fprintln(s.w, h)
	fmt.Fprintln(s.w, strings.Repeat("-", visibleLen(h)))
	for _, r := range rows {
		fmt.Fprintln(s.w, formatRow(r, w))
	}
	s.w.flush()
}

func (s *PlainSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.err
}
