package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mgit/internal/status"
)

// TerminalRenderer redraws the dashboard in place. The first frame clears
// the screen and prints the header; later frames rewrite each row at its
// fixed line (row i on line 3+i) so the header is printed exactly once.
type TerminalRenderer struct {
	mu      sync.Mutex
	out     *bufio.Writer
	frame   int
	started bool
}

func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalRenderer{out: bufio.NewWriter(w)}
}

func (t *TerminalRenderer) Render(snap status.Snapshot, _ status.Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drawLocked(snap)
	_ = t.out.Flush()
}

// Finish draws the final frame and leaves the cursor below the table.
func (t *TerminalRenderer) Finish(snap status.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.drawLocked(snap)
	fmt.Fprintf(t.out, "\x1b[%d;1H\n", n+3)
	_ = t.out.Flush()
}

// Close reports the first write error, if any.
func (t *TerminalRenderer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.out.Flush()
}

func (t *TerminalRenderer) drawLocked(snap status.Snapshot) int {
	rows := buildRows(snap, Spinner[t.frame%len(Spinner)])
	w := measure(rows)

	if !t.started {
		h := header(w)
		fmt.Fprint(t.out, "\x1b[2J\x1b[H")
		fmt.Fprintln(t.out, h)
		fmt.Fprintln(t.out, strings.Repeat("-", visibleLen(h)))
		t.started = true
	}
	for i, r := range rows {
		fmt.Fprintf(t.out, "\x1b[%d;1H\x1b[K%s", 3+i, formatRow(r, w))
	}
	t.frame++
	return len(rows)
}
