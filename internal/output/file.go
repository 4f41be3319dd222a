package output

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mgit/internal/status"
)

// FileSink writes the json or ndjson stream to a file.
type FileSink struct {
	file *os.File
	buf  *bufio.Writer
	emit *EmitSink
}

// NewFileSink creates path. An empty format is inferred from the extension.
func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	if format == "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".json":
			format = FormatJSON
		case ".ndjson", ".jsonl":
			format = FormatNDJSON
		default:
			return nil, fmt.Errorf("cannot infer output format from file extension %q", ext)
		}
	}
	if format != FormatJSON && format != FormatNDJSON {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	buf := bufio.NewWriter(f)
	emit, err := NewEmitSink(buf, format)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &FileSink{file: f, buf: buf, emit: emit}, nil
}

func (s *FileSink) Render(snap status.Snapshot, phase status.Phase) {
	s.emit.Render(snap, phase)
}

func (s *FileSink) Finish(snap status.Snapshot) {
	s.emit.Finish(snap)
}

func (s *FileSink) Close() error {
	err := s.emit.Close()
	if ferr := s.buf.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return errors.Join(err, s.file.Close())
}
