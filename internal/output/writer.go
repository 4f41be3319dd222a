package output

import "io"

type flusher interface {
	Flush() error
}

// stickyWriter drops writes after the first failure and remembers it.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

func (s *stickyWriter) flush() {
	if s.err != nil {
		return
	}
	if f, ok := s.w.(flusher); ok {
		s.err = f.Flush()
	}
}
