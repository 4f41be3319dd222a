// Package log provides the context-attached logger used for diagnostics.
//
// The dashboard owns stdout, so loggers are normally created over stderr.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type ctxKey struct{}

// Logger writes diagnostics and, in verbose mode, echoes external commands.
// It is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

func New(out io.Writer, verbose bool) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out, verbose: verbose}
}

func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the attached logger, or a discarding one.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	return New(io.Discard, false)
}

func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}

func (l *Logger) Println(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, args...)
}

// Verbosef writes only in verbose mode.
func (l *Logger) Verbosef(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.Printf("[verbose] "+format+"\n", args...)
}

// Command logs an external command execution in verbose mode.
func (l *Logger) Command(name string, args ...string) {
	if !l.verbose {
		return
	}
	l.Printf("$ %s %s\n", name, strings.Join(args, " "))
}

func (l *Logger) Verbose() bool {
	return l.verbose
}

// Writer returns a writer that serializes with the logger's own output.
func (l *Logger) Writer() io.Writer {
	return lockedWriter{l}
}

type lockedWriter struct{ l *Logger }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	return w.l.out.Write(p)
}
