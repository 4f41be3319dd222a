// Package git wraps the git command line for the status queries and the
// batch operations mgit runs across repositories.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"mgit/internal/log"
)

// CommandError is returned when git exits unsuccessfully. Error() prefers
// git's own stderr message.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return "git " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := gitArgs(dir, args)
	log.FromContext(ctx).Command("git", full...)

	cmd := exec.CommandContext(ctx, "git", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &CommandError{Args: full, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return out, nil
}

func runGit(ctx context.Context, dir string, args ...string) error {
	_, err := outputGit(ctx, dir, args...)
	return err
}
