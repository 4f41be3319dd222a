package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

type TokenSource string

const (
	TokenSourceNone    TokenSource = "none"
	TokenSourceEnv     TokenSource = "env:GITHUB_TOKEN"
	TokenSourceGHEnv   TokenSource = "env:GH_TOKEN"
	TokenSourceGitHubC TokenSource = "gh"
)

// ghTimeout bounds `gh auth token` when the caller's context has no deadline.
const ghTimeout = 5 * time.Second

// ResolveToken finds a token for GitHub API calls, trying GITHUB_TOKEN,
// GH_TOKEN and then `gh auth token`. An empty token with TokenSourceNone
// means the client runs unauthenticated. The token is never logged.
func ResolveToken(ctx context.Context) (string, TokenSource, error) {
	for _, env := range []struct {
		name string
		src  TokenSource
	}{
		{"GITHUB_TOKEN", TokenSourceEnv},
		{"GH_TOKEN", TokenSourceGHEnv},
	} {
		if tok := strings.TrimSpace(os.Getenv(env.name)); tok != "" {
			return tok, env.src, nil
		}
	}

	tok, err := ghCLIToken(ctx)
	if err != nil {
		return "", TokenSourceNone, err
	}
	if tok == "" {
		return "", TokenSourceNone, nil
	}
	return tok, TokenSourceGitHubC, nil
}

func ghCLIToken(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ghTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "gh", "auth", "token", "-h", defaultHost)
	cmd.Env = append(withoutEnv(os.Environ(), "GH_PAGER"), "GH_PAGER=cat")
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// not logged in: run unauthenticated
		return "", nil
	}

	tok := strings.TrimSpace(string(out))
	if strings.ContainsAny(tok, " \t\r\n") {
		return "", errors.New("gh returned a token containing whitespace")
	}
	return tok, nil
}

func withoutEnv(env []string, name string) []string {
	out := make([]string, 0, len(env))
	prefix := name + "="
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return out
}
