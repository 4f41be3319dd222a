// Package fetcher answers the dashboard's per-repository queries from the
// local git client and the GitHub REST API.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	ghapi "github.com/google/go-github/v81/github"

	"mgit/internal/git"
	gh "mgit/internal/github"
	"mgit/internal/log"
	"mgit/internal/status"
)

// ErrNoRemote is returned when the repository has no URL for the configured
// remote.
var ErrNoRemote = errors.New("no remote configured")

type Fetcher struct {
	remote  string
	client  *gh.Client
	budget  *RequestBudget
	urls    lookups
	verbose bool
}

type Option func(*Fetcher)

// WithVerboseErrors keeps full API error text, request URLs included.
func WithVerboseErrors(enabled bool) Option {
	return func(f *Fetcher) {
		f.verbose = enabled
	}
}

// New returns a Fetcher comparing branches against remote. client may be nil,
// in which case GitHub lookups fail and non-GitHub URLs are still derived.
func New(remote string, client *gh.Client, budget *RequestBudget, opts ...Option) *Fetcher {
	if budget == nil {
		budget = NewRequestBudget(DefaultRequestLimit)
	}
	f := &Fetcher{remote: remote, client: client, budget: budget}
	for _, apply := range opts {
		if apply != nil {
			apply(f)
		}
	}
	return f
}

func (f *Fetcher) StatusSummary(ctx context.Context, repoPath string) (git.StatusSummary, error) {
	return git.Status(ctx, repoPath)
}

func (f *Fetcher) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	return git.CurrentBranch(ctx, repoPath)
}

func (f *Fetcher) Fetch(ctx context.Context, repoPath string) error {
	return git.Fetch(ctx, repoPath, f.remote)
}

func (f *Fetcher) ResolveRef(ctx context.Context, repoPath, ref string) (string, error) {
	return git.ResolveRef(ctx, repoPath, ref)
}

func (f *Fetcher) CountCommits(ctx context.Context, repoPath, revRange string) (int, error) {
	return git.CountCommits(ctx, repoPath, revRange)
}

// RepoURL returns the web page of the repository behind the remote. GitHub
// remotes are confirmed through the API once per owner/name; other hosts get
// a URL derived from the remote.
func (f *Fetcher) RepoURL(ctx context.Context, repoPath string) (string, error) {
	remote, err := f.parseRemote(ctx, repoPath)
	if err != nil {
		return "", err
	}
	if !remote.IsGitHub() {
		return remote.WebURL(), nil
	}
	if f.client == nil {
		return remote.WebURL(), nil
	}

	return f.urls.do(remote.Slug(), func() (string, error) {
		if err := f.budget.TryAcquire(); err != nil {
			return "", err
		}
		u, resp, err := f.client.RepoHTMLURL(ctx, remote.Owner, remote.Name)
		f.observe(resp)
		if err != nil {
			return "", f.describe(err)
		}
		log.FromContext(ctx).Verbosef("repo url %s -> %s", remote.Slug(), u)
		return u, nil
	})
}

// PullRequests lists open pull requests whose head is branch.
func (f *Fetcher) PullRequests(ctx context.Context, repoPath, branch string) ([]status.PullRequest, error) {
	remote, err := f.parseRemote(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	if !remote.IsGitHub() {
		return nil, fmt.Errorf("%s: %w", remote.Host, gh.ErrNotGitHub)
	}
	if f.client == nil {
		return nil, errors.New("GitHub client unavailable")
	}

	if err := f.budget.TryAcquire(); err != nil {
		return nil, err
	}
	prs, resp, err := f.client.OpenPullRequests(ctx, remote.Owner, remote.Name, branch)
	f.observe(resp)
	if err != nil {
		return nil, f.describe(err)
	}
	return prs, nil
}

func (f *Fetcher) parseRemote(ctx context.Context, repoPath string) (gh.Remote, error) {
	raw, err := git.RemoteURL(ctx, repoPath, f.remote)
	if err != nil {
		return gh.Remote{}, fmt.Errorf("%s: %w", f.remote, ErrNoRemote)
	}
	return gh.ParseRemote(raw)
}

func (f *Fetcher) observe(resp *ghapi.Response) {
	if resp != nil {
		f.budget.Observe(resp.Response)
	}
}

func (f *Fetcher) describe(err error) error {
	return &apiError{msg: gh.Describe(err, f.verbose), err: err}
}

// apiError carries the condensed message shown in the table while keeping
// the original error for errors.As.
type apiError struct {
	msg string
	err error
}

func (e *apiError) Error() string { return e.msg }

func (e *apiError) Unwrap() error { return e.err }
