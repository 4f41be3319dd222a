package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"

	"mgit/internal/status"
)

// Client wraps the REST client with the two lookups the dashboard needs.
type Client struct {
	Client *github.Client
	HTTP   *http.Client
}

type options struct {
	verbose bool
	// verbose request lines go here, never to stdout which belongs to the table
	writer  io.Writer
	baseURL string
}

type Option func(*options)

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise or a
// test server).
func WithBaseURL(raw string) Option {
	return func(o *options) {
		o.baseURL = raw
	}
}

type loggingRoundTripper struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	_, _ = fmt.Fprintf(t.w, "[verbose] github api: %s %s\n", req.Method, req.URL.Path)
	resp, err := t.base.RoundTrip(req)
	took := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] github api: error after %s: %v\n", took, err)
		return resp, err
	}
	_, _ = fmt.Fprintf(t.w, "[verbose] github api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), took)
	return resp, nil
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	transport := http.DefaultTransport
	if o.verbose {
		w := o.writer
		if w == nil {
			w = os.Stderr
		}
		transport = &loggingRoundTripper{base: transport, w: w}
	}
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transport,
		}
	}
	hc := &http.Client{Transport: transport}

	gc := github.NewClient(hc)
	if o.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github client: base url: %w", err)
		}
		gc.BaseURL = u
		gc.UploadURL = u
	}

	return &Client{Client: gc, HTTP: hc}, nil
}

// OpenPullRequests lists open pull requests whose head is owner:branch. The
// raw response is returned alongside so callers can track rate limits.
func (c *Client) OpenPullRequests(ctx context.Context, owner, repo, branch string) ([]status.PullRequest, *github.Response, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		Head:        owner + ":" + branch,
		ListOptions: github.ListOptions{PerPage: 10},
	}
	prs, resp, err := c.Client.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, resp, err
	}

	out := make([]status.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr == nil {
			continue
		}
		out = append(out, status.PullRequest{Number: pr.GetNumber(), URL: pr.GetHTMLURL()})
	}
	return out, resp, nil
}

// RepoHTMLURL returns the repository's web page.
func (c *Client) RepoHTMLURL(ctx context.Context, owner, repo string) (string, *github.Response, error) {
	r, resp, err := c.Client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", resp, err
	}
	if r.GetHTMLURL() == "" {
		return "", resp, fmt.Errorf("repository %s/%s: empty html_url", owner, repo)
	}
	return r.GetHTMLURL(), resp, nil
}
