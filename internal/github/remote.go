package github

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotGitHub is returned for remotes hosted somewhere other than GitHub.
var ErrNotGitHub = errors.New("remote is not hosted on GitHub")

const defaultHost = "github.com"

// Remote identifies a repository by host and owner/name, as parsed from a
// git remote URL.
type Remote struct {
	Host  string
	Owner string
	Name  string
}

func (r Remote) IsGitHub() bool {
	return strings.EqualFold(r.Host, defaultHost)
}

// Slug returns "owner/name".
func (r Remote) Slug() string {
	return r.Owner + "/" + r.Name
}

// WebURL is the browser URL derived from the remote without an API call.
func (r Remote) WebURL() string {
	return "https://" + r.Host + "/" + r.Slug()
}

// ParseRemote understands the scp-like form (git@host:owner/name.git) and
// ssh, git, http and https URLs. Credentials and ports are discarded.
func ParseRemote(raw string) (Remote, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Remote{}, errors.New("empty remote url")
	}

	var host, path string
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return Remote{}, fmt.Errorf("parse remote %q: %w", raw, err)
		}
		host, path = u.Hostname(), u.Path
	} else {
		at := strings.LastIndex(s, "@")
		colon := strings.Index(s, ":")
		if colon < 0 || colon < at {
			return Remote{}, fmt.Errorf("parse remote %q: not a url", raw)
		}
		host, path = s[at+1:colon], s[colon+1:]
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if host == "" || len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return Remote{}, fmt.Errorf("parse remote %q: missing owner or name", raw)
	}

	return Remote{
		Host:  strings.ToLower(host),
		Owner: parts[len(parts)-2],
		Name:  parts[len(parts)-1],
	}, nil
}
