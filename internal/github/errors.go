package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v81/github"
)

// Describe condenses an API error into a one-line message for a table cell
// or report. Request URLs are dropped unless verbose is set.
func Describe(err error, verbose bool) string {
	if err == nil {
		return ""
	}
	if verbose {
		return strings.TrimSpace(err.Error())
	}

	var rl *github.RateLimitError
	if errors.As(err, &rl) {
		return fmt.Sprintf("GitHub API rate limit exceeded (resets %s)", rl.Rate.Reset.Format("15:04:05"))
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) {
		msg := strings.TrimSpace(er.Message)
		if msg == "" {
			msg = "request failed"
		}
		if er.Response != nil {
			code := er.Response.StatusCode
			return fmt.Sprintf("GitHub API request failed (%d %s): %s", code, http.StatusText(code), msg)
		}
		return "GitHub API request failed: " + msg
	}

	full := strings.TrimSpace(err.Error())
	if s := scrubRequest(full); s != "" {
		return s
	}
	return full
}

// scrubRequest drops the "GET https://api.github.com/...: " prefix go-github
// puts on transport errors.
func scrubRequest(s string) string {
	for _, m := range []string{"GET ", "POST ", "PUT ", "PATCH ", "DELETE "} {
		if !strings.HasPrefix(s, m) {
			continue
		}
		if i := strings.Index(s, "://"); i >= 0 {
			if j := strings.Index(s[i:], ": "); j >= 0 {
				return strings.TrimSpace(s[i+j+2:])
			}
		}
		return ""
	}
	return ""
}
