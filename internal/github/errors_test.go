package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v81/github"
)

func TestDescribe(t *testing.T) {
	forbidden := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  "Resource not accessible",
	}

	tests := []struct {
		name    string
		err     error
		verbose bool
		want    string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "error response", err: forbidden, want: "GitHub API request failed (403 Forbidden): Resource not accessible"},
		{name: "wrapped", err: fmt.Errorf("list pulls: %w", forbidden), want: "GitHub API request failed (403 Forbidden): Resource not accessible"},
		{name: "scrubbed transport", err: errors.New("GET https://api.github.com/repos/o/r/pulls: connection refused"), want: "connection refused"},
		{name: "verbose keeps text", err: errors.New("GET https://api.github.com/x: boom"), verbose: true, want: "GET https://api.github.com/x: boom"},
		{name: "plain", err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err, tt.verbose); got != tt.want {
				t.Fatalf("Describe = %q, want %q", got, tt.want)
			}
		})
	}
}
