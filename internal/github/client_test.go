package github

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mgit/internal/status"
)

func TestNewClient_NilContext(t *testing.T) {
	var nilCtx context.Context
	if _, err := NewClient(nilCtx, ""); err == nil || !strings.Contains(err.Error(), "ctx is nil") {
		t.Fatalf("expected ctx error, got %v", err)
	}
}

func TestNewClient_VerboseAndAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"html_url": "https://github.com/o/r"}`))
	}))
	t.Cleanup(server.Close)

	tests := []struct {
		name     string
		token    string
		wantAuth bool
	}{
		{name: "unauthenticated", token: ""},
		{name: "token", token: "test-token", wantAuth: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAuth = ""
			var buf bytes.Buffer
			c, err := NewClient(context.Background(), tt.token, WithVerbose(true, &buf), WithBaseURL(server.URL))
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if _, _, err := c.RepoHTMLURL(context.Background(), "o", "r"); err != nil {
				t.Fatalf("RepoHTMLURL: %v", err)
			}
			if !strings.Contains(buf.String(), "[verbose] github api: GET /repos/o/r") {
				t.Fatalf("expected verbose request line, got %q", buf.String())
			}
			if tt.wantAuth != (gotAuth != "") {
				t.Fatalf("Authorization = %q, wantAuth %v", gotAuth, tt.wantAuth)
			}
			if tt.wantAuth && !strings.Contains(gotAuth, tt.token) {
				t.Fatalf("Authorization %q does not carry token", gotAuth)
			}
		})
	}
}

func TestOpenPullRequests(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/alpha/pulls" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"number": 12, "html_url": "https://github.com/acme/alpha/pull/12"},
			{"number": 9, "html_url": "https://github.com/acme/alpha/pull/9"},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), "", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	prs, resp, err := c.OpenPullRequests(context.Background(), "acme", "alpha", "main")
	if err != nil {
		t.Fatalf("OpenPullRequests: %v", err)
	}
	if resp == nil {
		t.Fatalf("expected response")
	}
	want := []status.PullRequest{
		{Number: 12, URL: "https://github.com/acme/alpha/pull/12"},
		{Number: 9, URL: "https://github.com/acme/alpha/pull/9"},
	}
	if diff := cmp.Diff(want, prs); diff != "" {
		t.Fatalf("prs mismatch (-want +got):\n%s", diff)
	}
	for _, part := range []string{"state=open", "head=acme%3Amain"} {
		if !strings.Contains(gotQuery, part) {
			t.Fatalf("query %q missing %q", gotQuery, part)
		}
	}
}

func TestOpenPullRequests_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), "", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, _, err = c.OpenPullRequests(context.Background(), "acme", "gone", "main")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Describe(err, false); got != "GitHub API request failed (404 Not Found): Not Found" {
		t.Fatalf("Describe = %q", got)
	}
}
