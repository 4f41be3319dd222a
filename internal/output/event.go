package output

import "mgit/internal/status"

const (
	EventRepoUpdated = "repo.updated"
	EventRunFinished = "run.finished"
)

// Event is one NDJSON record. repo.updated carries the full current record
// of a repository whose fields changed in a frame; run.finished closes the
// stream.
type Event struct {
	Type   string             `json:"type"`
	Phase  status.Phase       `json:"phase,omitempty"`
	Repo   *status.RepoResult `json:"repo,omitempty"`
	Repos  int                `json:"repos,omitempty"`
	Errors int                `json:"errors,omitempty"`
}
