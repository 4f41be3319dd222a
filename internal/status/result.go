package status

// Field tags identify the independently computed columns of a RepoResult.
// They double as keys of RepoResult.Errors.
type Field string

const (
	FieldUnstaged Field = "unstaged"
	FieldBranch   Field = "branch"
	FieldPR       Field = "pr"
	FieldRemote   Field = "remote"
	FieldRepoURL  Field = "repo_url"
)

// Fields lists every field tag in display order.
var Fields = []Field{FieldUnstaged, FieldBranch, FieldPR, FieldRemote, FieldRepoURL}

// DetachedBranch is reported as the current branch when HEAD is detached.
const DetachedBranch = "detached"

type SyncState string

const (
	SyncUnknown  SyncState = "unknown"
	SyncSynced   SyncState = "synced"
	SyncAhead    SyncState = "ahead"
	SyncBehind   SyncState = "behind"
	SyncDiverged SyncState = "diverged"
)

type SyncStatus struct {
	State  SyncState `json:"status"`
	Ahead  int       `json:"ahead"`
	Behind int       `json:"behind"`
}

// PRInfo describes the pull request attached to the current branch, if any.
// Number and URL are only meaningful when Exists is true.
type PRInfo struct {
	Exists bool   `json:"exists"`
	Number int    `json:"number,omitempty"`
	URL    string `json:"url,omitempty"`
}

// PullRequest is one entry returned by a pull request listing.
type PullRequest struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// RepoResult is the per-run record of one repository.
//
// Every data field starts unset (nil) and is resolved at most once, either to
// a value or to an entry in Errors keyed by its Field tag. Use Apply to
// resolve fields; it enforces that invariant.
type RepoResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Path        string `json:"path,omitempty"`

	UnstagedChanges *int        `json:"unstaged_changes,omitempty"`
	CurrentBranch   *string     `json:"current_branch,omitempty"`
	PR              *PRInfo     `json:"pr_info,omitempty"`
	Sync            *SyncStatus `json:"sync_status,omitempty"`
	RemoteUpdated   *bool       `json:"is_remote_updated,omitempty"`
	RepoURL         *string     `json:"repo_url,omitempty"`

	Errors map[Field]string `json:"errors,omitempty"`
}

func NewRepoResult(name, displayName, path string) *RepoResult {
	return &RepoResult{
		Name:        name,
		DisplayName: displayName,
		Path:        path,
		Errors:      make(map[Field]string),
	}
}

// HasPR reports whether a pull request exists for the current branch.
func (r *RepoResult) HasPR() bool {
	return r.PR != nil && r.PR.Exists
}

// IsSet reports whether the field holds a value.
func (r *RepoResult) IsSet(f Field) bool {
	switch f {
	case FieldUnstaged:
		return r.UnstagedChanges != nil
	case FieldBranch:
		return r.CurrentBranch != nil
	case FieldPR:
		return r.PR != nil
	case FieldRemote:
		return r.Sync != nil || r.RemoteUpdated != nil
	case FieldRepoURL:
		return r.RepoURL != nil
	default:
		return false
	}
}

// Err returns the recorded error message for the field.
func (r *RepoResult) Err(f Field) (string, bool) {
	msg, ok := r.Errors[f]
	return msg, ok
}

// Pending reports whether the field is neither set nor errored.
func (r *RepoResult) Pending(f Field) bool {
	if r.IsSet(f) {
		return false
	}
	_, errored := r.Errors[f]
	return !errored
}

// Clone returns a deep copy that shares no memory with r.
func (r *RepoResult) Clone() RepoResult {
	c := RepoResult{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Path:        r.Path,
		Errors:      make(map[Field]string, len(r.Errors)),
	}
	if r.UnstagedChanges != nil {
		v := *r.UnstagedChanges
		c.UnstagedChanges = &v
	}
	if r.CurrentBranch != nil {
		v := *r.CurrentBranch
		c.CurrentBranch = &v
	}
	if r.PR != nil {
		v := *r.PR
		c.PR = &v
	}
	if r.Sync != nil {
		v := *r.Sync
		c.Sync = &v
	}
	if r.RemoteUpdated != nil {
		v := *r.RemoteUpdated
		c.RemoteUpdated = &v
	}
	if r.RepoURL != nil {
		v := *r.RepoURL
		c.RepoURL = &v
	}
	for k, v := range r.Errors {
		c.Errors[k] = v
	}
	return c
}
