package status

// Update is one field resolution applied to a RepoResult. The set of
// implementations is closed: SetUnstaged, SetBranch, SetPR, SetSync,
// SetRepoURL and FieldError.
type Update interface {
	Field() Field
	isUpdate()
}

type SetUnstaged struct{ Count int }

type SetBranch struct{ Name string }

type SetPR struct{ Info PRInfo }

// SetSync resolves the remote field. The legacy "remote updated" flag is
// derived from the state.
type SetSync struct{ Status SyncStatus }

type SetRepoURL struct{ URL string }

// FieldError records a failed computation for a field.
type FieldError struct {
	Tag     Field
	Message string
}

func (SetUnstaged) Field() Field  { return FieldUnstaged }
func (SetBranch) Field() Field    { return FieldBranch }
func (SetPR) Field() Field        { return FieldPR }
func (SetSync) Field() Field      { return FieldRemote }
func (SetRepoURL) Field() Field   { return FieldRepoURL }
func (e FieldError) Field() Field { return e.Tag }

func (SetUnstaged) isUpdate() {}
func (SetBranch) isUpdate()   {}
func (SetPR) isUpdate()       {}
func (SetSync) isUpdate()     {}
func (SetRepoURL) isUpdate()  {}
func (FieldError) isUpdate()  {}

// PRFromList builds the PR field from a pull request listing; the first
// entry wins.
func PRFromList(prs []PullRequest) PRInfo {
	if len(prs) == 0 {
		return PRInfo{}
	}
	return PRInfo{Exists: true, Number: prs[0].Number, URL: prs[0].URL}
}

// Apply resolves a field. It returns false, leaving r untouched, when the
// field was already resolved earlier in the run.
func (r *RepoResult) Apply(u Update) bool {
	if u == nil || !r.Pending(u.Field()) {
		return false
	}
	switch u := u.(type) {
	case SetUnstaged:
		n := u.Count
		r.UnstagedChanges = &n
	case SetBranch:
		b := u.Name
		r.CurrentBranch = &b
	case SetPR:
		pr := u.Info
		r.PR = &pr
	case SetSync:
		s := u.Status
		updated := s.State == SyncSynced
		r.Sync = &s
		r.RemoteUpdated = &updated
	case SetRepoURL:
		url := u.URL
		r.RepoURL = &url
	case FieldError:
		if r.Errors == nil {
			r.Errors = make(map[Field]string)
		}
		r.Errors[u.Tag] = u.Message
	default:
		return false
	}
	return true
}
