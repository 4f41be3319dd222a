package status

import "sort"

// Phase tags which scheduler phase produced a progress notification.
type Phase string

const (
	PhaseFast  Phase = "fast"
	PhaseSlow  Phase = "slow"
	PhaseFinal Phase = "final"
)

// Snapshot is an immutable copy of the shared result map, keyed by
// repository name.
type Snapshot map[string]RepoResult

// Sorted returns the results ordered by display name, then name.
func (s Snapshot) Sorted() []RepoResult {
	out := make([]RepoResult, 0, len(s))
	for _, r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ErrorCount returns the number of errored fields across all results.
func (s Snapshot) ErrorCount() int {
	n := 0
	for _, r := range s {
		n += len(r.Errors)
	}
	return n
}
