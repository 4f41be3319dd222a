package fetcher

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// lookups collapses concurrent identical lookups into one call and remembers
// successful results for the rest of the run. Repositories sharing a remote
// (clones, worktrees) then cost a single API request.
type lookups struct {
	group singleflight.Group
	done  sync.Map
}

func (l *lookups) do(key string, fn func() (string, error)) (string, error) {
	if v, ok := l.done.Load(key); ok {
		return v.(string), nil
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		if v, ok := l.done.Load(key); ok {
			return v, nil
		}
		s, err := fn()
		if err != nil {
			return nil, err
		}
		l.done.Store(key, s)
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
