// Package cache persists per-repository status fields between runs.
//
// The cache is a single JSON file, <dir>/.mgit/cache.json, keyed by absolute
// repository path:
//
//	{
//	  "/src/alpha": {
//	    "mtime": 1718000000.123,
//	    "data": {"unstaged_changes": 0, "current_branch": "main", ...}
//	  }
//	}
//
// An entry is fresh while its mtime is not older than the newest of the
// repository's index, HEAD and refs files. The store is best-effort: a
// missing or corrupt file loads as an empty cache and write failures are
// dropped.
package cache
