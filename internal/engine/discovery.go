package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mgit/internal/git"
)

// RepositoryRef identifies one working tree under the scan directory.
type RepositoryRef struct {
	// Name is the folder name; it keys the result map and the alias file.
	Name        string
	DisplayName string
	Path        string
}

// Discover lists the git working trees directly under dir, sorted by folder
// name. Hidden folders and folders matching an exclude pattern are skipped.
// Aliases replace display names unless useRealNames is set.
func Discover(dir string, excludes []string, aliases map[string]string, useRealNames bool) ([]RepositoryRef, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	refs := make([]RepositoryRef, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(abs, name)
		if !isDir(e, path) || !git.IsRepo(path) {
			continue
		}
		if Excluded(name, excludes) {
			continue
		}
		display := name
		if alias, ok := aliases[name]; ok && alias != "" && !useRealNames {
			display = alias
		}
		refs = append(refs, RepositoryRef{Name: name, DisplayName: display, Path: path})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// isDir follows symlinks so linked checkouts are scanned too.
func isDir(e os.DirEntry, path string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
