package cache

import (
	"io/fs"
	"os"
	"path/filepath"

	"mgit/internal/git"
)

// GitMtime returns the newest modification time, in fractional Unix seconds,
// among the repository's index, HEAD and every file under refs/. It is 0 when
// none of them exist.
func GitMtime(repoPath string) float64 {
	gitDir, commonDir, err := git.Dirs(repoPath)
	if err != nil {
		gitDir = filepath.Join(repoPath, ".git")
		commonDir = gitDir
	}

	var newest float64
	consider := func(info fs.FileInfo) {
		if t := float64(info.ModTime().UnixNano()) / 1e9; t > newest {
			newest = t
		}
	}

	for _, name := range []string{"index", "HEAD"} {
		if info, err := os.Stat(filepath.Join(gitDir, name)); err == nil && !info.IsDir() {
			consider(info)
		}
	}

	_ = filepath.WalkDir(filepath.Join(commonDir, "refs"), func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			consider(info)
		}
		return nil
	})
	return newest
}
