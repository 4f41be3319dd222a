package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsRepo reports whether path contains a .git directory or gitdir file.
func IsRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// Dirs locates the metadata directories of the working tree at repoPath.
// gitDir holds HEAD and index; commonDir holds refs and differs from gitDir
// only for linked worktrees.
func Dirs(repoPath string) (gitDir, commonDir string, err error) {
	dotGit := filepath.Join(repoPath, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", "", err
	}
	if info.IsDir() {
		return dotGit, dotGit, nil
	}

	content, err := os.ReadFile(dotGit)
	if err != nil {
		return "", "", fmt.Errorf("failed to read .git file: %w", err)
	}
	line, _, _ := strings.Cut(string(content), "\n")
	line = strings.TrimSpace(line)
	target, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok {
		return "", "", fmt.Errorf("invalid .git file format: expected 'gitdir: <path>'")
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(repoPath, target)
	}
	gitDir = filepath.Clean(target)

	commonDir = gitDir
	if raw, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		c := strings.TrimSpace(string(raw))
		if !filepath.IsAbs(c) {
			c = filepath.Join(gitDir, c)
		}
		commonDir = filepath.Clean(c)
	}
	return gitDir, commonDir, nil
}
