package tools

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// MaxListedFiles bounds every recursive workspace listing.
const MaxListedFiles = 10000

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
	".idea":        true,
}

// resolveWorkspacePath validates a model-supplied relative path and anchors
// it inside the workspace.
func resolveWorkspacePath(workspace, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("path must be relative, not absolute")
	}
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path cannot contain parent directory references (..)")
	}
	return filepath.Join(workspace, path), nil
}

// ListWorkspaceFiles walks the workspace and returns up to max relative
// paths, using forward slashes regardless of platform. Directories that are
// never useful to the model are skipped.
func ListWorkspaceFiles(workspace string, max int) []string {
	if max <= 0 || max > MaxListedFiles {
		max = MaxListedFiles
	}
	var files []string
	filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(workspace, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		if len(files) >= max {
			return fs.SkipAll
		}
		return nil
	})
	return files
}
