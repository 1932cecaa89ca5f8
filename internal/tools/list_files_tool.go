package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFilesTool lists workspace directory contents
type ListFilesTool struct {
	workspace string
}

func NewListFilesTool(workspace string) *ListFilesTool {
	return &ListFilesTool{workspace: workspace}
}

func (f *ListFilesTool) Name() string {
	return "list_files"
}

func (f *ListFilesTool) Description() string {
	return "List files and directories in the workspace. Lists the top level of a directory by default, or the full tree recursively."
}

func (f *ListFilesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Relative path to the directory from the workspace root (default: workspace root)",
		},
		"recursive": map[string]interface{}{
			"type":        "boolean",
			"description": "List files in all subdirectories (default: false)",
		},
	}
}

func (f *ListFilesTool) RequiredParameters() []string {
	return []string{"path"}
}

func (f *ListFilesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter must be a string")
	}
	recursive := false
	if val, exists := args["recursive"]; exists {
		if b, ok := val.(bool); ok {
			recursive = b
		}
	}

	fullPath, err := resolveWorkspacePath(f.workspace, path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to access path: %v", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", path)
	}

	if recursive {
		files := ListWorkspaceFiles(fullPath, MaxListedFiles)
		if len(files) == 0 {
			return "No files found.", nil
		}
		return strings.Join(files, "\n"), nil
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += string(filepath.Separator)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "No files found.", nil
	}
	return strings.Join(names, "\n"), nil
}
