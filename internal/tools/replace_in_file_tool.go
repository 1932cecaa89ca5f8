package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ReplaceInFileTool performs search and replace edits on workspace files
type ReplaceInFileTool struct {
	workspace string
}

func NewReplaceInFileTool(workspace string) *ReplaceInFileTool {
	return &ReplaceInFileTool{workspace: workspace}
}

func (f *ReplaceInFileTool) Name() string {
	return "replace_in_file"
}

func (f *ReplaceInFileTool) Description() string {
	return "Replace an exact text fragment in a workspace file. The search text must match the file contents exactly, including whitespace."
}

func (f *ReplaceInFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Relative path to the file from the workspace root",
		},
		"search": map[string]interface{}{
			"type":        "string",
			"description": "Exact text to search for",
		},
		"replace": map[string]interface{}{
			"type":        "string",
			"description": "Replacement text",
		},
		"global": map[string]interface{}{
			"type":        "boolean",
			"description": "Replace all occurrences (default: false, only the first occurrence)",
		},
	}
}

func (f *ReplaceInFileTool) RequiredParameters() []string {
	return []string{"path", "search", "replace"}
}

func (f *ReplaceInFileTool) RequiresConfirmation() bool {
	return true
}

func (f *ReplaceInFileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter must be a string")
	}
	search, ok := args["search"].(string)
	if !ok {
		return "", fmt.Errorf("search parameter must be a string")
	}
	replace, ok := args["replace"].(string)
	if !ok {
		return "", fmt.Errorf("replace parameter must be a string")
	}
	global := false
	if val, exists := args["global"]; exists {
		if b, ok := val.(bool); ok {
			global = b
		}
	}

	fullPath, err := resolveWorkspacePath(f.workspace, path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	content := string(data)
	count := strings.Count(content, search)
	if count == 0 {
		return "", fmt.Errorf("search text not found in %s", path)
	}

	replaced := count
	if global {
		content = strings.ReplaceAll(content, search, replace)
	} else {
		content = strings.Replace(content, search, replace, 1)
		replaced = 1
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return fmt.Sprintf("Replaced %d occurrence(s) in %s.", replaced, path), nil
}
