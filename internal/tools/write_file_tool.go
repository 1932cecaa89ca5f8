package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileTool creates or overwrites workspace files
type WriteFileTool struct {
	workspace string
}

func NewWriteFileTool(workspace string) *WriteFileTool {
	return &WriteFileTool{workspace: workspace}
}

func (f *WriteFileTool) Name() string {
	return "write_to_file"
}

func (f *WriteFileTool) Description() string {
	return "Write content to a file in the workspace, creating it (and any missing parent directories) if it does not exist, or overwriting it completely if it does."
}

func (f *WriteFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Relative path to the file from the workspace root",
		},
		"content": map[string]interface{}{
			"type":        "string",
			"description": "Full content to write to the file",
		},
	}
}

func (f *WriteFileTool) RequiredParameters() []string {
	return []string{"path", "content"}
}

func (f *WriteFileTool) RequiresConfirmation() bool {
	return true
}

func (f *WriteFileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter must be a string")
	}
	content, ok := args["content"].(string)
	if !ok {
		return "", fmt.Errorf("content parameter must be a string")
	}

	fullPath, err := resolveWorkspacePath(f.workspace, path)
	if err != nil {
		return "", err
	}

	_, statErr := os.Stat(fullPath)
	existed := statErr == nil

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	if existed {
		return fmt.Sprintf("File %s overwritten (%d bytes).", path, len(content)), nil
	}
	return fmt.Sprintf("File %s created (%d bytes).", path, len(content)), nil
}
