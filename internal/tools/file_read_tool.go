package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileReadTool reads workspace file contents
type FileReadTool struct {
	workspace string
}

func NewFileReadTool(workspace string) *FileReadTool {
	return &FileReadTool{workspace: workspace}
}

func (f *FileReadTool) Name() string {
	return "read_file"
}

func (f *FileReadTool) Description() string {
	return "Read the contents of a file in the workspace. Supports reading a specific line range for large files."
}

func (f *FileReadTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Relative path to the file from the workspace root",
		},
		"lines_from": map[string]interface{}{
			"type":        "number",
			"description": "Start reading from this line number (1-based, optional)",
		},
		"lines_to": map[string]interface{}{
			"type":        "number",
			"description": "Stop reading at this line number (1-based, optional)",
		},
	}
}

func (f *FileReadTool) RequiredParameters() []string {
	return []string{"path"}
}

func (f *FileReadTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok {
		return "", fmt.Errorf("path parameter must be a string")
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

	var linesFrom, linesTo int
	if val, exists := args["lines_from"]; exists {
		if num, ok := val.(float64); ok {
			linesFrom = int(num)
		}
	}
	if val, exists := args["lines_to"]; exists {
		if num, ok := val.(float64); ok {
			linesTo = int(num)
		}
	}

	if linesFrom > 0 || linesTo > 0 {
		lines := strings.Split(content, "\n")
		if linesFrom < 1 {
			linesFrom = 1
		}
		if linesTo < 1 || linesTo > len(lines) {
			linesTo = len(lines)
		}
		if linesFrom > len(lines) {
			return "", fmt.Errorf("lines_from %d is beyond the end of the file (%d lines)", linesFrom, len(lines))
		}
		content = strings.Join(lines[linesFrom-1:linesTo], "\n")
	}

	return content, nil
}
