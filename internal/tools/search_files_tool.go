package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxSearchMatches = 200

// SearchFilesTool searches workspace files with a regular expression
type SearchFilesTool struct {
	workspace string
}

func NewSearchFilesTool(workspace string) *SearchFilesTool {
	return &SearchFilesTool{workspace: workspace}
}

func (f *SearchFilesTool) Name() string {
	return "search_files"
}

func (f *SearchFilesTool) Description() string {
	return "Search workspace files for a regular expression and return matching lines as path:line:text. Optionally restrict the search to files matching a glob pattern."
}

func (f *SearchFilesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"regex": map[string]interface{}{
			"type":        "string",
			"description": "Regular expression to search for (Go RE2 syntax)",
		},
		"file_pattern": map[string]interface{}{
			"type":        "string",
			"description": "Glob pattern to filter file names, e.g. '*.go' (optional)",
		},
	}
}

func (f *SearchFilesTool) RequiredParameters() []string {
	return []string{"regex"}
}

func (f *SearchFilesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pattern, ok := args["regex"].(string)
	if !ok {
		return "", fmt.Errorf("regex parameter must be a string")
	}
	filePattern := ""
	if val, exists := args["file_pattern"]; exists {
		if s, ok := val.(string); ok {
			filePattern = s
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex pattern: %v", err)
	}

	var matches []string
	for _, rel := range ListWorkspaceFiles(f.workspace, MaxListedFiles) {
		if filePattern != "" {
			if ok, _ := filepath.Match(filePattern, filepath.Base(rel)); !ok {
				continue
			}
		}
		data, err := os.ReadFile(filepath.Join(f.workspace, rel))
		if err != nil {
			continue
		}
		for i, line := range strings.Split(string(data), "\n") {
			if re.MatchString(line) {
				matches = append(matches, fmt.Sprintf("%s:%d:%s", rel, i+1, line))
				if len(matches) >= maxSearchMatches {
					matches = append(matches, "... (more matches truncated)")
					return strings.Join(matches, "\n"), nil
				}
			}
		}
	}

	if len(matches) == 0 {
		return "No matches found.", nil
	}
	return strings.Join(matches, "\n"), nil
}
