package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownStripsMarkers(t *testing.T) {
	out := RenderMarkdown("# Title\n\nSome **bold** and _italic_ and `code`.")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "_italic_")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestRenderMarkdownLists(t *testing.T) {
	out := RenderMarkdown("- first\n* second\n1. third")
	assert.Contains(t, out, "• first")
	assert.Contains(t, out, "• second")
	assert.Contains(t, out, "1. third")
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	out := RenderMarkdown("```go\nfunc main() {}\n```\nafter")
	assert.Contains(t, out, "func main() {}")
	assert.NotContains(t, out, "```")
	assert.True(t, strings.HasSuffix(out, "after"))
}

func TestRenderMarkdownLinks(t *testing.T) {
	out := RenderMarkdown("see [docs](https://example.com) for details")
	assert.Contains(t, out, "docs")
	assert.NotContains(t, out, "https://example.com")
}
