package utils

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	codeBlockStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Padding(0, 1).MarginLeft(2)
	headingStyle   = lipgloss.NewStyle().Bold(true)
	linkStyle      = lipgloss.NewStyle().Underline(true)
	listStyle      = lipgloss.NewStyle().MarginLeft(2)
	boldStyle      = lipgloss.NewStyle().Bold(true)
	italicStyle    = lipgloss.NewStyle().Italic(true)

	orderedItemRe = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCodeRe  = regexp.MustCompile("`[^`]+`")
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe      = regexp.MustCompile(`_([^_]+)_`)
)

// RenderMarkdown applies lightweight terminal styling to markdown text.
// It covers the constructs models actually emit: fenced code blocks,
// headings, lists, inline code, links, bold, and italics.
func RenderMarkdown(text string) string {
	var b strings.Builder
	inCodeBlock := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			b.WriteString(codeBlockStyle.Render(line) + "\n")
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"):
			b.WriteString(headingStyle.Render(renderInline(strings.TrimLeft(line, "# "))) + "\n")
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			b.WriteString(listStyle.Render("• "+renderInline(line[2:])) + "\n")
		default:
			if m := orderedItemRe.FindStringSubmatch(line); len(m) == 3 {
				b.WriteString(listStyle.Render(m[1]+". "+renderInline(m[2])) + "\n")
				continue
			}
			b.WriteString(renderInline(line) + "\n")
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// renderInline styles inline constructs. Code spans go first so their
// contents are not re-processed as formatting.
func renderInline(line string) string {
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(match string) string {
		return codeBlockStyle.Render(strings.Trim(match, "`"))
	})
	line = linkRe.ReplaceAllStringFunc(line, func(match string) string {
		m := linkRe.FindStringSubmatch(match)
		return linkStyle.Render(m[1])
	})
	line = boldRe.ReplaceAllStringFunc(line, func(match string) string {
		return boldStyle.Render(strings.Trim(match, "*"))
	})
	line = italicRe.ReplaceAllStringFunc(line, func(match string) string {
		return italicStyle.Render(strings.Trim(match, "_"))
	})
	return line
}
