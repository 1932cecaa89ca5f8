package components

import (
	"fmt"
	"strings"

	"github.com/hcengineering/huly-coder/ui/styles"
)

func RenderStatus(status string, processing bool, loadingDots int, tokensUsed, tokensMax, width int) string {
	statusContent := status
	if processing {
		statusContent += strings.Repeat(".", loadingDots)
	}
	if tokensMax > 0 {
		statusContent += fmt.Sprintf("  |  tokens %d/%d", tokensUsed, tokensMax)
	}
	return styles.StatusStyle(width).Render(statusContent)
}
