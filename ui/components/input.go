package components

import (
	"github.com/hcengineering/huly-coder/ui/styles"
)

func RenderInput(inputView string, width int) string {
	return styles.InputStyle(width).Render(inputView)
}
