package cli

import (
	"github.com/charmbracelet/glamour"
)

const minMarkdownWidth = 40

// RenderMarkdown renders markdown for the terminal. Plain text is returned
// when colors are disabled or rendering fails.
func RenderMarkdown(content string, width int) string {
	if !ColorsEnabled() {
		return content
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
