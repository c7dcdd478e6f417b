package static

import (
	"strings"

	"charm.land/glamour/v2"
)

// maxMarkdownWidth caps rendered markdown for readability.
const maxMarkdownWidth = 120

// RenderMarkdown renders markdown for the terminal using glamour.
// Falls back to the plain content if rendering fails.
func RenderMarkdown(content string, width int) string {
	if width <= 0 || width > maxMarkdownWidth {
		width = maxMarkdownWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}
