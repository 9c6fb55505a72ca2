// Package normalize implements the Normalizer interface.
// It converts sanitized story HTML (descriptions, chapter text) into
// Markdown for the text-based renderers.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownNormalizer converts HTML fragments to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML fragment into trimmed Markdown.
// An empty or whitespace-only fragment yields "".
func (n *MarkdownNormalizer) Normalize(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting story HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
