// Markdown renderer: the same block sequence as the PDF, with chapter text
// converted to Markdown.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/storypdf/core"
)

// MarkdownRenderer writes a document as a single Markdown file.
type MarkdownRenderer struct {
	normalizer core.Normalizer
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer(normalizer core.Normalizer) *MarkdownRenderer {
	return &MarkdownRenderer{normalizer: normalizer}
}

// Render converts the block sequence to Markdown.
// Contents entries link to HTML anchors placed above each chapter heading.
func (r *MarkdownRenderer) Render(doc core.Document) ([]byte, error) {
	var buf strings.Builder
	for i, b := range doc.Blocks {
		switch b.Kind {
		case core.BlockTitle:
			fmt.Fprintf(&buf, "# %s\n\n", plainText(b.Text))
		case core.BlockHeading:
			fmt.Fprintf(&buf, "## %s\n\n", plainText(b.Text))
		case core.BlockLink:
			fmt.Fprintf(&buf, "- [%s](#%s)\n", plainText(b.Text), b.Name)
		case core.BlockPageBreak:
			buf.WriteString("\n---\n\n")
		case core.BlockAnchor:
			fmt.Fprintf(&buf, "<a id=\"%s\"></a>\n\n## %s\n\n", b.Name, plainText(b.Text))
		case core.BlockBodyText:
			md, err := r.normalizer.Normalize(b.Text)
			if err != nil {
				return nil, &core.RenderError{Op: fmt.Sprintf("block %d", i), Err: err}
			}
			if md != "" {
				buf.WriteString(md)
				buf.WriteString("\n\n")
			}
		}
	}
	return []byte(strings.TrimRight(buf.String(), "\n") + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
