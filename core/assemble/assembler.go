// Package assemble turns an extracted Story into the flat block sequence
// renderers consume: title page, contents, then one section per chapter.
package assemble

import (
	"fmt"
	"strconv"

	"github.com/gaurav-prasanna/storypdf/core"
)

// ContentsHeading labels the table of contents.
const ContentsHeading = "Contents"

// Assembler builds documents with a fixed set of styles.
type Assembler struct {
	styles Styles
}

// New creates an Assembler.
func New(styles Styles) *Assembler {
	return &Assembler{styles: styles}
}

// Assemble lays out story. The result has 5 + 5*len(story.Chapters) blocks
// and keeps chapters in story order.
func (a *Assembler) Assemble(story *core.Story) core.Document {
	s := a.styles
	blocks := make([]core.Block, 0, 5+5*len(story.Chapters))

	blocks = append(blocks,
		core.Block{Kind: core.BlockTitle, Text: fmt.Sprintf("%s by %s", story.Title, story.Author), Style: s.Title},
		spacer(s.SectionSpacing),
		core.Block{Kind: core.BlockBodyText, Text: story.Description, Style: s.Normal},
		spacer(s.SectionSpacing),
		core.Block{Kind: core.BlockHeading, Text: ContentsHeading, Style: s.Heading},
	)

	for _, ch := range story.Chapters {
		blocks = append(blocks, core.Block{
			Kind:  core.BlockLink,
			Text:  ch.Title,
			Name:  AnchorName(ch),
			Style: s.Normal,
		})
	}

	for _, ch := range story.Chapters {
		blocks = append(blocks,
			core.Block{Kind: core.BlockPageBreak},
			core.Block{Kind: core.BlockAnchor, Text: ch.Title, Name: AnchorName(ch), Style: s.Heading},
			spacer(s.SectionSpacing),
			core.Block{Kind: core.BlockBodyText, Text: ch.Text, Style: s.Body},
		)
	}

	return core.Document{
		Title:  story.Title,
		Author: story.Author,
		Story:  story,
		Blocks: blocks,
	}
}

// AnchorName is the in-document anchor of a chapter.
func AnchorName(ch core.Chapter) string {
	return strconv.Itoa(ch.Number)
}

func spacer(height float64) core.Block {
	return core.Block{Kind: core.BlockSpacer, Size: height}
}
