package assemble

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/storypdf/core"
)

func storyWith(n int) *core.Story {
	story := &core.Story{
		ID:          "46750",
		Title:       "Tale",
		Author:      "someone",
		Description: "<p>About</p>",
	}
	for i := 1; i <= n; i++ {
		story.Chapters = append(story.Chapters, core.Chapter{
			Number: i,
			ID:     fmt.Sprint(i * 100),
			Title:  fmt.Sprintf("Chapter %d", i),
			Text:   fmt.Sprintf("<p>text %d</p>", i),
		})
	}
	return story
}

func kinds(blocks []core.Block) []core.BlockKind {
	out := make([]core.BlockKind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func TestAssemble_BlockCountAndOrder(t *testing.T) {
	head := []core.BlockKind{core.BlockTitle, core.BlockSpacer, core.BlockBodyText, core.BlockSpacer, core.BlockHeading}
	section := []core.BlockKind{core.BlockPageBreak, core.BlockAnchor, core.BlockSpacer, core.BlockBodyText}

	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d chapters", n), func(t *testing.T) {
			doc := New(DefaultStyles()).Assemble(storyWith(n))
			require.Len(t, doc.Blocks, 5+5*n)

			want := append([]core.BlockKind{}, head...)
			for i := 0; i < n; i++ {
				want = append(want, core.BlockLink)
			}
			for i := 0; i < n; i++ {
				want = append(want, section...)
			}
			assert.Equal(t, want, kinds(doc.Blocks))
		})
	}
}

func TestAssemble_Content(t *testing.T) {
	styles := DefaultStyles()
	doc := New(styles).Assemble(storyWith(2))

	assert.Equal(t, "Tale", doc.Title)
	assert.Equal(t, "someone", doc.Author)
	assert.Equal(t, "Tale by someone", doc.Blocks[0].Text)
	assert.Equal(t, styles.Title, doc.Blocks[0].Style)
	assert.Equal(t, styles.SectionSpacing, doc.Blocks[1].Size)
	assert.Equal(t, "<p>About</p>", doc.Blocks[2].Text)
	assert.Equal(t, ContentsHeading, doc.Blocks[4].Text)

	links := doc.Blocks[5:7]
	assert.Equal(t, core.Block{Kind: core.BlockLink, Text: "Chapter 1", Name: "1", Style: styles.Normal}, links[0])
	assert.Equal(t, "2", links[1].Name)

	var anchors []string
	for _, b := range doc.Blocks {
		if b.Kind == core.BlockAnchor {
			anchors = append(anchors, b.Name)
		}
	}
	assert.Equal(t, []string{"1", "2"}, anchors)

	last := doc.Blocks[len(doc.Blocks)-1]
	assert.Equal(t, core.BlockBodyText, last.Kind)
	assert.Equal(t, "<p>text 2</p>", last.Text)
	assert.Equal(t, styles.Body, last.Style)
}

func TestAssemble_Deterministic(t *testing.T) {
	a := New(DefaultStyles())
	story := storyWith(3)
	assert.Equal(t, a.Assemble(story), a.Assemble(story))
}
