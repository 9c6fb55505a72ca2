// Package core defines the data model and pipeline interfaces for storypdf.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// Chapter is one ordered sub-unit of a story.
// Number and ID come from the frontpage chapter list; Title and Text are
// filled in once the chapter page has been fetched.
type Chapter struct {
	Number int    `json:"number"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"` // sanitized HTML

	// NumberText is the number exactly as written in the chapter link,
	// leading zeros included.
	NumberText string `json:"-"`
}

// URLNumber is the chapter number as it goes into the chapter URL.
func (c Chapter) URLNumber() string {
	if c.NumberText != "" {
		return c.NumberText
	}
	return strconv.Itoa(c.Number)
}

// Story is a complete multi-chapter work.
type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"` // sanitized HTML
	Chapters    []Chapter `json:"chapters"`
}

// BlockKind tags a document block.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockBodyText
	BlockSpacer
	BlockPageBreak
	BlockLink
	BlockAnchor
)

var blockKindNames = [...]string{
	BlockTitle:     "title",
	BlockHeading:   "heading",
	BlockBodyText:  "body",
	BlockSpacer:    "spacer",
	BlockPageBreak: "page_break",
	BlockLink:      "link",
	BlockAnchor:    "anchor",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// TextStyle describes how a text block is drawn.
type TextStyle struct {
	Family     string  // core font family, e.g. "Helvetica"
	Style      string  // "", "B", "I", "BI"
	Size       float64 // points
	LineHeight float64 // points
	Align      string  // "L", "C", "R"
}

// Block is a single entry of the document sequence.
type Block struct {
	Kind  BlockKind
	Text  string    // plain text for Title/Heading/Link/Anchor, HTML for BodyText
	Name  string    // anchor name (Anchor) or link target (Link)
	Style TextStyle // zero for Spacer and PageBreak
	Size  float64   // spacer height in points
}

// Document is the assembled block sequence plus the metadata renderers need.
type Document struct {
	Title  string
	Author string
	Story  *Story
	Blocks []Block
}

// Fetcher retrieves and parses pages from the story site.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
	FetchStory(ctx context.Context, storyID string) (*goquery.Document, error)
	FetchChapter(ctx context.Context, storyID string, chapter Chapter) (*goquery.Document, error)
}

// Renderer converts an assembled Document into a final output format.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Normalizer converts a sanitized HTML fragment into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}
