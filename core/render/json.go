// JSON renderer.
// Emits the story as structured JSON: metadata, then each chapter with its
// text as Markdown and as plain text.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/storypdf/core"
	"github.com/gaurav-prasanna/storypdf/core/assemble"
)

// StoryJSON is the complete JSON output for a story.
type StoryJSON struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Description string        `json:"description"`
	Chapters    []ChapterJSON `json:"chapters"`
}

// ChapterJSON is one chapter of the JSON output.
type ChapterJSON struct {
	Number   int    `json:"number"`
	ID       string `json:"id"`
	Anchor   string `json:"anchor"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Text     string `json:"text"`
	Words    int    `json:"words"`
}

// JSONRenderer produces structured JSON output.
type JSONRenderer struct {
	normalizer core.Normalizer
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer(normalizer core.Normalizer) *JSONRenderer {
	return &JSONRenderer{normalizer: normalizer}
}

// Render converts the document's story into indented JSON.
func (r *JSONRenderer) Render(doc core.Document) ([]byte, error) {
	story := doc.Story
	if story == nil {
		return nil, &core.RenderError{Op: "json", Err: errors.New("document carries no story")}
	}

	description, err := r.normalizer.Normalize(story.Description)
	if err != nil {
		return nil, &core.RenderError{Op: "description", Err: err}
	}

	out := StoryJSON{
		ID:          story.ID,
		Title:       story.Title,
		Author:      story.Author,
		Description: description,
		Chapters:    make([]ChapterJSON, 0, len(story.Chapters)),
	}
	for _, ch := range story.Chapters {
		md, err := r.normalizer.Normalize(ch.Text)
		if err != nil {
			return nil, &core.RenderError{Op: fmt.Sprintf("chapter %d", ch.Number), Err: err}
		}
		plain := stripMarkdown(md)
		out.Chapters = append(out.Chapters, ChapterJSON{
			Number:   ch.Number,
			ID:       ch.ID,
			Anchor:   assemble.AnchorName(ch),
			Title:    ch.Title,
			Markdown: md,
			Text:     plain,
			Words:    len(strings.Fields(plain)),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, &core.RenderError{Op: "json", Err: fmt.Errorf("marshaling JSON: %w", err)}
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var (
	headingRegex  = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	linkRegex     = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	emphasisRegex = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common Markdown formatting to produce plain text.
func stripMarkdown(md string) string {
	text := headingRegex.ReplaceAllString(md, "$2")
	text = emphasisRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "\\", "")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
