// Package extract pulls story fields out of parsed story-site pages.
// Every field lives in a fixed page region. Regions are described
// declaratively in the table below and located by a single locate-or-fail
// routine, so a markup change on the site is a table edit.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/storypdf/core"
	"github.com/gaurav-prasanna/storypdf/core/source"
)

// Region names.
const (
	RegionTitle       = "title"
	RegionAuthor      = "author"
	RegionDescription = "description"
	RegionChapterList = "chapter list"
	RegionChapterText = "chapter text"
)

// Locator is a chain of CSS selectors. Each step is searched inside the
// first match of the previous one.
type Locator []string

// DefaultRegions is the region table for the story site.
var DefaultRegions = map[string]Locator{
	RegionTitle:       {"h1.titleSemantic"},
	RegionAuthor:      {"td.storyInfo", "a"},
	RegionDescription: {"td.storyDescript"},
	RegionChapterList: {"section#yw0"},
	RegionChapterText: {"section#viewChapter", "div.boxbody"},
}

// HTMLExtractor reads story fields from goquery documents.
type HTMLExtractor struct {
	regions  map[string]Locator
	sanitize SanitizeOptions
}

// New creates an HTMLExtractor using DefaultRegions and all sanitizer rules.
func New() *HTMLExtractor {
	return &HTMLExtractor{
		regions:  DefaultRegions,
		sanitize: DefaultSanitizeOptions(),
	}
}

// WithRegions returns a copy of e that uses the given region table.
func (e *HTMLExtractor) WithRegions(regions map[string]Locator) *HTMLExtractor {
	cp := *e
	cp.regions = regions
	return &cp
}

// WithSanitizeOptions returns a copy of e that sanitizes with opts.
func (e *HTMLExtractor) WithSanitizeOptions(opts SanitizeOptions) *HTMLExtractor {
	cp := *e
	cp.sanitize = opts
	return &cp
}

// locate finds the region or fails with an ExtractionError.
func (e *HTMLExtractor) locate(doc *goquery.Document, region string) (*goquery.Selection, error) {
	chain, ok := e.regions[region]
	if !ok || len(chain) == 0 {
		return nil, &core.ExtractionError{Region: region, Reason: "no locator configured"}
	}

	sel := doc.Selection
	for _, step := range chain {
		sel = sel.Find(step).First()
		if sel.Length() == 0 {
			return nil, &core.ExtractionError{Region: region, Reason: "no element matches " + strings.Join(chain, " > ")}
		}
	}
	return sel, nil
}

// Title returns the plain-text story or chapter title.
func (e *HTMLExtractor) Title(doc *goquery.Document) (string, error) {
	sel, err := e.locate(doc, RegionTitle)
	if err != nil {
		return "", err
	}
	return plainText(sel), nil
}

// Author returns the plain-text author name from a story frontpage.
func (e *HTMLExtractor) Author(doc *goquery.Document) (string, error) {
	sel, err := e.locate(doc, RegionAuthor)
	if err != nil {
		return "", err
	}
	return plainText(sel), nil
}

// Description returns the sanitized description HTML from a story frontpage.
func (e *HTMLExtractor) Description(doc *goquery.Document) (string, error) {
	sel, err := e.locate(doc, RegionDescription)
	if err != nil {
		return "", err
	}
	return e.sanitizeRegion(RegionDescription, sel)
}

// Chapters returns the chapter list of a story frontpage in page order.
// Only Number, NumberText and ID are set.
func (e *HTMLExtractor) Chapters(doc *goquery.Document) ([]core.Chapter, error) {
	sel, err := e.locate(doc, RegionChapterList)
	if err != nil {
		return nil, err
	}

	var chapters []core.Chapter
	var firstErr error
	sel.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		ref, err := source.ParseChapterHref(href)
		if err != nil {
			firstErr = &core.ExtractionError{Region: RegionChapterList, Reason: err.Error()}
			return false
		}
		chapters = append(chapters, core.Chapter{Number: ref.Number, ID: ref.ID, NumberText: ref.NumberText})
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return chapters, nil
}

// ChapterText returns the sanitized text HTML of a chapter page.
func (e *HTMLExtractor) ChapterText(doc *goquery.Document) (string, error) {
	sel, err := e.locate(doc, RegionChapterText)
	if err != nil {
		return "", err
	}
	return e.sanitizeRegion(RegionChapterText, sel)
}

// Story reads the frontpage fields into a Story whose chapters carry only
// Number and ID.
func (e *HTMLExtractor) Story(storyID string, doc *goquery.Document) (*core.Story, error) {
	title, err := e.Title(doc)
	if err != nil {
		return nil, err
	}
	author, err := e.Author(doc)
	if err != nil {
		return nil, err
	}
	description, err := e.Description(doc)
	if err != nil {
		return nil, err
	}
	chapters, err := e.Chapters(doc)
	if err != nil {
		return nil, err
	}
	return &core.Story{
		ID:          storyID,
		Title:       title,
		Author:      author,
		Description: description,
		Chapters:    chapters,
	}, nil
}

// Chapter fills in the title and text of chapter from its page.
func (e *HTMLExtractor) Chapter(chapter core.Chapter, doc *goquery.Document) (core.Chapter, error) {
	title, err := e.Title(doc)
	if err != nil {
		return chapter, err
	}
	text, err := e.ChapterText(doc)
	if err != nil {
		return chapter, err
	}
	chapter.Title = title
	chapter.Text = text
	return chapter, nil
}

// plainText is the text of sel with whitespace runs folded to single spaces.
func plainText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func (e *HTMLExtractor) sanitizeRegion(region string, sel *goquery.Selection) (string, error) {
	html, err := Sanitize(sel, e.sanitize)
	if err != nil {
		return "", &core.ExtractionError{Region: region, Reason: err.Error()}
	}
	return html, nil
}
