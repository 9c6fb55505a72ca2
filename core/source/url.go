// Package source holds the URL shapes of the story site.
// The fetch URLs, the public story URL and the chapter link path are all
// fixed by the site's routing; if the site changes them, only this file moves.
package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBaseURL is the prefix every story and chapter page lives under.
const DefaultBaseURL = "https://www.hentai-foundry.com/stories/user/_/"

// AgreementParam and AgreementValue form the age-gate query parameter the
// site requires before it serves story content.
const (
	AgreementParam = "enterAgree"
	AgreementValue = "1"
)

var (
	storyURLPattern    = regexp.MustCompile(`/stories/user/[^/]+/(?P<id>[0-9]+)/(?P<title>[^/.]+)`)
	chapterHrefPattern = regexp.MustCompile(`/stories/user/[^/]+/[^/]+/[^/]+/(?P<id>[0-9]+)/Chapter-(?P<number>[0-9]+)/`)
)

// StoryURL returns the frontpage URL of a story.
func StoryURL(baseURL, storyID string) string {
	return fmt.Sprintf("%s%s/_", withSlash(baseURL), storyID)
}

// ChapterURL returns the page URL of a single chapter. number is used
// verbatim, so a link's leading zeros survive.
func ChapterURL(baseURL, storyID, chapterID, number string) string {
	return fmt.Sprintf("%s%s/_/%s/Chapter-%s/_", withSlash(baseURL), storyID, chapterID, number)
}

// ParseStoryURL pulls the story id and the title segment out of a public
// story URL such as https://host/stories/user/someone/46750/Some-Title.
// The title is only used for naming downloads.
func ParseStoryURL(rawURL string) (id, title string, ok bool) {
	m := storyURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}
	return m[storyURLPattern.SubexpIndex("id")], m[storyURLPattern.SubexpIndex("title")], true
}

// ChapterRef is what a chapter link tells about its chapter.
type ChapterRef struct {
	ID         string
	Number     int    // ordering and anchor key
	NumberText string // digits as written, for rebuilding the URL
}

// ParseChapterHref extracts the chapter id and number from a chapter link.
func ParseChapterHref(href string) (ChapterRef, error) {
	m := chapterHrefPattern.FindStringSubmatch(href)
	if m == nil {
		return ChapterRef{}, fmt.Errorf("chapter link %q does not match %s", href, chapterHrefPattern)
	}
	text := m[chapterHrefPattern.SubexpIndex("number")]
	number, err := strconv.Atoi(text)
	if err != nil {
		return ChapterRef{}, fmt.Errorf("chapter number in %q: %w", href, err)
	}
	return ChapterRef{
		ID:         m[chapterHrefPattern.SubexpIndex("id")],
		Number:     number,
		NumberText: text,
	}, nil
}

// IsStoryID reports whether s looks like a story id (digits only).
func IsStoryID(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func withSlash(baseURL string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL
	}
	return baseURL + "/"
}
