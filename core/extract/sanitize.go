package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeOptions toggles the individual removal rules.
type SanitizeOptions struct {
	StripDivs      bool // drop nested div elements with their subtree
	StripNofollow  bool // drop rel="nofollow" from links
	StripSpanStyle bool // drop inline style from span elements
}

// DefaultSanitizeOptions enables every rule.
func DefaultSanitizeOptions() SanitizeOptions {
	return SanitizeOptions{StripDivs: true, StripNofollow: true, StripSpanStyle: true}
}

// Sanitize removes the markup the PDF renderer cannot take from sel and
// returns its inner HTML. sel is modified in place. Tags and attributes not
// named by a rule pass through untouched.
func Sanitize(sel *goquery.Selection, opts SanitizeOptions) (string, error) {
	if opts.StripDivs {
		sel.Find("div").Remove()
	}
	if opts.StripNofollow {
		sel.Find(`a[rel~="nofollow"]`).RemoveAttr("rel")
	}
	if opts.StripSpanStyle {
		sel.Find("span[style]").RemoveAttr("style")
	}

	html, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("serializing region: %w", err)
	}
	return html, nil
}

// SanitizeHTML applies Sanitize to a raw HTML fragment.
func SanitizeHTML(fragment string, opts SanitizeOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	return Sanitize(doc.Find("body"), opts)
}
