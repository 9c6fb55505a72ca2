package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/storypdf/core"
)

// inlineTags is the markup body blocks may contain. Anything else is
// rejected rather than silently dropped.
var inlineTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"u": true, "s": true, "strike": true,
	"a": true, "br": true, "p": true,
	"span": true, "font": true,
	"sup": true, "sub": true, "small": true, "big": true,
}

// checkMarkup returns an error naming the first unsupported tag in fragment.
func checkMarkup(fragment string) error {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return nil
			}
			return z.Err()
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if !inlineTags[string(name)] {
				return fmt.Errorf("unsupported markup <%s>", name)
			}
		}
	}
}

// markupWriter flows an inline HTML fragment into the PDF, tracking
// bold/italic/underline nesting and the current link target.
type markupWriter struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	style core.TextStyle

	bold, italic, underline int
	href                    string
	midLine                 bool
}

func (w *markupWriter) write(fragment string) {
	w.applyFont()
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if w.midLine {
				w.newline()
			}
			return

		case html.TextToken:
			w.text(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			w.open(string(name), tagHref(z, hasAttr))

		case html.EndTagToken:
			name, _ := z.TagName()
			w.close(string(name))
		}
	}
}

func (w *markupWriter) text(raw string) {
	txt := collapseSpace(raw)
	if !w.midLine {
		txt = strings.TrimLeft(txt, " ")
	}
	if txt == "" {
		return
	}
	lh := w.style.LineHeight
	if w.href != "" {
		w.pdf.WriteLinkString(lh, w.tr(txt), w.href)
	} else {
		w.pdf.Write(lh, w.tr(txt))
	}
	w.midLine = true
}

func (w *markupWriter) open(name, href string) {
	switch name {
	case "b", "strong":
		w.bold++
	case "i", "em":
		w.italic++
	case "u":
		w.underline++
	case "a":
		w.href = href
	case "br":
		w.newline()
	case "p":
		if w.midLine {
			w.newline()
		}
	}
	w.applyFont()
}

func (w *markupWriter) close(name string) {
	switch name {
	case "b", "strong":
		w.bold = max(w.bold-1, 0)
	case "i", "em":
		w.italic = max(w.italic-1, 0)
	case "u":
		w.underline = max(w.underline-1, 0)
	case "a":
		w.href = ""
	case "p":
		if w.midLine {
			w.newline()
		}
		w.pdf.Ln(w.style.LineHeight / 2)
	}
	w.applyFont()
}

func (w *markupWriter) newline() {
	w.pdf.Ln(w.style.LineHeight)
	w.midLine = false
}

func (w *markupWriter) applyFont() {
	style := w.style.Style
	if w.bold > 0 && !strings.Contains(style, "B") {
		style += "B"
	}
	if w.italic > 0 && !strings.Contains(style, "I") {
		style += "I"
	}
	if w.underline > 0 || w.href != "" {
		style += "U"
	}
	w.pdf.SetFont(w.style.Family, style, w.style.Size)
}

func tagHref(z *html.Tokenizer, hasAttr bool) string {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "href" {
			return string(val)
		}
	}
	return ""
}

// plainText prepares a title, heading or link label for a single line:
// whitespace runs become one space and the ends are trimmed.
func plainText(s string) string {
	return strings.TrimSpace(collapseSpace(s))
}

// collapseSpace folds every whitespace run into a single space, as HTML
// layout does.
func collapseSpace(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
