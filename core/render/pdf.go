// Package render turns assembled documents into output bytes.
// Draws the assembled block sequence with gofpdf: a title page with the
// description and a linked table of contents, then one page run per chapter.
// Page numbers skip the title page.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/storypdf/core"
)

// PDFOptions controls page geometry.
type PDFOptions struct {
	PageSize         string  // gofpdf size name, e.g. "A4"
	Margin           float64 // points on every side
	PageNumberMargin float64 // the number is right-aligned this far from the left and bottom edges
	PageNumberStyle  core.TextStyle
}

// DefaultPDFOptions returns A4 pages with one-inch margins.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:         "A4",
		Margin:           72,
		PageNumberMargin: 50,
		PageNumberStyle:  core.TextStyle{Family: "Helvetica", Size: 10, LineHeight: 12},
	}
}

// PDFRenderer renders documents as PDF.
type PDFRenderer struct {
	opts PDFOptions
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	return &PDFRenderer{opts: opts}
}

// PageLabel is the number printed on page n. The title page is not counted,
// so page 2 is labeled 1.
func PageLabel(n int) string {
	return strconv.Itoa(n - 1)
}

// Render converts the document into PDF bytes.
func (r *PDFRenderer) Render(doc core.Document) ([]byte, error) {
	// Body markup is checked up front so a bad block never yields a partial file.
	for i, b := range doc.Blocks {
		if b.Kind != core.BlockBodyText {
			continue
		}
		if err := checkMarkup(b.Text); err != nil {
			return nil, &core.RenderError{Op: fmt.Sprintf("block %d", i), Err: err}
		}
	}

	m := r.opts.Margin
	pdf := gofpdf.New("P", "pt", r.opts.PageSize, "")
	pdf.SetMargins(m, m, m)
	pdf.SetAutoPageBreak(true, m)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("storypdf", true)
	pdf.SetFooterFunc(func() { r.drawPageNumber(pdf) })

	d := &pdfDoc{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		links: make(map[string]int),
	}

	pdf.AddPage()
	for i, b := range doc.Blocks {
		d.draw(b)
		if pdf.Err() {
			return nil, &core.RenderError{Op: fmt.Sprintf("block %d (%s)", i, b.Kind), Err: pdf.Error()}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &core.RenderError{Op: "output", Err: err}
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (r *PDFRenderer) drawPageNumber(pdf *gofpdf.Fpdf) {
	n := pdf.PageNo()
	if n <= 1 {
		return
	}
	st := r.opts.PageNumberStyle
	margin := r.opts.PageNumberMargin
	_, height := pdf.GetPageSize()

	pdf.SetFont(st.Family, st.Style, st.Size)
	pdf.SetXY(0, height-margin-st.LineHeight)
	pdf.CellFormat(margin, st.LineHeight, PageLabel(n), "", 0, "R", false, 0, "")
}

// pdfDoc carries the per-render drawing state.
type pdfDoc struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	links map[string]int // anchor name -> gofpdf link id
}

// linkID returns the link for an anchor name. Contents entries are drawn
// before their anchors, so ids are allocated on first mention from either side.
func (d *pdfDoc) linkID(name string) int {
	id, ok := d.links[name]
	if !ok {
		id = d.pdf.AddLink()
		d.links[name] = id
	}
	return id
}

func (d *pdfDoc) setStyle(st core.TextStyle) {
	d.pdf.SetFont(st.Family, st.Style, st.Size)
}

func (d *pdfDoc) draw(b core.Block) {
	pdf := d.pdf
	switch b.Kind {
	case core.BlockTitle, core.BlockHeading:
		d.setStyle(b.Style)
		pdf.MultiCell(0, b.Style.LineHeight, d.tr(plainText(b.Text)), "", b.Style.Align, false)

	case core.BlockSpacer:
		pdf.Ln(b.Size)

	case core.BlockPageBreak:
		pdf.AddPage()

	case core.BlockLink:
		d.setStyle(b.Style)
		pdf.WriteLinkID(b.Style.LineHeight, d.tr(plainText(b.Text)), d.linkID(b.Name))
		pdf.Ln(b.Style.LineHeight)

	case core.BlockAnchor:
		pdf.SetLink(d.linkID(b.Name), pdf.GetY(), -1)
		d.setStyle(b.Style)
		pdf.MultiCell(0, b.Style.LineHeight, d.tr(plainText(b.Text)), "", b.Style.Align, false)

	case core.BlockBodyText:
		w := &markupWriter{pdf: pdf, tr: d.tr, style: b.Style}
		w.write(b.Text)
	}
}
