package assemble

import "github.com/gaurav-prasanna/storypdf/core"

// Styles holds the named text styles and spacing used to lay out a story.
type Styles struct {
	Title   core.TextStyle
	Heading core.TextStyle
	Normal  core.TextStyle // description and contents entries
	Body    core.TextStyle // chapter text

	SectionSpacing float64 // points between title, description and contents
}

// DefaultStyles mirrors a plain book layout in the PDF core fonts.
func DefaultStyles() Styles {
	return Styles{
		Title:          core.TextStyle{Family: "Helvetica", Style: "B", Size: 18, LineHeight: 22, Align: "C"},
		Heading:        core.TextStyle{Family: "Helvetica", Style: "B", Size: 14, LineHeight: 17, Align: "L"},
		Normal:         core.TextStyle{Family: "Times", Size: 10, LineHeight: 12, Align: "L"},
		Body:           core.TextStyle{Family: "Times", Size: 10, LineHeight: 12, Align: "L"},
		SectionSpacing: 20,
	}
}
