package core

import "fmt"

// TransportError reports a failure to reach the story site.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExtractionError reports that an expected page region or pattern was missing.
// It usually means the site changed its layout or served an error page.
type ExtractionError struct {
	Region string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.Region, e.Reason)
}

// RenderError reports that a renderer rejected a block or failed to produce output.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
