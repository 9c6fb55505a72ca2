// Package output handles file naming and writing for rendered stories.
// Files are written in place: there is no temp-file-and-rename step, so a
// failed write can leave a partial file behind.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Path returns where a file with the given base name and extension goes.
func (w *Writer) Path(name, ext string) string {
	return filepath.Join(w.OutputDir, FileName(name)+ext)
}

// Persist writes data to path.
func Persist(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	dashRun     = regexp.MustCompile(`-{2,}`)
)

// FileName turns a story title or id into a portable file name.
// Accents are folded to ASCII and anything else unsafe becomes a dash.
// An empty result falls back to "story".
func FileName(name string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	cleaned := unsafeChars.ReplaceAllString(strings.TrimSpace(folded), "-")
	cleaned = dashRun.ReplaceAllString(cleaned, "-")
	cleaned = strings.Trim(cleaned, "-.")
	if cleaned == "" {
		return "story"
	}
	return cleaned
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
