package rawtext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// FromPDF returns the plain-text lines of every page of a PDF, in page
// order. Pages whose text cannot be decoded are skipped.
func FromPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		lines = append(lines, splitLines(text)...)
	}
	return lines, nil
}
