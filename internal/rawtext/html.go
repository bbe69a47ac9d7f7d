package rawtext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlBlocks are the elements whose text becomes one raw line each.
const htmlBlocks = "p, li, h1, h2, h3, h4, h5, h6, dt, dd, td, th, pre, blockquote, caption"

// FromHTMLFile reads the block-level text of an HTML document.
func FromHTMLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening HTML file: %w", err)
	}
	defer f.Close()
	return FromHTML(f)
}

// FromHTML returns one line per block element, skipping blocks nested in
// another block so text is not repeated. Scripts and styles are dropped.
func FromHTML(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	doc.Find(htmlBlocks).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(htmlBlocks).Length() > 0 {
			return
		}
		s.Find("br").ReplaceWithHtml("\n")
		for _, line := range splitLines(s.Text()) {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	})
	return lines, nil
}
