// Package rawtext extracts the ordered raw text lines of a document.
package rawtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for file types with no extractor.
var ErrUnsupported = errors.New("unsupported document type")

// MaxLineCapacity is the longest line accepted from plain-text input.
const MaxLineCapacity = 1024 * 1024

// Extensions lists the document types Lines understands.
var Extensions = []string{".pdf", ".txt", ".text", ".raw", ".html", ".htm", ".xhtml", ".doc", ".docx", ".odt", ".rtf"}

// Lines returns the raw lines of the document at path, picking the
// extractor from the file extension.
func Lines(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FromPDF(path)
	case ".txt", ".text", ".raw":
		return FromTextFile(path)
	case ".html", ".htm", ".xhtml":
		return FromHTMLFile(path)
	case ".doc", ".docx", ".odt", ".rtf":
		return FromDocument(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// Supported reports whether Lines can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// FromTextFile reads a plain-text file, one raw line per text line.
func FromTextFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text file: %w", err)
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader reads raw lines from r. Line terminators are dropped.
func FromReader(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

// splitLines splits extracted text on any line terminator.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
