package rawtext

import (
	"fmt"

	"code.sajari.com/docconv/v2"
)

// FromDocument converts an office document (.doc, .docx, .odt, .rtf) to
// text and returns its lines.
func FromDocument(path string) ([]string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, fmt.Errorf("converting document: %w", err)
	}
	return splitLines(res.Body), nil
}
