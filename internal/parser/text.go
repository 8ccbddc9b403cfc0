package parser

import (
	"io"
)

// TextParser handles plain text and markdown files. Markdown headings are
// already in the '#' form the section detector expects, so the content
// passes through unchanged.
type TextParser struct{}

func (p *TextParser) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
