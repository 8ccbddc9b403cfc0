package section

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prdpilot/prdpilot/internal/prd"
)

// headingPattern matches ATX-style markdown headings: 1-6 '#' characters,
// whitespace, then the title text.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Detect scans raw text line by line and slices it into heading-delimited
// sections. Lines before the first heading are discarded; a document with no
// headings yields zero sections. Detect never fails — empty or all-whitespace
// input returns nil.
func Detect(text string) []prd.Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sections []prd.Section
	var body strings.Builder
	open := false
	var current prd.Section

	flush := func() {
		if !open {
			return
		}
		current.Content = strings.TrimSpace(body.String())
		sections = append(sections, current)
		body.Reset()
		open = false
	}

	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = prd.Section{
				ID:    fmt.Sprintf("sec-%d", len(sections)+1),
				Title: strings.TrimSpace(m[2]),
				Level: len(m[1]),
			}
			open = true
			continue
		}
		if open {
			if body.Len() > 0 {
				body.WriteByte('\n')
			}
			body.WriteString(line)
		}
	}
	flush()

	return sections
}
