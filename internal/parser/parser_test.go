package parser

import (
	"strings"
	"testing"
)

func TestForFile_Routing(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
	}{
		{"doc.md", "*parser.TextParser"},
		{"doc.markdown", "*parser.TextParser"},
		{"doc.txt", "*parser.TextParser"},
		{"doc.html", "*parser.HTMLParser"},
		{"doc.HTM", "*parser.HTMLParser"},
		{"doc.pdf", "*parser.PDFParser"},
		{"doc.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.filename, err)
			continue
		}
		if got := typeName(p); got != tt.wantType {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.wantType, got)
		}
	}

	if _, err := ForFile("doc.exe"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TextParser:
		return "*parser.TextParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *PDFParser:
		return "*parser.PDFParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	}
	return "unknown"
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("notes.md") || !IsSupportedExtension("PLAN.DOCX") {
		t.Error("expected supported extensions to be accepted")
	}
	if IsSupportedExtension("image.png") || IsSupportedExtension("noext") {
		t.Error("expected unsupported extensions to be rejected")
	}
}

func TestTextParser_Passthrough(t *testing.T) {
	input := "# Title\n\nBody text.\n"
	p := &TextParser{}
	got, err := p.Extract(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestHTMLParser_HeadingsToHashes(t *testing.T) {
	input := `<html><head><title>t</title><style>p{}</style></head><body>
<h1>Overview</h1>
<p>Intro paragraph.</p>
<h2>Goals</h2>
<p>First goal.</p>
<ul><li>item one</li><li>item two</li></ul>
<script>ignore();</script>
</body></html>`

	p := &HTMLParser{}
	got, err := p.Extract(strings.NewReader(input), "doc.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "# Overview") {
		t.Errorf("expected h1 as '# Overview', got %q", got)
	}
	if !strings.Contains(got, "## Goals") {
		t.Errorf("expected h2 as '## Goals', got %q", got)
	}
	if !strings.Contains(got, "Intro paragraph.") || !strings.Contains(got, "item one") {
		t.Errorf("expected block content preserved, got %q", got)
	}
	if strings.Contains(got, "ignore()") || strings.Contains(got, "p{}") {
		t.Errorf("script/style content leaked: %q", got)
	}

	// Heading must precede its body in the output.
	if strings.Index(got, "# Overview") > strings.Index(got, "Intro paragraph.") {
		t.Error("heading/body order lost")
	}
}

func TestHTMLParser_DeepHeadings(t *testing.T) {
	input := "<body><h3>Deep</h3><p>text</p><h6>Deepest</h6></body>"
	p := &HTMLParser{}
	got, err := p.Extract(strings.NewReader(input), "doc.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "### Deep") {
		t.Errorf("expected '### Deep', got %q", got)
	}
	if !strings.Contains(got, "###### Deepest") {
		t.Errorf("expected '###### Deepest', got %q", got)
	}
}
