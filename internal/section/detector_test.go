package section

import (
	"strings"
	"testing"
)

func TestDetect_BasicHeadings(t *testing.T) {
	input := "# Overview\n\nIntro text.\n\n## Goals\n\nGoal one.\nGoal two.\n\n## Scope\n\nIn scope.\n"
	sections := Detect(input)

	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	if sections[0].Title != "Overview" || sections[0].Level != 1 {
		t.Errorf("section 0: expected Overview/1, got %q/%d", sections[0].Title, sections[0].Level)
	}
	if !strings.Contains(sections[0].Content, "Intro text.") {
		t.Errorf("section 0 content: expected intro text, got %q", sections[0].Content)
	}
	if strings.Contains(sections[0].Content, "Goal one.") {
		t.Errorf("section 0 content leaked nested body: %q", sections[0].Content)
	}

	if sections[1].Title != "Goals" || sections[1].Level != 2 {
		t.Errorf("section 1: expected Goals/2, got %q/%d", sections[1].Title, sections[1].Level)
	}
	if sections[1].Content != "Goal one.\nGoal two." {
		t.Errorf("section 1 content: got %q", sections[1].Content)
	}
}

func TestDetect_PreambleDiscarded(t *testing.T) {
	input := "This prose comes before any heading.\n\n# First\n\nBody.\n"
	sections := Detect(input)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if strings.Contains(sections[0].Content, "before any heading") {
		t.Errorf("preamble should be discarded, got %q", sections[0].Content)
	}
}

func TestDetect_NoHeadings(t *testing.T) {
	sections := Detect("Just paragraphs.\n\nNo structure at all.")
	if len(sections) != 0 {
		t.Errorf("expected 0 sections for headingless text, got %d", len(sections))
	}
}

func TestDetect_EmptyAndWhitespace(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n"} {
		if got := Detect(input); len(got) != 0 {
			t.Errorf("input %q: expected 0 sections, got %d", input, len(got))
		}
	}
}

func TestDetect_HeadingLevels(t *testing.T) {
	input := "# a\n## b\n### c\n#### d\n##### e\n###### f\n"
	sections := Detect(input)
	if len(sections) != 6 {
		t.Fatalf("expected 6 sections, got %d", len(sections))
	}
	for i, s := range sections {
		if s.Level != i+1 {
			t.Errorf("section %d: expected level %d, got %d", i, i+1, s.Level)
		}
	}
}

func TestDetect_SevenHashesNotAHeading(t *testing.T) {
	sections := Detect("# Real\n####### not a heading\n")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if !strings.Contains(sections[0].Content, "####### not a heading") {
		t.Errorf("over-deep hash line should stay in body, got %q", sections[0].Content)
	}
}

func TestDetect_HashWithoutSpaceIsBody(t *testing.T) {
	sections := Detect("# Title\n#nospace\n")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Content != "#nospace" {
		t.Errorf("expected body %q, got %q", "#nospace", sections[0].Content)
	}
}

func TestDetect_StableIDs(t *testing.T) {
	sections := Detect("# One\n# Two\n# Three\n")
	want := []string{"sec-1", "sec-2", "sec-3"}
	for i, s := range sections {
		if s.ID != want[i] {
			t.Errorf("section %d: expected id %q, got %q", i, want[i], s.ID)
		}
	}
}

func TestDetect_CRLFLines(t *testing.T) {
	sections := Detect("# Title\r\nline one\r\nline two\r\n")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Content != "line one\nline two" {
		t.Errorf("expected CRLF-normalized body, got %q", sections[0].Content)
	}
}
