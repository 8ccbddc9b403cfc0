package chunker

import (
	"strings"
	"testing"

	"github.com/prdpilot/prdpilot/internal/prd"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"abcdefgh", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%d chars): expected %d, got %d", len(tt.text), tt.want, got)
		}
	}
}

func budgetChunks(contents ...string) []prd.Chunk {
	out := make([]prd.Chunk, len(contents))
	for i, c := range contents {
		out[i] = prd.Chunk{Content: c, Metadata: prd.ChunkMetadata{Index: i, Size: len(c)}}
	}
	return out
}

func TestFitTokenBudget_AllFit(t *testing.T) {
	chunks := budgetChunks(strings.Repeat("a", 40), strings.Repeat("b", 40))
	got := FitTokenBudget(chunks, 100)
	if len(got) != 2 {
		t.Fatalf("expected both chunks, got %d", len(got))
	}
	if got[0].Content != chunks[0].Content || got[1].Content != chunks[1].Content {
		t.Error("contents should pass through unchanged")
	}
}

func TestFitTokenBudget_StopsAtOverflow(t *testing.T) {
	// 25 tokens, 25 tokens, then a chunk that cannot fit at all.
	chunks := budgetChunks(
		strings.Repeat("a", 100),
		strings.Repeat("b", 100),
		strings.Repeat("c", 100),
		strings.Repeat("d", 8), // would fit, but no backfill after overflow
	)
	got := FitTokenBudget(chunks, 52)
	if len(got) < 2 {
		t.Fatalf("expected at least the first two chunks, got %d", len(got))
	}
	for _, c := range got {
		if strings.HasPrefix(c.Content, "d") {
			t.Error("chunks after the first overflow must not be backfilled")
		}
	}
}

func TestFitTokenBudget_PartialTail(t *testing.T) {
	chunks := budgetChunks(
		strings.Repeat("a", 40), // 10 tokens
		"some words that will be cut somewhere in the middle of this sentence",
	)
	got := FitTokenBudget(chunks, 20) // 10 tokens left -> 40 chars for the tail
	if len(got) != 2 {
		t.Fatalf("expected a partial tail chunk, got %d chunks", len(got))
	}
	tail := got[1]
	if !strings.HasSuffix(tail.Content, ellipsisMarker) {
		t.Errorf("partial chunk should end with ellipsis, got %q", tail.Content)
	}
	body := strings.TrimSuffix(tail.Content, ellipsisMarker)
	if len(body) > 40 {
		t.Errorf("partial chunk body too long: %d chars", len(body))
	}
	if strings.HasSuffix(body, " ") {
		t.Errorf("partial body should be trimmed, got %q", body)
	}
	if tail.Metadata.Size != len(tail.Content) {
		t.Errorf("size %d should track truncated content %d", tail.Metadata.Size, len(tail.Content))
	}
}

func TestFitTokenBudget_PartialCutsAtWordBoundary(t *testing.T) {
	chunks := budgetChunks(
		"alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima",
	)
	got := FitTokenBudget(chunks, 10) // 40-char budget
	if len(got) != 1 {
		t.Fatalf("expected 1 partial chunk, got %d", len(got))
	}
	body := strings.TrimSuffix(got[0].Content, ellipsisMarker)
	// The 40-char slice lands inside "golf"; trimming to the last space
	// keeps whole words only.
	if body != "alpha bravo charlie delta echo foxtrot" {
		t.Errorf("expected word-boundary cut, got %q", body)
	}
}

func TestFitTokenBudget_TinyRemainderSkipsPartial(t *testing.T) {
	chunks := budgetChunks(
		strings.Repeat("a", 40), // exactly 10 tokens
		strings.Repeat("b", 100),
	)
	// 2 tokens of slack: below the 3-token minimum for a partial chunk.
	got := FitTokenBudget(chunks, 12)
	if len(got) != 1 {
		t.Fatalf("expected tiny remainder to be skipped, got %d chunks", len(got))
	}
}

func TestFitTokenBudget_NeverExceedsBudget(t *testing.T) {
	chunks := budgetChunks(
		strings.Repeat("word ", 30),
		strings.Repeat("more ", 30),
		strings.Repeat("text ", 30),
	)
	for _, budget := range []int{10, 25, 40, 75, 120} {
		got := FitTokenBudget(chunks, budget)
		sum := 0
		for _, c := range got {
			sum += EstimateTokens(c.Content)
		}
		// Allow the rounding slack of one partial chunk (its ellipsis).
		if sum > budget+1 {
			t.Errorf("budget %d: kept %d tokens", budget, sum)
		}
	}
}

func TestFitTokenBudget_DegenerateInputs(t *testing.T) {
	if got := FitTokenBudget(nil, 100); len(got) != 0 {
		t.Errorf("nil chunks: expected empty result, got %d", len(got))
	}
	if got := FitTokenBudget(budgetChunks("content"), 0); len(got) != 0 {
		t.Errorf("zero budget: expected empty result, got %d", len(got))
	}
	if got := FitTokenBudget(budgetChunks("content"), -5); len(got) != 0 {
		t.Errorf("negative budget: expected empty result, got %d", len(got))
	}
}
