package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/prdpilot/prdpilot/internal/prd"
)

func makeChunks(n int) []prd.Chunk {
	out := make([]prd.Chunk, n)
	for i := range out {
		out[i] = prd.Chunk{
			Content:  fmt.Sprintf("chunk %d content", i),
			Metadata: prd.ChunkMetadata{Index: i},
		}
	}
	return out
}

func TestSelect_UnderCapReturnsAll(t *testing.T) {
	chunks := makeChunks(3)
	for _, strategy := range []Strategy{StrategyFirst, StrategyDistributed, StrategyKeyword} {
		kept, meta := Select(chunks, 5, strategy, []string{"chunk"})
		if len(kept) != 3 {
			t.Errorf("strategy %s: expected all 3 chunks, got %d", strategy, len(kept))
		}
		if meta.CompressionRatio != 1 {
			t.Errorf("strategy %s: expected ratio 1, got %f", strategy, meta.CompressionRatio)
		}
	}
}

func TestSelect_First(t *testing.T) {
	kept, meta := Select(makeChunks(10), 4, StrategyFirst, nil)
	if len(kept) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(kept))
	}
	for i, c := range kept {
		if c.Metadata.Index != i {
			t.Errorf("position %d: expected original index %d, got %d", i, i, c.Metadata.Index)
		}
	}
	if meta.CompressionRatio != 0.4 {
		t.Errorf("expected ratio 0.4, got %f", meta.CompressionRatio)
	}
	if meta.ChunksCount != 4 {
		t.Errorf("expected count 4, got %d", meta.ChunksCount)
	}
}

func TestSelect_DistributedStride(t *testing.T) {
	kept, _ := Select(makeChunks(50), 5, StrategyDistributed, nil)
	want := []int{0, 10, 20, 30, 40}
	if len(kept) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(kept))
	}
	for i, c := range kept {
		if c.Metadata.Index != want[i] {
			t.Errorf("position %d: expected index %d, got %d", i, want[i], c.Metadata.Index)
		}
	}
}

func TestSelect_DistributedUnevenStride(t *testing.T) {
	kept, _ := Select(makeChunks(7), 3, StrategyDistributed, nil)
	// step = floor(7/3) = 2 -> indices 0, 2, 4
	want := []int{0, 2, 4}
	for i, c := range kept {
		if c.Metadata.Index != want[i] {
			t.Errorf("position %d: expected index %d, got %d", i, want[i], c.Metadata.Index)
		}
	}
}

func TestSelect_KeywordScoring(t *testing.T) {
	chunks := []prd.Chunk{
		{Content: "nothing relevant", Metadata: prd.ChunkMetadata{Index: 0}},
		{Content: "payment payment payment", Metadata: prd.ChunkMetadata{Index: 1}},
		{Content: "one payment mention", Metadata: prd.ChunkMetadata{Index: 2}},
		{Content: "still nothing", Metadata: prd.ChunkMetadata{Index: 3}},
		{Content: "payment and payment", Metadata: prd.ChunkMetadata{Index: 4}},
	}
	kept, _ := Select(chunks, 2, StrategyKeyword, []string{"payment"})
	if len(kept) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(kept))
	}
	// Top scores are index 1 (3 hits) and 4 (2 hits), returned in document order.
	if kept[0].Metadata.Index != 1 || kept[1].Metadata.Index != 4 {
		t.Errorf("expected indices [1 4], got [%d %d]", kept[0].Metadata.Index, kept[1].Metadata.Index)
	}
}

func TestSelect_KeywordCaseSensitive(t *testing.T) {
	chunks := []prd.Chunk{
		{Content: "Billing is capitalized", Metadata: prd.ChunkMetadata{Index: 0}},
		{Content: "billing is lowercase", Metadata: prd.ChunkMetadata{Index: 1}},
		{Content: "unrelated", Metadata: prd.ChunkMetadata{Index: 2}},
	}
	kept, _ := Select(chunks, 1, StrategyKeyword, []string{"billing"})
	if len(kept) != 1 || kept[0].Metadata.Index != 1 {
		t.Errorf("expected case-sensitive match on index 1, got %+v", kept)
	}
}

func TestSelect_KeywordTiesByIndex(t *testing.T) {
	chunks := []prd.Chunk{
		{Content: "api here", Metadata: prd.ChunkMetadata{Index: 0}},
		{Content: "api there", Metadata: prd.ChunkMetadata{Index: 1}},
		{Content: "api everywhere", Metadata: prd.ChunkMetadata{Index: 2}},
	}
	kept, _ := Select(chunks, 2, StrategyKeyword, []string{"api"})
	if kept[0].Metadata.Index != 0 || kept[1].Metadata.Index != 1 {
		t.Errorf("ties should keep earliest indices, got [%d %d]",
			kept[0].Metadata.Index, kept[1].Metadata.Index)
	}
}

func TestSelect_KeywordWithoutKeywordsFallsBackToFirst(t *testing.T) {
	kept, meta := Select(makeChunks(10), 3, StrategyKeyword, nil)
	for i, c := range kept {
		if c.Metadata.Index != i {
			t.Errorf("expected first-N fallback, got index %d at position %d", c.Metadata.Index, i)
		}
	}
	if meta.Strategy != string(StrategyFirst) {
		t.Errorf("metadata should record the fallback strategy, got %q", meta.Strategy)
	}
}

func TestSelect_UnknownStrategyFallsBackToFirst(t *testing.T) {
	kept, meta := Select(makeChunks(10), 2, Strategy("semantic"), nil)
	if len(kept) != 2 || kept[0].Metadata.Index != 0 || kept[1].Metadata.Index != 1 {
		t.Errorf("expected first-N fallback, got %+v", kept)
	}
	if meta.Strategy != string(StrategyFirst) {
		t.Errorf("metadata should record the fallback strategy, got %q", meta.Strategy)
	}
}

func TestSelect_OriginalLength(t *testing.T) {
	chunks := makeChunks(4)
	want := 0
	for _, c := range chunks {
		want += len(c.Content)
	}
	_, meta := Select(chunks, 2, StrategyFirst, nil)
	if meta.OriginalLength != want {
		t.Errorf("expected original length %d, got %d", want, meta.OriginalLength)
	}
}

func TestPolicy_Choose(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		scope     Scope
		count     int
		maxChunks int
		want      Strategy
	}{
		{ScopeGlobal, 4, 5, StrategyFirst},
		{ScopeGlobal, 7, 5, StrategyDistributed},
		{ScopeGlobal, 8, 5, StrategyDistributed},
		{ScopeGlobal, 9, 5, StrategyKeyword},
		{ScopeModule, 2, 3, StrategyFirst},
		{ScopeModule, 5, 3, StrategyFirst},
		{ScopeModule, 6, 3, StrategyFirst},
		{ScopeModule, 7, 3, StrategyKeyword},
	}
	for _, tt := range tests {
		got := p.Choose(tt.scope, tt.count, tt.maxChunks)
		if got != tt.want {
			t.Errorf("Choose(%s, %d, %d): expected %s, got %s",
				tt.scope, tt.count, tt.maxChunks, tt.want, got)
		}
	}
}

func TestPolicy_MaxChunks(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxChunks(ScopeGlobal) != 5 || p.MaxChunks(ScopeModule) != 3 {
		t.Errorf("unexpected caps: global=%d module=%d",
			p.MaxChunks(ScopeGlobal), p.MaxChunks(ScopeModule))
	}
}

func TestSelect_KeptChunksUnmodified(t *testing.T) {
	chunks := makeChunks(6)
	kept, _ := Select(chunks, 3, StrategyFirst, nil)
	for i, c := range kept {
		if !strings.HasPrefix(c.Content, fmt.Sprintf("chunk %d", i)) {
			t.Errorf("chunk content mutated: %q", c.Content)
		}
	}
}
