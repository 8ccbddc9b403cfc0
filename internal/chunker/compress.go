package chunker

import (
	"sort"
	"strings"

	"github.com/prdpilot/prdpilot/internal/prd"
)

// Strategy names a chunk-selection policy.
type Strategy string

const (
	// StrategyFirst keeps the first N chunks. Cheapest; assumes early
	// content is the most load-bearing. Also the fallback for every other
	// strategy on invalid input.
	StrategyFirst Strategy = "first"
	// StrategyDistributed samples chunks evenly across the whole list.
	StrategyDistributed Strategy = "distributed"
	// StrategyKeyword keeps the chunks with the most keyword occurrences.
	StrategyKeyword Strategy = "keyword-based"
)

// Select reduces chunks to at most maxChunks using the given strategy and
// reports what it did. When the list already fits the cap it is returned
// unchanged regardless of strategy. Selected chunks keep their original
// metadata, so Metadata.Index still names the source position.
func Select(chunks []prd.Chunk, maxChunks int, strategy Strategy, keywords []string) ([]prd.Chunk, prd.CompressionMetadata) {
	meta := prd.CompressionMetadata{
		OriginalLength:   totalLength(chunks),
		Strategy:         string(strategy),
		CompressionRatio: 1,
	}

	if maxChunks <= 0 || len(chunks) <= maxChunks {
		meta.ChunksCount = len(chunks)
		return chunks, meta
	}

	var kept []prd.Chunk
	switch strategy {
	case StrategyDistributed:
		kept = selectDistributed(chunks, maxChunks)
	case StrategyKeyword:
		if len(keywords) == 0 {
			kept = chunks[:maxChunks]
			meta.Strategy = string(StrategyFirst)
		} else {
			kept = selectByKeywords(chunks, maxChunks, keywords)
		}
	case StrategyFirst:
		kept = chunks[:maxChunks]
	default:
		kept = chunks[:maxChunks]
		meta.Strategy = string(StrategyFirst)
	}

	meta.ChunksCount = len(kept)
	meta.CompressionRatio = float64(len(kept)) / float64(len(chunks))
	return kept, meta
}

// selectDistributed picks chunks at a fixed stride so the kept set covers
// start, middle, and end instead of over-weighting the beginning.
func selectDistributed(chunks []prd.Chunk, maxChunks int) []prd.Chunk {
	step := len(chunks) / maxChunks
	kept := make([]prd.Chunk, 0, maxChunks)
	for i := 0; i < maxChunks; i++ {
		idx := i * step
		if idx >= len(chunks) {
			break
		}
		kept = append(kept, chunks[idx])
	}
	return kept
}

// selectByKeywords scores each chunk by summed case-sensitive substring
// occurrences of the keywords, keeps the top maxChunks (ties broken by
// original index), and returns them in document order.
func selectByKeywords(chunks []prd.Chunk, maxChunks int, keywords []string) []prd.Chunk {
	type scored struct {
		idx   int
		score int
	}
	scores := make([]scored, len(chunks))
	for i, c := range chunks {
		s := 0
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			s += strings.Count(c.Content, kw)
		}
		scores[i] = scored{idx: i, score: s}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		if scores[a].score != scores[b].score {
			return scores[a].score > scores[b].score
		}
		return scores[a].idx < scores[b].idx
	})

	top := scores[:maxChunks]
	sort.Slice(top, func(a, b int) bool { return top[a].idx < top[b].idx })

	kept := make([]prd.Chunk, 0, maxChunks)
	for _, s := range top {
		kept = append(kept, chunks[s.idx])
	}
	return kept
}

func totalLength(chunks []prd.Chunk) int {
	n := 0
	for _, c := range chunks {
		n += len(c.Content)
	}
	return n
}
