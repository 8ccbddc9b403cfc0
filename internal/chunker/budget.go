package chunker

import (
	"strings"

	"github.com/prdpilot/prdpilot/internal/prd"
)

const (
	// ellipsisMarker signals a truncated tail chunk.
	ellipsisMarker = "..."
	// minPartialTokens is the smallest remaining budget worth a partial chunk.
	minPartialTokens = 3
	// minPartialChars is the smallest partial content worth keeping.
	minPartialChars = 10
)

// FitTokenBudget returns the longest prefix of chunks whose estimated token
// sum stays within maxTokens. The first chunk that would overflow may be
// truncated into a partial tail chunk — sliced to the remaining character
// budget, trimmed back to the last space when that space lies past the
// midpoint, and marked with an ellipsis. Processing always stops at the
// first overflow; later chunks are never backfilled.
func FitTokenBudget(chunks []prd.Chunk, maxTokens int) []prd.Chunk {
	if maxTokens <= 0 {
		return nil
	}

	var out []prd.Chunk
	used := 0
	for _, c := range chunks {
		tokens := EstimateTokens(c.Content)
		if used+tokens <= maxTokens {
			out = append(out, c)
			used += tokens
			continue
		}

		remaining := maxTokens - used
		if remaining >= minPartialTokens {
			if partial, ok := truncateToBudget(c, remaining); ok {
				out = append(out, partial)
			}
		}
		break
	}
	return out
}

// truncateToBudget slices a chunk's content down to a token budget,
// preferring a word boundary, and appends the ellipsis marker.
func truncateToBudget(c prd.Chunk, budgetTokens int) (prd.Chunk, bool) {
	charBudget := budgetTokens * 4
	if charBudget > len(c.Content) {
		charBudget = len(c.Content)
	}
	slice := c.Content[:charBudget]
	if idx := strings.LastIndexByte(slice, ' '); idx > len(slice)/2 {
		slice = slice[:idx]
	}
	slice = strings.TrimSpace(slice)
	if len(slice) < minPartialChars {
		return prd.Chunk{}, false
	}

	c.Content = slice + ellipsisMarker
	c.Metadata.Size = len(c.Content)
	return c, true
}
