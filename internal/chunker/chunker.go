// Package chunker splits text into bounded-size chunks and reduces chunk
// lists to fit downstream context limits.
package chunker

import (
	"strings"

	"github.com/prdpilot/prdpilot/internal/prd"
)

// DefaultSeparators is the ordered split preference: paragraph break, line
// break, sentence punctuation, clause punctuation, word break, and finally
// the empty string, which triggers the character-level fallback.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// Options controls chunking behavior.
type Options struct {
	ChunkSize     int      // Max chunk size in characters.
	ChunkOverlap  int      // Overlap prepended to each chunk after the first.
	Separators    []string // Ordered split preference; nil means DefaultSeparators.
	PreserveWords bool     // Adjust cut points to space boundaries where possible.
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		ChunkSize:     1000,
		ChunkOverlap:  100,
		PreserveWords: true,
	}
}

// Split breaks text into chunks no larger than opts.ChunkSize, preferring
// the earliest separator in the ordered list that produces a split, then
// injects up to opts.ChunkOverlap characters of trailing context from each
// chunk into the next one.
//
// Empty or whitespace-only text yields no chunks. Text that fits the size
// limit comes back as a single chunk, unless it spans multiple paragraphs:
// visually distinct paragraphs are never silently merged, even when small.
func Split(text string, opts Options) []prd.Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 0
	}
	if opts.ChunkOverlap >= opts.ChunkSize {
		// Overlap must stay below the chunk size or chunks stop advancing.
		opts.ChunkOverlap = opts.ChunkSize / 5
	}
	seps := opts.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	var pieces []string
	if len(text) <= opts.ChunkSize {
		paras := splitParagraphs(text)
		if len(paras) > 1 {
			pieces = paras
		} else {
			pieces = []string{text}
		}
	} else {
		pieces = splitWithSeparators(text, seps, 0, opts.ChunkSize, opts.PreserveWords)
	}

	chunks := assemble(text, pieces)
	applyOverlap(chunks, opts.ChunkOverlap, opts.PreserveWords)
	return chunks
}

// splitParagraphs splits on double-newlines, trimming and dropping blanks.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitWithSeparators splits text using the first separator at or after
// cursor that yields more than one part, greedily packing parts into
// size-bounded pieces. An oversized single part recurses with the narrower
// remainder of the list, so depth is bounded by the list length. The empty
// separator hands off to the character-level fallback.
func splitWithSeparators(text string, seps []string, cursor, size int, preserveWords bool) []string {
	sepIdx := -1
	for i := cursor; i < len(seps); i++ {
		if seps[i] == "" || strings.Contains(text, seps[i]) {
			sepIdx = i
			break
		}
	}
	if sepIdx == -1 || seps[sepIdx] == "" {
		return hardSplit(text, size, preserveWords)
	}

	// SplitAfter keeps the separator attached to the preceding part, so
	// accumulated buffers remain exact substrings of the input.
	parts := strings.SplitAfter(text, seps[sepIdx])

	var out []string
	var buf strings.Builder

	flush := func() {
		piece := strings.TrimSpace(buf.String())
		if piece != "" {
			out = append(out, piece)
		}
		buf.Reset()
	}

	for _, part := range parts {
		if part == "" {
			continue
		}
		if buf.Len()+len(part) > size && buf.Len() > 0 {
			flush()
		}
		if len(part) > size {
			flush()
			out = append(out, splitWithSeparators(part, seps, sepIdx+1, size, preserveWords)...)
			continue
		}
		buf.WriteString(part)
	}
	flush()

	return out
}

// hardSplit cuts text into size-length pieces with no separator help. When
// preserveWords is set it backs the cut up to the last space, as long as
// that space falls within the final 30% of the piece, and skips the leading
// whitespace of the next piece.
func hardSplit(text string, size int, preserveWords bool) []string {
	var out []string
	pos := 0
	for pos < len(text) {
		end := pos + size
		if end >= len(text) {
			if piece := text[pos:]; strings.TrimSpace(piece) != "" {
				out = append(out, piece)
			}
			break
		}
		cut := end
		if preserveWords {
			window := text[pos:end]
			if idx := strings.LastIndexByte(window, ' '); idx >= size*7/10 {
				cut = pos + idx
			}
		}
		if piece := text[pos:cut]; strings.TrimSpace(piece) != "" {
			out = append(out, piece)
		}
		pos = cut
		for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
			pos++
		}
	}
	return out
}

// assemble locates each piece in the original text and wraps it in a Chunk
// with pre-overlap positions and a dense 0-based index.
func assemble(text string, pieces []string) []prd.Chunk {
	chunks := make([]prd.Chunk, 0, len(pieces))
	searchFrom := 0
	for _, piece := range pieces {
		start := searchFrom
		if idx := strings.Index(text[searchFrom:], piece); idx >= 0 {
			start = searchFrom + idx
		}
		end := start + len(piece)
		chunks = append(chunks, prd.Chunk{
			Content: piece,
			Metadata: prd.ChunkMetadata{
				Index:         len(chunks),
				StartPosition: start,
				EndPosition:   end,
				Size:          len(piece),
			},
		})
		searchFrom = end
	}
	return chunks
}

// overlapBoundarySlack is how many characters of intended overlap may be
// sacrificed to start the overlap at a space boundary.
const overlapBoundarySlack = 10

// applyOverlap prepends up to overlap characters from the end of each
// chunk's predecessor. Positions keep referring to the pre-overlap text;
// Size reflects the final content.
func applyOverlap(chunks []prd.Chunk, overlap int, preserveWords bool) {
	if overlap <= 0 {
		return
	}
	prev := ""
	for i := range chunks {
		cur := chunks[i].Content
		if i > 0 {
			ov := prev
			if len(ov) > overlap {
				ov = ov[len(ov)-overlap:]
			}
			if preserveWords {
				if idx := strings.IndexByte(ov, ' '); idx >= 0 && idx < overlapBoundarySlack {
					ov = ov[idx+1:]
				}
			}
			ov = strings.TrimSpace(ov)
			if ov != "" {
				chunks[i].Content = ov + " " + cur
				chunks[i].Metadata.HasOverlap = true
				chunks[i].Metadata.Size = len(chunks[i].Content)
			}
		}
		prev = cur
	}
}
