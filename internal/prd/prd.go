package prd

// Section is one heading-delimited slice of a document. Content holds the
// body below the heading, excluding any nested headings.
type Section struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Level    int      `json:"level"` // heading depth, 1..6
	Content  string   `json:"content"`
	Entities Entities `json:"entities"`
}

// Entities are keyword matches bucketed by category. Each slice is a
// deduplicated, insertion-ordered set.
type Entities struct {
	Actors   []string `json:"actors"`
	Systems  []string `json:"systems"`
	Features []string `json:"features"`
}

// Merge folds other into e, keeping first-seen order and dropping duplicates.
func (e *Entities) Merge(other Entities) {
	e.Actors = appendUnique(e.Actors, other.Actors)
	e.Systems = appendUnique(e.Systems, other.Systems)
	e.Features = appendUnique(e.Features, other.Features)
}

// Count returns the total number of entities across all buckets.
func (e Entities) Count() int {
	return len(e.Actors) + len(e.Systems) + len(e.Features)
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

// Task status values.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// TaskNode is a node in the hierarchical task tree built from the section
// sequence. Every direct child has a strictly greater level than its parent,
// and children appear in document order.
type TaskNode struct {
	ID             string      `json:"id"`
	TaskName       string      `json:"task_name"`
	Level          int         `json:"level"`
	ContentSummary string      `json:"content_summary"`
	Entities       Entities    `json:"entities"`
	SubTasks       []*TaskNode `json:"sub_tasks"`
	Status         string      `json:"status"`
	Dependencies   []string    `json:"dependencies"`
}

// Walk visits n and every descendant in document order.
func (n *TaskNode) Walk(fn func(*TaskNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.SubTasks {
		child.Walk(fn)
	}
}

// Chunk is a bounded-size slice of text with positional metadata.
type Chunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata describes where a chunk came from. StartPosition and
// EndPosition are offsets into the original text before overlap injection;
// Size is the length of the final (post-overlap) content.
type ChunkMetadata struct {
	Index         int  `json:"index"`
	StartPosition int  `json:"start_position"`
	EndPosition   int  `json:"end_position"`
	Size          int  `json:"size"`
	HasOverlap    bool `json:"has_overlap"`
}

// CompressionMetadata records the outcome of a chunk-selection pass.
// CompressionRatio is kept/total chunk count, not a byte ratio.
type CompressionMetadata struct {
	OriginalLength   int     `json:"original_length"`
	ChunksCount      int     `json:"chunks_count"`
	CompressionRatio float64 `json:"compression_ratio"`
	Strategy         string  `json:"strategy"`
}

// ParseResult is the full output of structuring one document.
type ParseResult struct {
	Sections       []Section    `json:"sections"`
	Tasks          []*TaskNode  `json:"task_tree"`
	TotalTaskCount int          `json:"total_task_count"`
	LevelHistogram map[int]int  `json:"level_histogram"`
	EntityTotals   EntityTotals `json:"entity_totals"`
}

// EntityTotals counts unique entities per bucket across the whole document.
type EntityTotals struct {
	Actors   int `json:"actors"`
	Systems  int `json:"systems"`
	Features int `json:"features"`
}

// CoerceText normalizes an arbitrary decoded JSON value to a string. Anything
// that is not a string (null, numbers, objects) becomes the empty string, so
// malformed input degrades to an empty parse result instead of an error.
func CoerceText(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
