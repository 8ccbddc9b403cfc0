package tasktree

import (
	"strings"

	"github.com/prdpilot/prdpilot/internal/prd"
)

// summaryLimit bounds ContentSummary length.
const summaryLimit = 200

// Build converts the flat, level-tagged section sequence into a task tree.
//
// It keeps a stack of currently open ancestor nodes: each incoming section
// pops the stack while the top is at its own depth or deeper, then attaches
// under the new top (or becomes a root if the stack emptied). The strict >=
// pop makes an equal-level heading a sibling, never a child, and skipped
// depths (level 1 followed by level 4) still nest correctly because
// attachment follows level comparison, not contiguity.
func Build(sections []prd.Section) []*prd.TaskNode {
	var roots []*prd.TaskNode
	var stack []*prd.TaskNode

	for _, sec := range sections {
		node := &prd.TaskNode{
			ID:             sec.ID,
			TaskName:       sec.Title,
			Level:          sec.Level,
			ContentSummary: summarize(sec.Content),
			Entities:       sec.Entities,
			Status:         prd.TaskStatusPending,
			Dependencies:   []string{},
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.SubTasks = append(parent.SubTasks, node)
		} else {
			roots = append(roots, node)
		}
		stack = append(stack, node)
	}

	return roots
}

// summarize truncates content to summaryLimit characters, preferring a word
// boundary when one falls in the second half of the cut.
func summarize(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= summaryLimit {
		return content
	}
	cut := content[:summaryLimit]
	if idx := strings.LastIndexByte(cut, ' '); idx > summaryLimit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}
