// Package report renders a parsed document and its assembled contexts into
// a markdown artifact, optionally converted to HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/prdpilot/prdpilot/internal/assembly"
	"github.com/prdpilot/prdpilot/internal/chunker"
	"github.com/prdpilot/prdpilot/internal/prd"
)

// Render produces the markdown report for one document.
func Render(title string, res prd.ParseResult, contexts []assembly.Context) string {
	var sb strings.Builder

	sb.WriteString("# " + title + "\n\n")
	fmt.Fprintf(&sb, "%d tasks across %d sections.\n\n", res.TotalTaskCount, len(res.Sections))

	if res.EntityTotals != (prd.EntityTotals{}) {
		fmt.Fprintf(&sb, "Entities: %d actors, %d systems, %d features.\n\n",
			res.EntityTotals.Actors, res.EntityTotals.Systems, res.EntityTotals.Features)
	}

	if len(res.Tasks) > 0 {
		sb.WriteString("## Task tree\n\n")
		for _, root := range res.Tasks {
			writeTask(&sb, root, 0)
		}
		sb.WriteString("\n")
	}

	for _, ctx := range contexts {
		if ctx.Scope == chunker.ScopeGlobal {
			sb.WriteString("## Document context\n\n")
		} else {
			fmt.Fprintf(&sb, "## Context: %s\n\n", ctx.TaskName)
		}
		fmt.Fprintf(&sb, "Strategy %s, %d of %d chunks kept, ~%d tokens.\n\n",
			ctx.Metadata.Strategy, len(ctx.Chunks), countFromRatio(ctx.Metadata), ctx.Tokens)
		if ctx.Text != "" {
			sb.WriteString(ctx.Text)
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

func writeTask(sb *strings.Builder, n *prd.TaskNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s- **%s** (`%s`, level %d, %s)\n", indent, n.TaskName, n.ID, n.Level, n.Status)
	if n.ContentSummary != "" {
		fmt.Fprintf(sb, "%s  %s\n", indent, n.ContentSummary)
	}
	for _, child := range n.SubTasks {
		writeTask(sb, child, depth+1)
	}
}

// countFromRatio recovers the pre-selection chunk count from the metadata.
func countFromRatio(m prd.CompressionMetadata) int {
	if m.CompressionRatio <= 0 {
		return m.ChunksCount
	}
	return int(float64(m.ChunksCount)/m.CompressionRatio + 0.5)
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
