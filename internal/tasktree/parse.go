package tasktree

import (
	"github.com/prdpilot/prdpilot/internal/entity"
	"github.com/prdpilot/prdpilot/internal/prd"
	"github.com/prdpilot/prdpilot/internal/section"
)

// ParseDocument runs the full structuring pipeline over raw text: section
// detection, per-section entity extraction, and tree assembly, plus the
// aggregate counts the API exposes. It never fails; empty or headingless
// input produces an empty result.
func ParseDocument(text string) prd.ParseResult {
	res := prd.ParseResult{
		Sections:       []prd.Section{},
		Tasks:          []*prd.TaskNode{},
		LevelHistogram: map[int]int{},
	}

	sections := section.Detect(text)
	if len(sections) == 0 {
		return res
	}

	var totals prd.Entities
	for i := range sections {
		sections[i].Entities = entity.Extract(sections[i].Content)
		totals.Merge(sections[i].Entities)
		res.LevelHistogram[sections[i].Level]++
	}

	res.Sections = sections
	res.Tasks = Build(sections)

	count := 0
	for _, root := range res.Tasks {
		root.Walk(func(*prd.TaskNode) { count++ })
	}
	res.TotalTaskCount = count
	res.EntityTotals = prd.EntityTotals{
		Actors:   len(totals.Actors),
		Systems:  len(totals.Systems),
		Features: len(totals.Features),
	}

	return res
}
