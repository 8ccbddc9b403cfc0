// Package assembly feeds document text and task summaries through the
// chunk → select → budget chain and concatenates the survivors into
// injection-ready context excerpts.
package assembly

import (
	"strings"

	"github.com/prdpilot/prdpilot/internal/chunker"
	"github.com/prdpilot/prdpilot/internal/prd"
)

// Builder assembles bounded context excerpts from a parsed document.
type Builder struct {
	chunkOpts chunker.Options
	policy    chunker.Policy
	maxTokens int
}

// New creates a Builder. Zero-value options fall back to the chunker and
// policy defaults.
func New(opts chunker.Options, policy chunker.Policy, maxTokens int) *Builder {
	if opts.ChunkSize <= 0 {
		opts = chunker.DefaultOptions()
	}
	if policy == (chunker.Policy{}) {
		policy = chunker.DefaultPolicy()
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &Builder{chunkOpts: opts, policy: policy, maxTokens: maxTokens}
}

// Context is one assembled excerpt set, ready for prompt injection.
type Context struct {
	Scope    chunker.Scope           `json:"scope"`
	TaskID   string                  `json:"task_id,omitempty"`
	TaskName string                  `json:"task_name,omitempty"`
	Chunks   []prd.Chunk             `json:"chunks"`
	Metadata prd.CompressionMetadata `json:"metadata"`
	Tokens   int                     `json:"tokens"`
	Text     string                  `json:"text"`
}

// BuildGlobal compresses the whole document text into one excerpt set.
// Keywords bias the keyword-based strategy when the policy selects it;
// entity matches from parsing are the usual source.
func (b *Builder) BuildGlobal(text string, keywords []string) Context {
	ctx := b.build(chunker.ScopeGlobal, text, keywords)
	return ctx
}

// BuildModule compresses a single task's content summary.
func (b *Builder) BuildModule(task *prd.TaskNode) Context {
	ctx := b.build(chunker.ScopeModule, task.ContentSummary, flattenEntities(task.Entities))
	ctx.TaskID = task.ID
	ctx.TaskName = task.TaskName
	return ctx
}

// BuildAll returns the global context followed by one module context per
// task, in document order. Tasks with empty summaries are skipped.
func (b *Builder) BuildAll(text string, res prd.ParseResult) []Context {
	var docEntities prd.Entities
	for _, s := range res.Sections {
		docEntities.Merge(s.Entities)
	}

	out := []Context{b.BuildGlobal(text, flattenEntities(docEntities))}
	for _, root := range res.Tasks {
		root.Walk(func(n *prd.TaskNode) {
			if strings.TrimSpace(n.ContentSummary) == "" {
				return
			}
			out = append(out, b.BuildModule(n))
		})
	}
	return out
}

func (b *Builder) build(scope chunker.Scope, text string, keywords []string) Context {
	chunks := chunker.Split(text, b.chunkOpts)
	maxChunks := b.policy.MaxChunks(scope)
	strategy := b.policy.Choose(scope, len(chunks), maxChunks)
	kept, meta := chunker.Select(chunks, maxChunks, strategy, keywords)
	fitted := chunker.FitTokenBudget(kept, b.maxTokens)

	tokens := 0
	parts := make([]string, 0, len(fitted))
	for _, c := range fitted {
		tokens += chunker.EstimateTokens(c.Content)
		parts = append(parts, c.Content)
	}

	return Context{
		Scope:    scope,
		Chunks:   fitted,
		Metadata: meta,
		Tokens:   tokens,
		Text:     strings.Join(parts, "\n\n"),
	}
}

func flattenEntities(e prd.Entities) []string {
	out := make([]string, 0, e.Count())
	out = append(out, e.Actors...)
	out = append(out, e.Systems...)
	out = append(out, e.Features...)
	return out
}
