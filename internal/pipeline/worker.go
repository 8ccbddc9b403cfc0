package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prdpilot/prdpilot/internal/assembly"
	"github.com/prdpilot/prdpilot/internal/chunker"
	"github.com/prdpilot/prdpilot/internal/parser"
	"github.com/prdpilot/prdpilot/internal/prd"
	"github.com/prdpilot/prdpilot/internal/store"
	"github.com/prdpilot/prdpilot/internal/tasktree"
)

// Worker processes a single document job.
type Worker struct {
	store       *store.Store
	log         *slog.Logger
	builder     *assembly.Builder
	pdfFallback bool
}

func NewWorker(st *store.Store, log *slog.Logger, opts chunker.Options, policy chunker.Policy, maxTokens int, pdfFallback bool) *Worker {
	return &Worker{
		store:       st,
		log:         log,
		builder:     assembly.New(opts, policy, maxTokens),
		pdfFallback: pdfFallback,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	text, err := p.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("no extractable content")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Compute content hash from the extracted text.
	hash := ContentHashHex([]byte(text))
	job.SetContentHash(hash)

	// Phase 1.5: Dedup check
	existingID, err := w.store.FindByHash(ctx, hash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingID != "" {
		log.Info("duplicate document, skipping", "existing_doc_id", existingID)
		job.SetDocID(existingID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Structure
	job.SetStatus(StatusStructuring, "structuring")
	res := tasktree.ParseDocument(text)
	job.SetStructure(len(res.Sections), res.TotalTaskCount)
	log.Info("structured document", "sections", len(res.Sections), "tasks", res.TotalTaskCount)

	// Phase 3: Assemble contexts
	job.SetStatus(StatusAssembling, "assembling")
	contexts := w.builder.BuildAll(text, res)
	job.SetContextsBuilt(len(contexts))
	log.Info("assembled contexts", "contexts", len(contexts))

	// Phase 4: Store
	job.SetStatus(StatusStoring, "storing")
	title := job.Title
	if title == "" {
		title = deriveTitle(res, job.Filename)
	}
	doc := store.Document{
		DocID:       job.DocID,
		Title:       title,
		Filename:    job.Filename,
		ContentHash: hash,
		CreatedAt:   job.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if err := w.store.SaveDocument(ctx, doc, text, res, contexts); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	log.Info("document processed", "title", title, "contexts", len(contexts))
	job.SetStatus(StatusCompleted, "done")
}

// deriveTitle picks a display title: first root task name, else the filename.
func deriveTitle(res prd.ParseResult, filename string) string {
	if len(res.Tasks) > 0 && res.Tasks[0].TaskName != "" {
		return res.Tasks[0].TaskName
	}
	return filename
}
