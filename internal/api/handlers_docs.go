package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prdpilot/prdpilot/internal/assembly"
	"github.com/prdpilot/prdpilot/internal/report"
	"github.com/prdpilot/prdpilot/internal/store"
)

// handleListDocuments lists stored documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	docs, err := s.orchestrator.Store().ListDocuments(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleGetDocument returns one document with its parse result.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	st := s.orchestrator.Store()

	doc, err := st.GetDocument(r.Context(), docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	res, err := st.GetParseResult(r.Context(), docID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		jsonError(w, "failed to load parse result: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"document": doc,
		"result":   res,
	})
}

// handleDeleteDocument deletes a document and everything derived from it.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	err := s.orchestrator.Store().DeleteDocument(r.Context(), docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

// handleGetContexts returns a document's assembled contexts, optionally
// filtered by scope.
func (s *Server) handleGetContexts(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	contexts, err := s.orchestrator.Store().GetContexts(r.Context(), docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load contexts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if scope := r.URL.Query().Get("scope"); scope != "" {
		filtered := make([]assembly.Context, 0, len(contexts))
		for _, c := range contexts {
			if string(c.Scope) == scope {
				filtered = append(filtered, c)
			}
		}
		contexts = filtered
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"contexts": contexts})
}

// handleGetReport renders a document report as markdown or HTML.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	st := s.orchestrator.Store()
	ctx := r.Context()

	doc, err := st.GetDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	res, err := st.GetParseResult(ctx, docID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		jsonError(w, "failed to load parse result: "+err.Error(), http.StatusInternalServerError)
		return
	}

	contexts, err := st.GetContexts(ctx, docID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		jsonError(w, "failed to load contexts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	md := report.Render(doc.Title, res, contexts)

	if r.URL.Query().Get("format") == "html" {
		html, err := report.RenderHTML(md)
		if err != nil {
			jsonError(w, "failed to render html: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}
