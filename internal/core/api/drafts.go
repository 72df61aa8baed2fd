package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haldane/riskgate/internal/core/metrics"
	"github.com/haldane/riskgate/internal/draft"
	"github.com/haldane/riskgate/internal/types"
)

type createDraftRequest struct {
	Text           string       `json:"text"`
	ProductContext string       `json:"productContext,omitempty"`
	History        []draft.Turn `json:"history,omitempty"`
}

// handleCreateDraft turns natural-language guidance into a rule draft. The
// reply is either a draft or a clarification question; the client decides
// whether to persist via the rules endpoint.
func (s *RulesAPIService) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID := chi.URLParam(r, "productID")

	if s.gen == nil {
		respondError(w, httpStatus(types.ErrGeneratorUnavailable), "draft generation not configured", types.ErrGeneratorUnavailable)
		return
	}

	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	genReq := draft.Request{
		SourceText:     req.Text,
		ProductContext: req.ProductContext,
		History:        req.History,
	}
	if genReq.ProductContext == "" {
		genReq.ProductContext = productID
	}
	if err := genReq.Validate(); err != nil {
		respondError(w, httpStatus(err), "invalid draft request", err)
		return
	}

	result, err := s.gen.GenerateDraft(r.Context(), genReq)
	if err != nil {
		s.metrics.RecordDraft(metrics.DraftOutcomeError, time.Since(start))
		respondError(w, http.StatusBadGateway, "draft generation failed", err)
		return
	}

	outcome := metrics.DraftOutcomeDraft
	if result.NeedsMoreInfo {
		outcome = metrics.DraftOutcomeNeedsMoreInfo
	}
	s.metrics.RecordDraft(outcome, time.Since(start))

	respondJSON(w, http.StatusOK, result)
}
