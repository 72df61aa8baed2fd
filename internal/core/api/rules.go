package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haldane/riskgate/internal/draft"
	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

// handleCreateRule persists a rule draft for a product. The store runs the
// validation gate; rejected drafts never touch the database.
func (s *RulesAPIService) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	productID := types.ProductID(chi.URLParam(r, "productID"))

	var d draft.RuleDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ruleID, err := s.store.SaveRule(r.Context(), productID, d)
	if err != nil {
		respondError(w, httpStatus(err), "failed to save rule", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"id": ruleID})
}

func (s *RulesAPIService) handleListRules(w http.ResponseWriter, r *http.Request) {
	productID := types.ProductID(chi.URLParam(r, "productID"))

	stored, err := s.store.ListRules(r.Context(), productID)
	if err != nil {
		respondError(w, httpStatus(err), "failed to list rules", err)
		return
	}

	// Optional status filter, e.g. ?status=active.
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := types.RuleStatus(raw)
		if !types.ValidRuleStatus(status) {
			respondError(w, http.StatusBadRequest, "unknown status filter", types.ErrInvalidRuleStatus)
			return
		}
		filtered := stored[:0]
		for _, sr := range stored {
			if sr.Status == status {
				filtered = append(filtered, sr)
			}
		}
		stored = filtered
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"productId": productID,
		"rules":     stored,
	})
}

func (s *RulesAPIService) handleGetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := types.RuleID(chi.URLParam(r, "ruleID"))

	rule, err := s.store.GetRule(r.Context(), ruleID)
	if err != nil {
		respondError(w, httpStatus(err), "failed to load rule", err)
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

type updateLogicRequest struct {
	Logic         *rules.RuleLogic `json:"logic"`
	ConditionText string           `json:"conditionText"`
	OutcomeText   string           `json:"outcomeText"`
}

// handleUpdateLogic appends a new logic revision. Prior revisions stay
// readable under /revisions.
func (s *RulesAPIService) handleUpdateLogic(w http.ResponseWriter, r *http.Request) {
	ruleID := types.RuleID(chi.URLParam(r, "ruleID"))

	var req updateLogicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	revision, err := s.store.UpdateRuleLogic(r.Context(), ruleID, req.Logic, req.ConditionText, req.OutcomeText)
	if err != nil {
		respondError(w, httpStatus(err), "failed to update rule logic", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":       ruleID,
		"revision": revision,
	})
}

type setStatusRequest struct {
	Status types.RuleStatus `json:"status"`
}

func (s *RulesAPIService) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ruleID := types.RuleID(chi.URLParam(r, "ruleID"))

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := s.store.SetRuleStatus(r.Context(), ruleID, req.Status); err != nil {
		respondError(w, httpStatus(err), "failed to update rule status", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":     ruleID,
		"status": req.Status,
	})
}

func (s *RulesAPIService) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ruleID := types.RuleID(chi.URLParam(r, "ruleID"))

	if err := s.store.DeleteRule(r.Context(), ruleID); err != nil {
		respondError(w, httpStatus(err), "failed to delete rule", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *RulesAPIService) handleListRevisions(w http.ResponseWriter, r *http.Request) {
	ruleID := types.RuleID(chi.URLParam(r, "ruleID"))

	revisions, err := s.store.Revisions(r.Context(), ruleID)
	if err != nil {
		respondError(w, httpStatus(err), "failed to list revisions", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":        ruleID,
		"revisions": revisions,
	})
}
