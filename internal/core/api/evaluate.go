package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haldane/riskgate/internal/core/metrics"
	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

type evaluateRequest struct {
	Logic   *rules.RuleLogic `json:"logic"`
	Context types.Context    `json:"context"`
}

type contextRequest struct {
	Context types.Context `json:"context"`
}

// handleEvaluateInline evaluates ad-hoc logic without persisting anything.
// Logic is validated first so authors get a structural error instead of a
// silent non-match while iterating in an editor.
func (s *RulesAPIService) handleEvaluateInline(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := rules.ValidateLogic(req.Logic); err != nil {
		s.metrics.RecordEvaluation(metrics.EvalInline, metrics.OutcomeError, time.Since(start))
		respondError(w, httpStatus(err), "invalid rule logic", err)
		return
	}

	result, err := rules.Evaluate(req.Logic, req.Context)
	if err != nil {
		s.metrics.RecordEvaluation(metrics.EvalInline, metrics.OutcomeError, time.Since(start))
		respondError(w, httpStatus(err), "evaluation failed", err)
		return
	}

	s.metrics.RecordEvaluation(metrics.EvalInline, evalOutcome(result), time.Since(start))
	respondJSON(w, http.StatusOK, result)
}

// handleEvaluateRule evaluates one stored rule's current logic.
func (s *RulesAPIService) handleEvaluateRule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ruleID := types.RuleID(chi.URLParam(r, "ruleID"))

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rule, err := s.store.GetRule(r.Context(), ruleID)
	if err != nil {
		respondError(w, httpStatus(err), "failed to load rule", err)
		return
	}

	result, err := rules.Evaluate(rule.Logic, req.Context)
	if err != nil {
		s.metrics.RecordEvaluation(metrics.EvalRule, metrics.OutcomeError, time.Since(start))
		respondError(w, httpStatus(err), "evaluation failed", err)
		return
	}

	s.metrics.RecordEvaluation(metrics.EvalRule, evalOutcome(result), time.Since(start))
	respondJSON(w, http.StatusOK, map[string]any{
		"ruleId":   rule.ID,
		"name":     rule.Name,
		"revision": rule.Revision,
		"result":   result,
	})
}

// handleEvaluateProduct evaluates every active rule of a product against
// one context and returns per-rule outcomes in priority order.
func (s *RulesAPIService) handleEvaluateProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID := types.ProductID(chi.URLParam(r, "productID"))

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	set, err := s.store.ActiveRuleSet(r.Context(), productID)
	if err != nil {
		respondError(w, httpStatus(err), "failed to load rule set", err)
		return
	}
	s.metrics.RecordRulesetSize(len(set))

	results, err := s.engine.EvaluateAll(r.Context(), set, req.Context)
	if err != nil {
		s.metrics.RecordEvaluation(metrics.EvalProduct, metrics.OutcomeError, time.Since(start))
		respondError(w, httpStatus(err), "evaluation failed", err)
		return
	}

	blocked := false
	matched := false
	for _, re := range results {
		blocked = blocked || re.Result.Blocked
		matched = matched || re.Result.Matched
	}

	outcome := metrics.OutcomeUnmatched
	switch {
	case blocked:
		outcome = metrics.OutcomeBlocked
	case matched:
		outcome = metrics.OutcomeMatched
	}
	s.metrics.RecordEvaluation(metrics.EvalProduct, outcome, time.Since(start))

	respondJSON(w, http.StatusOK, map[string]any{
		"productId":      productID,
		"ruleCount":      len(results),
		"blocked":        blocked,
		"results":        results,
		"evaluationTime": time.Since(start).String(),
	})
}

func evalOutcome(res rules.EvaluationResult) string {
	switch {
	case res.Blocked:
		return metrics.OutcomeBlocked
	case res.Matched:
		return metrics.OutcomeMatched
	default:
		return metrics.OutcomeUnmatched
	}
}
