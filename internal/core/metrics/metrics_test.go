package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordEvaluation(t *testing.T) {
	m := New()

	m.RecordEvaluation(EvalInline, OutcomeMatched, 50*time.Microsecond)
	m.RecordEvaluation(EvalInline, OutcomeMatched, 70*time.Microsecond)
	m.RecordEvaluation(EvalProduct, OutcomeBlocked, 2*time.Millisecond)

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues(EvalInline, OutcomeMatched)); got != 2 {
		t.Errorf("inline matched count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues(EvalProduct, OutcomeBlocked)); got != 1 {
		t.Errorf("product blocked count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues(EvalRule, OutcomeError)); got != 0 {
		t.Errorf("rule error count = %v, want 0", got)
	}
}

func TestMetrics_RecordDraft(t *testing.T) {
	m := New()

	m.RecordDraft(DraftOutcomeDraft, 1200*time.Millisecond)
	m.RecordDraft(DraftOutcomeNeedsMoreInfo, 900*time.Millisecond)

	if got := testutil.ToFloat64(m.draftsTotal.WithLabelValues(DraftOutcomeDraft)); got != 1 {
		t.Errorf("draft count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.draftsTotal.WithLabelValues(DraftOutcomeNeedsMoreInfo)); got != 1 {
		t.Errorf("needs_more_info count = %v, want 1", got)
	}
}

func TestMetrics_HandlerServesRegistry(t *testing.T) {
	m := New()
	m.RecordEvaluation(EvalRule, OutcomeUnmatched, time.Millisecond)
	m.RecordRulesetSize(12)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("scrape status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}

	for _, series := range []string{
		"riskgate_evaluations_total",
		"riskgate_evaluation_duration_seconds",
		"riskgate_ruleset_size",
	} {
		if !strings.Contains(string(body), series) {
			t.Errorf("scrape output missing %s", series)
		}
	}
}
