// Package api provides the HTTP handlers for the riskgate rules service.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/haldane/riskgate/internal/core/config"
	"github.com/haldane/riskgate/internal/core/metrics"
	"github.com/haldane/riskgate/internal/draft"
	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/store"
)

// RulesAPIService implements the HTTP rules API.
// Thin orchestration layer delegating to rules, draft, and store packages.
type RulesAPIService struct {
	db      *sqlx.DB
	store   *store.Store
	engine  *rules.Engine
	gen     draft.Generator
	cfg     *config.RulesAPIConfig
	metrics *metrics.Metrics
}

// NewRulesAPIService creates the service instance with dependencies.
// gen may be nil; draft endpoints then answer 503 until a generator is
// configured.
func NewRulesAPIService(db *sqlx.DB, st *store.Store, engine *rules.Engine, gen draft.Generator, cfg *config.RulesAPIConfig, m *metrics.Metrics) (*RulesAPIService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics cannot be nil")
	}

	return &RulesAPIService{
		db:      db,
		store:   st,
		engine:  engine,
		gen:     gen,
		cfg:     cfg,
		metrics: m,
	}, nil
}

// Routes builds the service router. Middleware (request IDs, timeouts,
// recovery) is applied by the server package around this router.
func (s *RulesAPIService) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluateInline)

		r.Route("/products/{productID}", func(r chi.Router) {
			r.Post("/evaluate", s.handleEvaluateProduct)
			r.Post("/rules", s.handleCreateRule)
			r.Get("/rules", s.handleListRules)
			r.Post("/drafts", s.handleCreateDraft)
		})

		r.Route("/rules/{ruleID}", func(r chi.Router) {
			r.Get("/", s.handleGetRule)
			r.Put("/logic", s.handleUpdateLogic)
			r.Post("/evaluate", s.handleEvaluateRule)
			r.Post("/status", s.handleSetStatus)
			r.Delete("/", s.handleDeleteRule)
			r.Get("/revisions", s.handleListRevisions)
		})
	})

	return r
}

// handleHealth reports liveness. A failing database ping is a 503 so load
// balancers rotate the instance out before requests start failing.
func (s *RulesAPIService) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
