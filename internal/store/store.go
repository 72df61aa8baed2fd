// Package store persists rules and their logic revisions.
//
// Rules live in two tables: a rules row carrying metadata and the current
// revision number, and append-only rule_revisions rows holding the logic JSON.
// updateRuleLogic appends a revision and moves the pointer; no revision row is
// ever rewritten. Named queries come from internal/core/db (dotsql), so the
// same store runs against SQLite and PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/haldane/riskgate/internal/core/db"
	"github.com/haldane/riskgate/internal/draft"
	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

// StoredRule is a persisted rule with its current logic revision.
type StoredRule struct {
	ID            types.RuleID     `json:"id"`
	ProductID     types.ProductID  `json:"productId"`
	Name          string           `json:"name"`
	RuleType      types.RuleType   `json:"ruleType,omitempty"`
	RuleCategory  string           `json:"ruleCategory,omitempty"`
	TargetID      string           `json:"targetId,omitempty"`
	Status        types.RuleStatus `json:"status"`
	Proprietary   bool             `json:"proprietary,omitempty"`
	Priority      int              `json:"priority"`
	Reference     string           `json:"reference,omitempty"`
	SourceText    string           `json:"sourceText,omitempty"`
	ConditionText string           `json:"conditionText,omitempty"`
	OutcomeText   string           `json:"outcomeText,omitempty"`
	Logic         *rules.RuleLogic `json:"logic"`
	Revision      int              `json:"revision"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// LogicRevision is one immutable entry in a rule's logic history. Logic is
// kept as raw JSON so the stored bytes surface unchanged.
type LogicRevision struct {
	RevisionID    types.RevisionID `json:"revisionId"`
	Revision      int              `json:"revision"`
	Logic         json.RawMessage  `json:"logic"`
	ConditionText string           `json:"conditionText,omitempty"`
	OutcomeText   string           `json:"outcomeText,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ruleRow mirrors the get-rule / list-rules-by-product column set.
type ruleRow struct {
	RuleID        string `db:"rule_id"`
	ProductID     string `db:"product_id"`
	Name          string `db:"name"`
	RuleType      string `db:"rule_type"`
	RuleCategory  string `db:"rule_category"`
	TargetID      string `db:"target_id"`
	Status        string `db:"status"`
	Proprietary   bool   `db:"proprietary"`
	Priority      int    `db:"priority"`
	Reference     string `db:"reference"`
	SourceText    string `db:"source_text"`
	ConditionText string `db:"condition_text"`
	OutcomeText   string `db:"outcome_text"`
	Revision      int    `db:"revision"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
	Logic         string `db:"logic"`
}

type revisionRow struct {
	RevisionID    string `db:"revision_id"`
	RuleID        string `db:"rule_id"`
	Revision      int    `db:"revision"`
	Logic         string `db:"logic"`
	ConditionText string `db:"condition_text"`
	OutcomeText   string `db:"outcome_text"`
	CreatedAt     string `db:"created_at"`
}

// Store persists rules over named queries and caches active rule sets
// per product.
type Store struct {
	db    *sqlx.DB
	q     *db.Queries
	cache *RuleCache
}

// New creates a Store. cacheTTL bounds staleness for rule sets cached by
// ActiveRuleSet; non-positive disables expiry (in-process writes still
// invalidate).
func New(database *sqlx.DB, queries *db.Queries, cacheTTL time.Duration) *Store {
	return &Store{
		db:    database,
		q:     queries,
		cache: NewRuleCache(cacheTTL),
	}
}

// SaveRule validates a draft and persists it as a new rule at revision 1.
// The draft is normalized first, so callers may pass AI output or API bodies
// directly. Invalid drafts never reach the database.
func (s *Store) SaveRule(ctx context.Context, productID types.ProductID, d draft.RuleDraft) (types.RuleID, error) {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return "", err
	}

	logicJSON, err := json.Marshal(d.Logic)
	if err != nil {
		return "", fmt.Errorf("encode rule logic: %w", err)
	}

	id := types.NewRuleID()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin save rule: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	insertRule, err := s.q.Raw("insert-rule")
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(insertRule),
		string(id), string(productID), d.Name, string(d.RuleType), d.RuleCategory,
		d.TargetID, string(d.Status), d.Proprietary, d.Priority, d.Reference,
		d.SourceText, d.ConditionText, d.OutcomeText, 1, now, now,
	); err != nil {
		return "", fmt.Errorf("insert rule: %w", err)
	}

	insertRevision, err := s.q.Raw("insert-rule-revision")
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(insertRevision),
		string(types.NewRevisionID()), string(id), 1, string(logicJSON),
		d.ConditionText, d.OutcomeText, now,
	); err != nil {
		return "", fmt.Errorf("insert rule revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save rule: %w", err)
	}

	s.cache.Invalidate(productID)
	log.Debug().Str("ruleId", string(id)).Str("productId", string(productID)).Msg("store: rule saved")
	return id, nil
}

// GetRule returns a rule with its current logic revision decoded.
func (s *Store) GetRule(ctx context.Context, ruleID types.RuleID) (*StoredRule, error) {
	var row ruleRow
	if err := s.q.Get(ctx, "get-rule", &row, string(ruleID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRuleNotFound
		}
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return row.toStored()
}

// ListRules returns every rule for a product ordered by priority, highest
// first. Rules whose stored logic no longer decodes are skipped rather than
// failing the whole listing.
func (s *Store) ListRules(ctx context.Context, productID types.ProductID) ([]StoredRule, error) {
	var rows []ruleRow
	if err := s.q.Select(ctx, "list-rules-by-product", &rows, string(productID)); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	out := make([]StoredRule, 0, len(rows))
	for _, row := range rows {
		sr, err := row.toStored()
		if err != nil {
			log.Warn().Str("ruleId", row.RuleID).Err(err).Msg("store: skipping rule with undecodable logic")
			continue
		}
		out = append(out, *sr)
	}
	return out, nil
}

// ActiveRuleSet returns a product's active rules as engine entries, ordered
// by priority. Results are cached per product; any write to one of the
// product's rules invalidates the cached set.
func (s *Store) ActiveRuleSet(ctx context.Context, productID types.ProductID) ([]rules.RuleSetEntry, error) {
	if entries, ok := s.cache.Get(productID); ok {
		return entries, nil
	}

	var rows []ruleRow
	if err := s.q.Select(ctx, "list-rules-by-product-status", &rows, string(productID), string(types.StatusActive)); err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}

	entries := make([]rules.RuleSetEntry, 0, len(rows))
	for _, row := range rows {
		var logic rules.RuleLogic
		if err := json.Unmarshal([]byte(row.Logic), &logic); err != nil {
			log.Warn().Str("ruleId", row.RuleID).Err(err).Msg("store: skipping rule with undecodable logic")
			continue
		}
		entries = append(entries, rules.RuleSetEntry{
			RuleID:   types.RuleID(row.RuleID),
			Name:     row.Name,
			Priority: row.Priority,
			Logic:    &logic,
		})
	}

	s.cache.Put(productID, entries)
	return entries, nil
}

// UpdateRuleLogic appends a new logic revision and makes it current.
// Returns the new revision number.
func (s *Store) UpdateRuleLogic(ctx context.Context, ruleID types.RuleID, logic *rules.RuleLogic, conditionText, outcomeText string) (int, error) {
	if err := rules.ValidateLogic(logic); err != nil {
		return 0, err
	}

	logicJSON, err := json.Marshal(logic)
	if err != nil {
		return 0, fmt.Errorf("encode rule logic: %w", err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin logic update: %w", err)
	}
	defer tx.Rollback()

	getRule, err := s.q.Raw("get-rule")
	if err != nil {
		return 0, err
	}
	var row ruleRow
	if err := tx.GetContext(ctx, &row, tx.Rebind(getRule), string(ruleID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, types.ErrRuleNotFound
		}
		return 0, fmt.Errorf("get rule: %w", err)
	}

	newRevision := row.Revision + 1
	now := time.Now().UTC().Format(time.RFC3339)

	// UNIQUE(rule_id, revision) turns two concurrent appends into one winner
	// and one constraint error.
	insertRevision, err := s.q.Raw("insert-rule-revision")
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(insertRevision),
		string(types.NewRevisionID()), string(ruleID), newRevision,
		string(logicJSON), conditionText, outcomeText, now,
	); err != nil {
		return 0, fmt.Errorf("insert rule revision: %w", err)
	}

	updateRule, err := s.q.Raw("update-rule-logic")
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(updateRule),
		newRevision, conditionText, outcomeText, now, string(ruleID),
	); err != nil {
		return 0, fmt.Errorf("update rule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit logic update: %w", err)
	}

	s.cache.Invalidate(types.ProductID(row.ProductID))
	log.Debug().Str("ruleId", string(ruleID)).Int("revision", newRevision).Msg("store: rule logic updated")
	return newRevision, nil
}

// SetRuleStatus moves a rule through its lifecycle. Only active rules
// participate in product-wide evaluation.
func (s *Store) SetRuleStatus(ctx context.Context, ruleID types.RuleID, status types.RuleStatus) error {
	if !types.ValidRuleStatus(status) {
		return types.ErrInvalidRuleStatus
	}

	rule, err := s.GetRule(ctx, ruleID)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.q.Exec(ctx, "update-rule-status", string(status), now, string(ruleID)); err != nil {
		return fmt.Errorf("update rule status: %w", err)
	}

	s.cache.Invalidate(rule.ProductID)
	log.Debug().Str("ruleId", string(ruleID)).Str("status", string(status)).Msg("store: rule status updated")
	return nil
}

// DeleteRule removes a rule and its entire revision history.
func (s *Store) DeleteRule(ctx context.Context, ruleID types.RuleID) error {
	rule, err := s.GetRule(ctx, ruleID)
	if err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin delete rule: %w", err)
	}
	defer tx.Rollback()

	deleteRevisions, err := s.q.Raw("delete-rule-revisions")
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(deleteRevisions), string(ruleID)); err != nil {
		return fmt.Errorf("delete rule revisions: %w", err)
	}

	deleteRule, err := s.q.Raw("delete-rule")
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(deleteRule), string(ruleID)); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete rule: %w", err)
	}

	s.cache.Invalidate(rule.ProductID)
	log.Debug().Str("ruleId", string(ruleID)).Msg("store: rule deleted")
	return nil
}

// Revisions returns a rule's full logic history, oldest first. Every stored
// rule has at least revision 1, so an empty history means no such rule.
func (s *Store) Revisions(ctx context.Context, ruleID types.RuleID) ([]LogicRevision, error) {
	var rows []revisionRow
	if err := s.q.Select(ctx, "list-rule-revisions", &rows, string(ruleID)); err != nil {
		return nil, fmt.Errorf("list rule revisions: %w", err)
	}
	if len(rows) == 0 {
		return nil, types.ErrRuleNotFound
	}

	out := make([]LogicRevision, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRevision())
	}
	return out, nil
}

// GetRevision returns one revision of a rule's logic history.
func (s *Store) GetRevision(ctx context.Context, ruleID types.RuleID, revision int) (*LogicRevision, error) {
	var row revisionRow
	if err := s.q.Get(ctx, "get-rule-revision", &row, string(ruleID), revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRevisionNotFound
		}
		return nil, fmt.Errorf("get rule revision: %w", err)
	}
	rev := row.toRevision()
	return &rev, nil
}

func (r ruleRow) toStored() (*StoredRule, error) {
	var logic rules.RuleLogic
	if err := json.Unmarshal([]byte(r.Logic), &logic); err != nil {
		return nil, fmt.Errorf("decode rule logic: %w", err)
	}

	return &StoredRule{
		ID:            types.RuleID(r.RuleID),
		ProductID:     types.ProductID(r.ProductID),
		Name:          r.Name,
		RuleType:      types.RuleType(r.RuleType),
		RuleCategory:  r.RuleCategory,
		TargetID:      r.TargetID,
		Status:        types.RuleStatus(r.Status),
		Proprietary:   r.Proprietary,
		Priority:      r.Priority,
		Reference:     r.Reference,
		SourceText:    r.SourceText,
		ConditionText: r.ConditionText,
		OutcomeText:   r.OutcomeText,
		Logic:         &logic,
		Revision:      r.Revision,
		CreatedAt:     parseTime(r.CreatedAt),
		UpdatedAt:     parseTime(r.UpdatedAt),
	}, nil
}

func (r revisionRow) toRevision() LogicRevision {
	return LogicRevision{
		RevisionID:    types.RevisionID(r.RevisionID),
		Revision:      r.Revision,
		Logic:         json.RawMessage(r.Logic),
		ConditionText: r.ConditionText,
		OutcomeText:   r.OutcomeText,
		CreatedAt:     parseTime(r.CreatedAt),
	}
}

// parseTime reads the RFC3339 strings this package writes. A zero time means
// the column was edited outside the store.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
