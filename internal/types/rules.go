// internal/types/rules.go
package types

/*
 * Rule classification metadata.
 *
 * Provides the status lifecycle and type/category taxonomy attached to stored
 * rules and AI-generated drafts. The evaluation DSL itself (conditions,
 * actions, logic) lives in internal/rules; this package only carries the
 * wire-format-agnostic classification strings shared by draft, store, and API
 * layers.
 *
 * Dependencies: none (encoding/json only via types.go).
 */

// RuleStatus tracks the publication lifecycle of a stored rule.
// Only active rules participate in product-wide evaluation.
type RuleStatus string

const (
	StatusDraft    RuleStatus = "draft"
	StatusActive   RuleStatus = "active"
	StatusInactive RuleStatus = "inactive"
	StatusArchived RuleStatus = "archived"
)

// ValidRuleStatus reports whether s is a known lifecycle status.
func ValidRuleStatus(s RuleStatus) bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive, StatusArchived:
		return true
	default:
		return false
	}
}

// RuleType describes what a rule governs. Free-form values are accepted from
// drafts; these constants cover the classifications underwriting teams use.
type RuleType string

const (
	RuleTypeEligibility RuleType = "eligibility"
	RuleTypePricing     RuleType = "pricing"
	RuleTypeForms       RuleType = "forms"
	RuleTypeCoverage    RuleType = "coverage"
	RuleTypeCompliance  RuleType = "compliance"
)

// DefaultRulePriority is assigned when a draft carries no priority.
// Higher priority rules evaluate (and report) first in product-wide runs.
const DefaultRulePriority = 100
