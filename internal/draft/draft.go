// internal/draft/draft.go

// Package draft turns free-text underwriting guidance into candidate rules.
//
// A RuleDraft is the unsaved output of the AI generation step: the rule
// metadata a product team reviews plus the machine-evaluable logic. Drafts
// pass a structural validation gate before persistence; natural-language
// quality (names, condition text) is advisory and never enforced here.
package draft

import (
	"strings"

	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

// RuleDraft is a candidate rule pending review and persistence. Logic is the
// only field the evaluator consumes; the remaining fields classify and
// document the rule for reviewers.
//
// NeedsMoreInfo and Message double as the conversational escape: a generator
// that cannot produce a rule yet returns those instead of Logic.
type RuleDraft struct {
	Name          string           `json:"name"`
	RuleType      types.RuleType   `json:"ruleType,omitempty"`
	RuleCategory  string           `json:"ruleCategory,omitempty"`
	TargetID      string           `json:"targetId,omitempty"`
	Status        types.RuleStatus `json:"status,omitempty"`
	Proprietary   bool             `json:"proprietary,omitempty"`
	Priority      int              `json:"priority,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	SourceText    string           `json:"sourceText,omitempty"`
	ConditionText string           `json:"conditionText,omitempty"`
	OutcomeText   string           `json:"outcomeText,omitempty"`
	Logic         *rules.RuleLogic `json:"logic,omitempty"`
	Confidence    int              `json:"confidence,omitempty"`
	NeedsMoreInfo bool             `json:"needsMoreInfo,omitempty"`
	Message       string           `json:"message,omitempty"`
}

// Validate is the pre-persistence gate. The three user-visible rejections
// (missing name, empty conditions, empty then actions) surface first with
// their own sentinels; structural limits on the logic follow.
func (d *RuleDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return types.ErrMissingRuleName
	}
	if d.Logic == nil || len(d.Logic.If.Conditions) == 0 {
		return types.ErrEmptyConditions
	}
	if len(d.Logic.Then) == 0 {
		return types.ErrEmptyThenActions
	}
	return rules.ValidateLogic(d.Logic)
}

// Normalize clamps generated fields into their domain ranges. Generators
// are probabilistic; out-of-range output is corrected rather than rejected.
func (d *RuleDraft) Normalize() {
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 100 {
		d.Confidence = 100
	}
	if d.Priority == 0 {
		d.Priority = types.DefaultRulePriority
	}
	if d.Status == "" {
		d.Status = types.StatusDraft
	}
	if len(d.Name) > types.MaxRuleNameLength {
		d.Name = d.Name[:types.MaxRuleNameLength]
	}
	if len(d.SourceText) > types.MaxSourceTextLength {
		d.SourceText = d.SourceText[:types.MaxSourceTextLength]
	}
}
