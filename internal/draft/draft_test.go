package draft

import (
	"errors"
	"strings"
	"testing"

	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

func validDraft() *RuleDraft {
	return &RuleDraft{
		Name:     "CA wind eligibility",
		RuleType: types.RuleTypeEligibility,
		Logic: &rules.RuleLogic{
			Version: 1,
			If: rules.ConditionGroup{Op: rules.GroupAnd, Conditions: []rules.Node{
				rules.ConditionNode(rules.Condition{Field: "risk.state", Operator: rules.OpEquals, Value: "CA"}),
			}},
			Then: []rules.Action{{Type: rules.ActionBlock, Message: "Wind not written in CA"}},
		},
		Confidence: 85,
	}
}

func TestRuleDraft_Validate(t *testing.T) {
	if err := validDraft().Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestRuleDraft_ValidateGate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RuleDraft)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(d *RuleDraft) { d.Name = "" },
			wantErr: types.ErrMissingRuleName,
		},
		{
			name:    "whitespace name",
			mutate:  func(d *RuleDraft) { d.Name = "   " },
			wantErr: types.ErrMissingRuleName,
		},
		{
			name:    "nil logic",
			mutate:  func(d *RuleDraft) { d.Logic = nil },
			wantErr: types.ErrEmptyConditions,
		},
		{
			name:    "empty conditions",
			mutate:  func(d *RuleDraft) { d.Logic.If.Conditions = nil },
			wantErr: types.ErrEmptyConditions,
		},
		{
			name:    "empty then actions",
			mutate:  func(d *RuleDraft) { d.Logic.Then = nil },
			wantErr: types.ErrEmptyThenActions,
		},
		{
			name: "structural violation propagates",
			mutate: func(d *RuleDraft) {
				d.Logic.If.Conditions = []rules.Node{
					rules.ConditionNode(rules.Condition{Field: "x", Operator: "regex", Value: "y"}),
				}
			},
			wantErr: types.ErrUnknownOperator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			if err := d.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRuleDraft_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RuleDraft)
		check  func(*testing.T, *RuleDraft)
	}{
		{
			name:   "negative confidence clamps to zero",
			mutate: func(d *RuleDraft) { d.Confidence = -5 },
			check: func(t *testing.T, d *RuleDraft) {
				if d.Confidence != 0 {
					t.Errorf("Confidence = %d, want 0", d.Confidence)
				}
			},
		},
		{
			name:   "confidence above range clamps to 100",
			mutate: func(d *RuleDraft) { d.Confidence = 150 },
			check: func(t *testing.T, d *RuleDraft) {
				if d.Confidence != 100 {
					t.Errorf("Confidence = %d, want 100", d.Confidence)
				}
			},
		},
		{
			name:   "in-range confidence unchanged",
			mutate: func(d *RuleDraft) { d.Confidence = 85 },
			check: func(t *testing.T, d *RuleDraft) {
				if d.Confidence != 85 {
					t.Errorf("Confidence = %d, want 85", d.Confidence)
				}
			},
		},
		{
			name:   "zero priority gets the default",
			mutate: func(d *RuleDraft) { d.Priority = 0 },
			check: func(t *testing.T, d *RuleDraft) {
				if d.Priority != types.DefaultRulePriority {
					t.Errorf("Priority = %d, want %d", d.Priority, types.DefaultRulePriority)
				}
			},
		},
		{
			name:   "empty status becomes draft",
			mutate: func(d *RuleDraft) { d.Status = "" },
			check: func(t *testing.T, d *RuleDraft) {
				if d.Status != types.StatusDraft {
					t.Errorf("Status = %q, want draft", d.Status)
				}
			},
		},
		{
			name:   "overlong name truncates",
			mutate: func(d *RuleDraft) { d.Name = strings.Repeat("n", types.MaxRuleNameLength+50) },
			check: func(t *testing.T, d *RuleDraft) {
				if len(d.Name) != types.MaxRuleNameLength {
					t.Errorf("len(Name) = %d, want %d", len(d.Name), types.MaxRuleNameLength)
				}
			},
		},
		{
			name:   "overlong source text truncates",
			mutate: func(d *RuleDraft) { d.SourceText = strings.Repeat("s", types.MaxSourceTextLength+1) },
			check: func(t *testing.T, d *RuleDraft) {
				if len(d.SourceText) != types.MaxSourceTextLength {
					t.Errorf("len(SourceText) = %d, want %d", len(d.SourceText), types.MaxSourceTextLength)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			d.Normalize()
			tt.check(t, d)
		})
	}
}
