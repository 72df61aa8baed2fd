// internal/rules/evaluate.go
package rules

import (
	"encoding/json"

	"github.com/haldane/riskgate/internal/types"
)

/*
 * Rule evaluation orchestration.
 *
 * Evaluates RuleLogic against a JSON evaluation context and produces the
 * full diagnostic result: per-condition outcomes, selected branch actions,
 * accumulated messages, the block flag, and the context delta.
 *
 * Evaluation flow:
 *   1. Context gate (size limit, JSON parse) - the only error paths
 *   2. Recursive group evaluation with AND/OR short-circuit
 *   3. Per-condition: resolve path -> coerce hint -> compare operator
 *   4. Branch selection (then on match, else otherwise)
 *   5. Single-pass action application in declaration order
 *
 * Short-circuit semantics: An AND group stops at the first false child, an
 * OR group at the first true child. Conditions skipped by short-circuit do
 * not appear in ConditionResults, so the diagnostics read as a trace of
 * what was actually checked. Nested groups contribute one boolean to their
 * parent and their condition results flatten into the parent's list in
 * evaluation order.
 *
 * The evaluator is stateless and never mutates the context. ContextDelta
 * reports the field changes the matched actions imply; applying them is
 * the caller's concern.
 */

// ConditionResult is the diagnostic outcome of one condition check.
// ActualValue is the resolved context value, ExpectedValue the condition
// value after coercion, both as compared.
type ConditionResult struct {
	Condition     Condition `json:"condition"`
	Matched       bool      `json:"matched"`
	ActualValue   any       `json:"actualValue"`
	ExpectedValue any       `json:"expectedValue"`
}

// Message is a human-readable evaluation outcome with a severity.
type Message struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// FieldChange is one entry of the context delta: the field assignment a
// value-bearing action implies.
type FieldChange struct {
	Target   string        `json:"target"`
	Operator ValueOperator `json:"operator"`
	Value    any           `json:"value"`
}

// EvaluationResult is the complete outcome of evaluating one rule.
// Slices are always non-nil so the JSON form carries [] rather than null.
type EvaluationResult struct {
	Matched           bool              `json:"matched"`
	ConditionResults  []ConditionResult `json:"conditionResults"`
	ApplicableActions []Action          `json:"applicableActions"`
	Messages          []Message         `json:"messages"`
	Blocked           bool              `json:"blocked"`
	ContextDelta      []FieldChange     `json:"contextDelta"`
}

// Evaluate runs logic against the JSON evaluation context. The only error
// paths are an oversized or malformed context; rule content never errors,
// it degrades to unmatched conditions.
func Evaluate(logic *RuleLogic, evalCtx types.Context) (EvaluationResult, error) {
	if logic == nil {
		return emptyResult(), types.ErrNilRuleLogic
	}
	data, err := ParseContext(evalCtx)
	if err != nil {
		return emptyResult(), err
	}
	return evaluateParsed(logic, data), nil
}

// ParseContext gates and unmarshals an evaluation context. An empty or
// null context parses to an empty object.
func ParseContext(evalCtx types.Context) (map[string]any, error) {
	if len(evalCtx) > types.MaxContextSize {
		return nil, types.ErrContextTooLarge
	}
	data := map[string]any{}
	if len(evalCtx) > 0 {
		if err := json.Unmarshal(evalCtx, &data); err != nil {
			return nil, types.ErrMalformedContext
		}
	}
	return data, nil
}

// evaluateParsed is the parse-free core shared with the rule-set engine,
// which parses the context once for a whole set. It only reads data, so
// concurrent calls may share one parsed context.
func evaluateParsed(logic *RuleLogic, data map[string]any) EvaluationResult {
	result := emptyResult()

	matched, condResults := evaluateGroup(&logic.If, data, 1)
	result.Matched = matched
	if condResults != nil {
		result.ConditionResults = condResults
	}

	branch := logic.Then
	if !matched {
		branch = logic.Else
	}
	applyActions(branch, &result)

	return result
}

// emptyResult is the zero outcome with all slices non-nil.
func emptyResult() EvaluationResult {
	return EvaluationResult{
		ConditionResults:  []ConditionResult{},
		ApplicableActions: []Action{},
		Messages:          []Message{},
		ContextDelta:      []FieldChange{},
	}
}

// evaluateGroup recursively evaluates a condition group. Groups nested
// beyond MaxGroupDepth evaluate to false. An unknown group operator gets
// AND semantics.
func evaluateGroup(group *ConditionGroup, data map[string]any, depth int) (bool, []ConditionResult) {
	if depth > types.MaxGroupDepth {
		return false, nil
	}

	results := []ConditionResult{}

	if group.Op == GroupOr {
		for i := range group.Conditions {
			matched, childResults := evaluateNode(&group.Conditions[i], data, depth)
			results = append(results, childResults...)
			if matched {
				return true, results
			}
		}
		// Loop completion without a match covers the empty group: OR over
		// nothing is false.
		return false, results
	}

	for i := range group.Conditions {
		matched, childResults := evaluateNode(&group.Conditions[i], data, depth)
		results = append(results, childResults...)
		if !matched {
			return false, results
		}
	}
	// AND over nothing is vacuously true.
	return true, results
}

// evaluateNode dispatches one union element. A node carrying neither
// variant counts as an unmatched child with no diagnostic entry; such
// nodes are rejected at validation time and only reach here through
// unvalidated logic.
func evaluateNode(node *Node, data map[string]any, depth int) (bool, []ConditionResult) {
	switch {
	case node.Condition != nil:
		res := EvaluateCondition(node.Condition, data)
		return res.Matched, []ConditionResult{res}
	case node.Group != nil:
		return evaluateGroup(node.Group, data, depth+1)
	default:
		return false, nil
	}
}

// EvaluateCondition resolves the condition's field path, applies the
// valueType hint to both operands and compares them. Total: an absent
// field resolves to nil and the comparator decides what nil means for the
// operator.
func EvaluateCondition(cond *Condition, data map[string]any) ConditionResult {
	actual, _ := ResolvePath(cond.Field, data)

	// The hint normalizes both sides so "125000" and 125000 compare equal
	// whichever side the quoting landed on.
	actual = CoerceHint(actual, cond.ValueType)
	expected := CoerceHint(cond.Value, cond.ValueType)

	return ConditionResult{
		Condition:     *cond,
		Matched:       Compare(cond.Operator, actual, expected),
		ActualValue:   actual,
		ExpectedValue: expected,
	}
}

// applyActions folds one branch into the result in declaration order.
// addMessage and block are interpreted here; every other type passes
// through to ApplicableActions for the caller to apply.
func applyActions(actions []Action, result *EvaluationResult) {
	for i := range actions {
		a := actions[i]
		switch a.Type {
		case ActionAddMessage:
			sev := a.Severity
			if sev == "" {
				sev = SeverityInfo
			}
			result.Messages = append(result.Messages, Message{Message: a.Message, Severity: sev})
		case ActionBlock:
			result.Blocked = true
			if a.Message != "" {
				// A block message is an error regardless of the declared
				// severity.
				result.Messages = append(result.Messages, Message{Message: a.Message, Severity: SeverityError})
			}
		default:
			result.ApplicableActions = append(result.ApplicableActions, a)
			if isValueAssignment(a.Type) && a.Target != "" && a.Value != nil {
				result.ContextDelta = append(result.ContextDelta, FieldChange{
					Target:   a.Target,
					Operator: effectiveOperator(a),
					Value:    a.Value.Raw(),
				})
			}
		}
	}
}

// isValueAssignment reports whether the action type writes a value to a
// context field and therefore contributes to the context delta.
func isValueAssignment(t ActionType) bool {
	switch t {
	case ActionSet, ActionAdd, ActionApplyFactor, ActionSetCoverage, ActionSetLimit, ActionSetDeductible:
		return true
	default:
		return false
	}
}

// effectiveOperator picks the delta operator: an explicit operator wins,
// otherwise the action type implies one.
func effectiveOperator(a Action) ValueOperator {
	if a.Operator != "" {
		return a.Operator
	}
	switch a.Type {
	case ActionApplyFactor:
		return ValueOpMultiply
	case ActionAdd:
		return ValueOpAdd
	default:
		return ValueOpEquals
	}
}
