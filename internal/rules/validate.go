// internal/rules/validate.go
package rules

import (
	"strings"

	"github.com/haldane/riskgate/internal/types"
)

/*
 * Rule logic validation.
 *
 * Validates RuleLogic against structural invariants and resource limits
 * before it is stored or evaluated. Enforcing limits at submission time
 * moves error detection to rule creation rather than evaluation, which
 * keeps evaluation total and bounds its cost.
 *
 * Checks:
 *   1. Structure: non-empty if block, non-empty then branch
 *   2. Group shape: known op, node union integrity, nesting depth
 *   3. Condition shape: field present, known operator, operand arity
 *      (value required, in/notIn array, between 2-tuple)
 *   4. Limits: conditions per group, in values, path depth, actions per
 *      branch, message length
 *
 * Validation returns the first violation as a sentinel from the types
 * package so callers can map it to a transport status without string
 * matching.
 *
 * The valueType hint is deliberately not validated: coercion ignores
 * unknown hints, so rejecting them would break older clients for no
 * evaluation benefit.
 */

// ValidateLogic checks logic against the DSL invariants and resource
// limits. Returns nil when the logic is safe to store and evaluate.
func ValidateLogic(logic *RuleLogic) error {
	if logic == nil {
		return types.ErrNilRuleLogic
	}
	if len(logic.If.Conditions) == 0 {
		return types.ErrEmptyConditions
	}
	if len(logic.Then) == 0 {
		return types.ErrEmptyThenActions
	}
	if err := validateGroup(&logic.If, 1); err != nil {
		return err
	}
	if err := validateActions(logic.Then); err != nil {
		return err
	}
	return validateActions(logic.Else)
}

// validateGroup checks one group and recurses into nested groups.
func validateGroup(group *ConditionGroup, depth int) error {
	if depth > types.MaxGroupDepth {
		return types.ErrGroupTooDeep
	}
	if group.Op != GroupAnd && group.Op != GroupOr {
		return types.ErrUnknownGroupOperator
	}
	if len(group.Conditions) > types.MaxConditionsPerGroup {
		return types.ErrTooManyConditions
	}
	for i := range group.Conditions {
		node := &group.Conditions[i]
		switch {
		case node.Condition != nil && node.Group == nil:
			if err := validateCondition(node.Condition); err != nil {
				return err
			}
		case node.Group != nil && node.Condition == nil:
			if err := validateGroup(node.Group, depth+1); err != nil {
				return err
			}
		default:
			return types.ErrAmbiguousNode
		}
	}
	return nil
}

// validateCondition checks a leaf condition's field, operator, and operand
// shape.
func validateCondition(cond *Condition) error {
	if cond.Field == "" {
		return types.ErrMissingConditionField
	}
	if len(strings.Split(cond.Field, ".")) > types.MaxFieldPathDepth {
		return types.ErrFieldPathTooDeep
	}
	if !KnownOperator(cond.Operator) {
		return types.ErrUnknownOperator
	}
	if RequiresValue(cond.Operator) && cond.Value == nil {
		return types.ErrMissingConditionValue
	}

	switch cond.Operator {
	case OpIn, OpNotIn:
		arr, ok := cond.Value.([]any)
		if !ok {
			return types.ErrInvalidInValue
		}
		if len(arr) > types.MaxInOperatorValues {
			return types.ErrTooManyInValues
		}
	case OpBetween:
		bounds, ok := cond.Value.([]any)
		if !ok || len(bounds) != 2 {
			return types.ErrInvalidBetweenValue
		}
		if _, ok := toFloat64(bounds[0]); !ok {
			return types.ErrInvalidBetweenValue
		}
		if _, ok := toFloat64(bounds[1]); !ok {
			return types.ErrInvalidBetweenValue
		}
	}
	return nil
}

// validateActions checks one then/else branch.
func validateActions(actions []Action) error {
	if len(actions) > types.MaxActionsPerBranch {
		return types.ErrTooManyActions
	}
	for i := range actions {
		if !KnownActionType(actions[i].Type) {
			return types.ErrUnknownActionType
		}
		if len(actions[i].Message) > types.MaxMessageLength {
			return types.ErrMessageTooLong
		}
	}
	return nil
}
