// internal/rules/dsl.go
package rules

import (
	"encoding/json"

	"github.com/haldane/riskgate/internal/types"
)

/*
 * Rule DSL wire types.
 *
 * RuleLogic is the persisted unit: an IF condition tree plus then/else action
 * lists. Condition trees nest ConditionGroup (AND/OR) and Condition (leaf
 * comparison) to arbitrary depth; each element of a group's conditions list is
 * exactly one of the two variants.
 *
 * Node is the tagged union for that choice. JSON carries no explicit tag, so
 * unmarshaling discriminates on key presence: field+operator marks a leaf
 * condition, op+conditions marks a nested group. A payload with both or
 * neither key set is rejected; the evaluator can then match exhaustively on
 * which pointer is non-nil instead of duck-typing.
 *
 * All shapes round-trip through encoding/json unchanged; the evaluator never
 * mutates them.
 */

// GroupOp combines a group's children.
type GroupOp string

const (
	GroupAnd GroupOp = "AND"
	GroupOr  GroupOp = "OR"
)

// Operator identifies a leaf-condition comparison.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpIn          Operator = "in"
	OpNotIn       Operator = "notIn"
	OpGreaterThan Operator = "gt"
	OpGreaterOrEq Operator = "gte"
	OpLessThan    Operator = "lt"
	OpLessOrEq    Operator = "lte"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "notExists"
	OpBetween     Operator = "between"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpMatches     Operator = "matches"
)

// KnownOperator reports whether op is part of the DSL.
func KnownOperator(op Operator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpIn, OpNotIn,
		OpGreaterThan, OpGreaterOrEq, OpLessThan, OpLessOrEq,
		OpContains, OpNotContains, OpExists, OpNotExists,
		OpBetween, OpStartsWith, OpEndsWith, OpMatches:
		return true
	default:
		return false
	}
}

// RequiresValue reports whether op needs an expected value to compare against.
// Only the existence checks compare against the field alone.
func RequiresValue(op Operator) bool {
	return op != OpExists && op != OpNotExists
}

// ValueType is an optional coercion hint on a condition: the resolved context
// value is leniently coerced toward this type before comparison.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeArray   ValueType = "array"
)

// Condition is a single field/operator/value comparison.
// Value is required for every operator except exists/notExists; between
// requires a 2-element numeric tuple.
type Condition struct {
	Field     string    `json:"field"`
	Operator  Operator  `json:"operator"`
	Value     any       `json:"value,omitempty"`
	ValueType ValueType `json:"valueType,omitempty"`
}

// ConditionGroup combines conditions and nested groups with AND/OR.
type ConditionGroup struct {
	Op         GroupOp `json:"op"`
	Conditions []Node  `json:"conditions"`
}

// Node is one element of a group's conditions list. Exactly one of Condition
// or Group is non-nil.
type Node struct {
	Condition *Condition
	Group     *ConditionGroup
}

// nodeProbe detects which variant a JSON element carries.
type nodeProbe struct {
	Field      *string          `json:"field"`
	Operator   *string          `json:"operator"`
	Op         *string          `json:"op"`
	Conditions *json.RawMessage `json:"conditions"`
}

// UnmarshalJSON discriminates the condition/group union on key presence.
func (n *Node) UnmarshalJSON(data []byte) error {
	var probe nodeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	isCondition := probe.Field != nil && probe.Operator != nil
	isGroup := probe.Op != nil && probe.Conditions != nil

	switch {
	case isCondition && !isGroup:
		var c Condition
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		n.Condition = &c
		n.Group = nil
		return nil
	case isGroup && !isCondition:
		var g ConditionGroup
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		n.Group = &g
		n.Condition = nil
		return nil
	default:
		return types.ErrAmbiguousNode
	}
}

// MarshalJSON emits whichever variant is set.
func (n Node) MarshalJSON() ([]byte, error) {
	switch {
	case n.Condition != nil && n.Group == nil:
		return json.Marshal(n.Condition)
	case n.Group != nil && n.Condition == nil:
		return json.Marshal(n.Group)
	default:
		return nil, types.ErrAmbiguousNode
	}
}

// ConditionNode wraps a leaf condition as a group element.
func ConditionNode(c Condition) Node {
	return Node{Condition: &c}
}

// GroupNode wraps a nested group as a group element.
func GroupNode(g ConditionGroup) Node {
	return Node{Group: &g}
}

// RuleLogic is the persisted and evaluated unit: one IF tree plus the action
// lists for the match and no-match branches.
type RuleLogic struct {
	Version int            `json:"version"`
	If      ConditionGroup `json:"if"`
	Then    []Action       `json:"then"`
	Else    []Action       `json:"else,omitempty"`
}
