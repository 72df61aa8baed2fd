// internal/rules/actions.go
package rules

import (
	"encoding/json"
	"fmt"
)

/*
 * Action model.
 *
 * Actions are effects reported when a rule's branch is selected. addMessage
 * and block are interpreted by the applier (messages, blocked flag); the
 * remaining types are returned to the caller, who owns applying them against
 * its coverage/pricing/forms state.
 *
 * Action values arrive as loose JSON (string | number | boolean | string
 * array | object). ActionValue pins that union down as a tagged type so the
 * applier and callers pattern-match on Kind instead of runtime type
 * inspection.
 */

// ActionType identifies an action's effect.
type ActionType string

const (
	ActionAddMessage    ActionType = "addMessage"
	ActionBlock         ActionType = "block"
	ActionSet           ActionType = "set"
	ActionAdd           ActionType = "add"
	ActionRemove        ActionType = "remove"
	ActionRequire       ActionType = "require"
	ActionApplyFactor   ActionType = "applyFactor"
	ActionAttachForm    ActionType = "attachForm"
	ActionDetachForm    ActionType = "detachForm"
	ActionSetCoverage   ActionType = "setCoverage"
	ActionSetLimit      ActionType = "setLimit"
	ActionSetDeductible ActionType = "setDeductible"
	ActionCustom        ActionType = "custom"
)

// KnownActionType reports whether t is part of the DSL.
func KnownActionType(t ActionType) bool {
	switch t {
	case ActionAddMessage, ActionBlock, ActionSet, ActionAdd, ActionRemove,
		ActionRequire, ActionApplyFactor, ActionAttachForm, ActionDetachForm,
		ActionSetCoverage, ActionSetLimit, ActionSetDeductible, ActionCustom:
		return true
	default:
		return false
	}
}

// ValueOperator describes how an action's value combines with the target.
type ValueOperator string

const (
	ValueOpEquals   ValueOperator = "equals"
	ValueOpAdd      ValueOperator = "add"
	ValueOpSubtract ValueOperator = "subtract"
	ValueOpMultiply ValueOperator = "multiply"
	ValueOpDivide   ValueOperator = "divide"
)

// Severity classifies a result message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// ValueKind discriminates ActionValue variants.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueStringList
	ValueObject
)

// ActionValue is the tagged action payload. Exactly the fields matching Kind
// are meaningful; the rest stay zero.
type ActionValue struct {
	Kind   ValueKind
	Str    string
	Num    float64
	Bool   bool
	List   []string
	Object map[string]any
}

// StringValue builds a string-kind action value.
func StringValue(s string) *ActionValue {
	return &ActionValue{Kind: ValueString, Str: s}
}

// NumberValue builds a number-kind action value.
func NumberValue(n float64) *ActionValue {
	return &ActionValue{Kind: ValueNumber, Num: n}
}

// BoolValue builds a boolean-kind action value.
func BoolValue(b bool) *ActionValue {
	return &ActionValue{Kind: ValueBool, Bool: b}
}

// ListValue builds a string-list action value.
func ListValue(items ...string) *ActionValue {
	return &ActionValue{Kind: ValueStringList, List: items}
}

// UnmarshalJSON maps the loose JSON value union onto the tagged type.
// Arrays must contain strings only; nested arrays and non-object scalars in
// unexpected positions are rejected at parse time, never at evaluation time.
func (v *ActionValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch rv := raw.(type) {
	case nil:
		*v = ActionValue{Kind: ValueNull}
	case string:
		*v = ActionValue{Kind: ValueString, Str: rv}
	case float64:
		*v = ActionValue{Kind: ValueNumber, Num: rv}
	case bool:
		*v = ActionValue{Kind: ValueBool, Bool: rv}
	case []any:
		list := make([]string, 0, len(rv))
		for _, elem := range rv {
			s, ok := elem.(string)
			if !ok {
				return fmt.Errorf("action value array must contain strings, got %T", elem)
			}
			list = append(list, s)
		}
		*v = ActionValue{Kind: ValueStringList, List: list}
	case map[string]any:
		*v = ActionValue{Kind: ValueObject, Object: rv}
	default:
		return fmt.Errorf("unsupported action value type %T", raw)
	}
	return nil
}

// MarshalJSON emits the variant matching Kind.
func (v ActionValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

// Raw returns the plain JSON-shaped value for callers that re-serialize
// (contextDelta entries, API responses).
func (v ActionValue) Raw() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return v.Num
	case ValueBool:
		return v.Bool
	case ValueStringList:
		if v.List == nil {
			return []string{}
		}
		return v.List
	case ValueObject:
		return v.Object
	default:
		return nil
	}
}

// AsNumber returns the numeric payload when Kind is ValueNumber.
func (v ActionValue) AsNumber() (float64, bool) {
	if v.Kind == ValueNumber {
		return v.Num, true
	}
	return 0, false
}

// AsString returns the string payload when Kind is ValueString.
func (v ActionValue) AsString() (string, bool) {
	if v.Kind == ValueString {
		return v.Str, true
	}
	return "", false
}

// Action is one effect in a rule's then/else branch.
// addMessage and block should carry Message; the other types should carry
// Target and typically Value.
type Action struct {
	Type     ActionType    `json:"type"`
	Target   string        `json:"target,omitempty"`
	Operator ValueOperator `json:"operator,omitempty"`
	Value    *ActionValue  `json:"value,omitempty"`
	Message  string        `json:"message,omitempty"`
	Severity Severity      `json:"severity,omitempty"`
}
