package types

import "errors"

// Sentinel errors for riskgate operations.
var (
	// ErrMissingRuleName indicates a draft was submitted without a rule name.
	ErrMissingRuleName = errors.New("rule name is required")

	// ErrEmptyConditions indicates a rule's if block has no conditions.
	ErrEmptyConditions = errors.New("rule must have at least one condition")

	// ErrEmptyThenActions indicates a rule's then block has no actions.
	ErrEmptyThenActions = errors.New("rule must have at least one then action")

	// ErrGroupTooDeep indicates condition groups nest beyond MaxGroupDepth.
	ErrGroupTooDeep = errors.New("condition group exceeds maximum nesting depth")

	// ErrTooManyConditions indicates a group exceeds MaxConditionsPerGroup.
	ErrTooManyConditions = errors.New("condition group has too many conditions")

	// ErrTooManyInValues indicates an in/notIn operator exceeds MaxInOperatorValues.
	ErrTooManyInValues = errors.New("in operator has too many values")

	// ErrFieldPathTooDeep indicates a condition field path exceeds MaxFieldPathDepth.
	ErrFieldPathTooDeep = errors.New("field path exceeds maximum depth")

	// ErrTooManyActions indicates a then/else branch exceeds MaxActionsPerBranch.
	ErrTooManyActions = errors.New("action branch has too many actions")

	// ErrAmbiguousNode indicates a conditions element is neither a condition
	// nor a group, or claims to be both.
	ErrAmbiguousNode = errors.New("conditions element must be exactly one of condition or group")

	// ErrUnknownOperator indicates a condition uses an operator outside the DSL.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrUnknownGroupOperator indicates a group op other than AND/OR.
	ErrUnknownGroupOperator = errors.New("group operator must be AND or OR")

	// ErrUnknownActionType indicates an action type outside the DSL.
	ErrUnknownActionType = errors.New("unknown action type")

	// ErrMissingConditionField indicates a condition without a field path.
	ErrMissingConditionField = errors.New("condition field is required")

	// ErrMissingConditionValue indicates a value-requiring operator without a value.
	ErrMissingConditionValue = errors.New("condition operator requires a value")

	// ErrInvalidInValue indicates an in/notIn value that is not an array.
	ErrInvalidInValue = errors.New("in operator requires an array value")

	// ErrMessageTooLong indicates an action message exceeds MaxMessageLength.
	ErrMessageTooLong = errors.New("action message exceeds maximum length")

	// ErrInvalidBetweenValue indicates a between value that is not a 2-element
	// numeric tuple.
	ErrInvalidBetweenValue = errors.New("between requires a 2-element numeric range")

	// ErrNilRuleLogic indicates evaluation was requested without rule logic.
	ErrNilRuleLogic = errors.New("rule logic is required")

	// ErrContextTooLarge indicates the evaluation context exceeds MaxContextSize.
	ErrContextTooLarge = errors.New("evaluation context exceeds maximum size")

	// ErrMalformedContext indicates the evaluation context is not a JSON object.
	ErrMalformedContext = errors.New("evaluation context is not a JSON object")

	// ErrMissingSourceText indicates a draft request without guidance text.
	ErrMissingSourceText = errors.New("source text is required")

	// ErrSourceTextTooLong indicates guidance text beyond MaxSourceTextLength.
	ErrSourceTextTooLong = errors.New("source text exceeds maximum length")

	// ErrInvalidRuleStatus indicates a status outside the rule lifecycle.
	ErrInvalidRuleStatus = errors.New("unknown rule status")

	// ErrRuleNotFound indicates a rule ID with no stored rule.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrRevisionNotFound indicates a rule with no stored logic revision.
	ErrRevisionNotFound = errors.New("rule logic revision not found")

	// ErrGeneratorUnavailable indicates no AI generator is configured.
	ErrGeneratorUnavailable = errors.New("rule draft generator not configured")
)
