// Package types provides domain models shared across riskgate components.
//
// Zero-dependency design: types.go and errors.go use only encoding/json so the
// rules evaluator can be embedded without pulling in service dependencies. ID
// utilities in ids.go import uuid but are isolated for selective inclusion.
package types

import "encoding/json"

// ProductID identifies an insurance product whose rules are stored together.
// String alias enables type safety while maintaining JSON string serialization.
type ProductID string

// RuleID represents a UUIDv7 rule identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type RuleID string

// RevisionID represents a UUIDv7 identifier for one immutable logic revision.
type RevisionID string

// Context is the runtime attribute bag a rule is evaluated against: named
// sub-objects (risk, policy, coverage, pricing, location, insured, custom)
// reached via dotted paths like "risk.classCode".
// json.RawMessage wrapper preserves original bytes for schema-agnostic
// transport; the evaluator parses it once per call and never mutates it.
type Context json.RawMessage

// MarshalJSON implements json.Marshaler.
// Delegates to json.RawMessage to preserve original context bytes unchanged.
func (c Context) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	return json.RawMessage(c).MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
// Delegates to json.RawMessage to capture raw bytes without parsing.
func (c *Context) UnmarshalJSON(data []byte) error {
	return (*json.RawMessage)(c).UnmarshalJSON(data)
}

// Resource limits enforced at rule-creation time to keep evaluation bounded.
// The evaluator itself degrades totally (out-of-bounds input evaluates
// unmatched) rather than erroring mid-evaluation.
const (
	// MaxGroupDepth bounds condition-group nesting to prevent stack overflow
	// during recursive evaluation. 16 levels far exceeds any rule a product
	// team has authored.
	MaxGroupDepth = 16

	// MaxConditionsPerGroup limits direct children of one group to keep a
	// single evaluation pass bounded.
	MaxConditionsPerGroup = 64

	// MaxInOperatorValues limits in/notIn list size to prevent quadratic
	// comparison cost. 64 values supports class-code style enumerations.
	MaxInOperatorValues = 64

	// MaxFieldPathDepth bounds dotted-path segments ("risk.location.zip" is 3).
	MaxFieldPathDepth = 16

	// MaxActionsPerBranch limits then/else action lists.
	MaxActionsPerBranch = 32

	// MaxContextSize limits the evaluation context payload to prevent OOM when
	// evaluating product-wide rule sets. 1MB covers full submission snapshots.
	MaxContextSize = 1024 * 1024

	// MaxRuleNameLength keeps stored rule names displayable.
	MaxRuleNameLength = 256

	// MaxMessageLength bounds action messages surfaced to end users.
	MaxMessageLength = 1024

	// MaxSourceTextLength bounds the free-text a draft was generated from.
	// 16KB accommodates pasted underwriting-guide excerpts.
	MaxSourceTextLength = 16 * 1024
)
