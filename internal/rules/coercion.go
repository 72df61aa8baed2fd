// internal/rules/coercion.go
package rules

import (
	"strconv"
	"strings"
)

/*
 * Value type coercion.
 *
 * Rule authors and draft generators frequently quote numbers ("125000")
 * or booleans ("true") inside condition values. The valueType hint on a
 * condition lets the evaluator normalize the expected value before
 * comparison instead of failing the match on a representation mismatch.
 *
 * Coercion is lenient and total: a value that cannot be converted to the
 * hinted type passes through unchanged and the comparison proceeds with
 * the original value. A bad hint never turns into an evaluation error.
 *
 * Hints:
 *   - number: Numeric strings parse to float64; whitespace is trimmed first
 *   - string: Numbers and booleans render in canonical JSON form
 *   - boolean: Only the exact strings "true"/"false" convert
 *   - array/unhinted: Value passes through unchanged
 */

// CoerceHint normalizes value toward the hinted type. Unconvertible values
// and unknown hints return the value unchanged.
func CoerceHint(value any, hint ValueType) any {
	if value == nil {
		return nil
	}
	switch hint {
	case ValueTypeNumber:
		return coerceNumber(value)
	case ValueTypeString:
		return coerceString(value)
	case ValueTypeBoolean:
		return coerceBoolean(value)
	default:
		return value
	}
}

// coerceNumber parses numeric strings to float64. Whitespace-only strings
// are not valid numbers. Booleans do not become 0/1.
func coerceNumber(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return value
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value
	}
	return f
}

// coerceString renders numbers and booleans as strings.
func coerceString(value any) any {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return value
	}
}

// coerceBoolean accepts only the exact strings "true" and "false". Truthy
// conversions ("1", "yes") stay out to avoid "true" vs 1 ambiguity.
func coerceBoolean(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}
