// internal/rules/operators.go
package rules

import (
	"reflect"
	"regexp"
	"strings"
)

/*
 * Operator comparison logic.
 *
 * Implements the 16 DSL comparison operators with type-aware comparison
 * rules. Compare is total: a type mismatch between the resolved context
 * value and the operator's expected operand shape yields false, never an
 * error or panic. Malformed runtime data therefore degrades to "condition
 * not matched".
 *
 * Operators:
 *   - equals/notEquals: Strict equality with numeric width tolerance
 *   - in/notIn: Membership against an array expected value
 *   - gt/gte/lt/lte: Numeric comparison only
 *   - contains/notContains: Substring (strings) or element (arrays)
 *   - exists/notExists: Null/absent checks
 *   - between: Inclusive 2-tuple numeric range
 *   - startsWith/endsWith: String prefix/suffix
 *   - matches: Regex test; an invalid pattern evaluates to false
 *
 * Numeric comparison: Handles float64/int/int64 mixing for JSON
 * compatibility. Negated operators keep their positive form's type guard:
 * notIn against a non-array and notContains against mismatched operands are
 * false, not vacuously true.
 *
 * Why function-based: 16 operators via switch statement is cleaner than 16
 * interface implementations with minimal behavior variation.
 */

// Compare applies the operator to the resolved context value and the
// condition's expected value. Total: unknown operators and operand type
// mismatches return false.
func Compare(op Operator, actual, expected any) bool {
	switch op {
	case OpExists:
		return actual != nil
	case OpNotExists:
		return actual == nil
	case OpEquals:
		return compareEqual(actual, expected)
	case OpNotEquals:
		return !compareEqual(actual, expected)
	case OpIn:
		return compareIn(actual, expected)
	case OpNotIn:
		if _, ok := expected.([]any); !ok {
			return false
		}
		return !compareIn(actual, expected)
	case OpGreaterThan:
		c, ok := compareNumeric(actual, expected)
		return ok && c > 0
	case OpGreaterOrEq:
		c, ok := compareNumeric(actual, expected)
		return ok && c >= 0
	case OpLessThan:
		c, ok := compareNumeric(actual, expected)
		return ok && c < 0
	case OpLessOrEq:
		c, ok := compareNumeric(actual, expected)
		return ok && c <= 0
	case OpContains:
		return containsComparable(actual, expected) && compareContains(actual, expected)
	case OpNotContains:
		return containsComparable(actual, expected) && !compareContains(actual, expected)
	case OpBetween:
		return compareBetween(actual, expected)
	case OpStartsWith:
		return comparePrefix(actual, expected)
	case OpEndsWith:
		return compareSuffix(actual, expected)
	case OpMatches:
		return compareMatches(actual, expected)
	default:
		return false
	}
}

// compareEqual performs equality comparison with numeric type coercion.
// Numbers of mixed widths compare by value; everything else compares deeply,
// which keeps array and object operands panic-free.
func compareEqual(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// compareNumeric performs three-way numeric comparison (-1/0/1).
// ok is false for incomparable operands so ordered operators fail closed
// instead of treating a mismatch as equality.
func compareNumeric(a, b any) (int, bool) {
	na, nb, ok := asNumbers(a, b)
	if !ok {
		return 0, false
	}
	switch {
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}

// asNumbers attempts to convert both values to float64 for numeric comparison.
// Returns converted values and success flag. Used by compareEqual and compareNumeric.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts value to float64 if it's a numeric type.
// float64 covers JSON unmarshaling; the integer widths cover values built in
// Go code (tests, drafts assembled programmatically).
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// compareIn checks membership of actual in the expected array using equality
// semantics. A non-array expected value is false.
func compareIn(actual, expected any) bool {
	arr, ok := expected.([]any)
	if !ok {
		return false
	}
	for _, elem := range arr {
		if compareEqual(actual, elem) {
			return true
		}
	}
	return false
}

// containsComparable reports whether the operand pair satisfies the
// contains/notContains type guard: string-string or array-any.
func containsComparable(actual, expected any) bool {
	switch actual.(type) {
	case string:
		_, ok := expected.(string)
		return ok
	case []any:
		return true
	default:
		return false
	}
}

// compareContains tests substring containment for strings and element
// membership for arrays. Callers guard operand types via containsComparable.
func compareContains(actual, expected any) bool {
	switch av := actual.(type) {
	case string:
		es, ok := expected.(string)
		return ok && strings.Contains(av, es)
	case []any:
		for _, elem := range av {
			if compareEqual(elem, expected) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareBetween checks low <= actual <= high against a 2-element numeric
// tuple. Anything else (wrong arity, non-numeric bounds or value) is false.
func compareBetween(actual, expected any) bool {
	bounds, ok := expected.([]any)
	if !ok || len(bounds) != 2 {
		return false
	}
	v, ok := toFloat64(actual)
	if !ok {
		return false
	}
	low, okLow := toFloat64(bounds[0])
	high, okHigh := toFloat64(bounds[1])
	if !okLow || !okHigh {
		return false
	}
	return v >= low && v <= high
}

// comparePrefix checks if actual starts with expected (both must be strings).
// Returns false for non-string types.
func comparePrefix(actual, expected any) bool {
	vs, ok1 := actual.(string)
	ps, ok2 := expected.(string)
	if !ok1 || !ok2 {
		return false
	}
	return strings.HasPrefix(vs, ps)
}

// compareSuffix checks if actual ends with expected (both must be strings).
// Returns false for non-string types.
func compareSuffix(actual, expected any) bool {
	vs, ok1 := actual.(string)
	ss, ok2 := expected.(string)
	if !ok1 || !ok2 {
		return false
	}
	return strings.HasSuffix(vs, ss)
}

// compareMatches tests the expected regex pattern against a string actual.
// An invalid pattern evaluates to false; a compile error never escapes the
// comparator.
func compareMatches(actual, expected any) bool {
	vs, ok1 := actual.(string)
	pattern, ok2 := expected.(string)
	if !ok1 || !ok2 {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(vs)
}
