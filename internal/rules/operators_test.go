package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test comparison semantics for every operator
func TestCompare_AllOperators(t *testing.T) {
	tests := []struct {
		name     string
		op       Operator
		actual   any
		expected any
		want     bool
	}{
		// equals: strict with numeric width tolerance
		{"equals_numbers", OpEquals, float64(5), float64(5), true},
		{"equals_numbers_differ", OpEquals, float64(5), float64(6), false},
		{"equals_cross_width", OpEquals, 5, float64(5), true},
		{"equals_strings", OpEquals, "active", "active", true},
		{"equals_no_cross_type_coercion", OpEquals, float64(5), "5", false},
		{"equals_bools", OpEquals, true, true, true},
		{"equals_nils", OpEquals, nil, nil, true},
		{"equals_nil_vs_value", OpEquals, nil, "x", false},
		{"equals_arrays_deep", OpEquals, []any{float64(1), "a"}, []any{float64(1), "a"}, true},
		{"equals_arrays_differ", OpEquals, []any{float64(1)}, []any{float64(2)}, false},
		{"equals_objects_deep", OpEquals, map[string]any{"k": "v"}, map[string]any{"k": "v"}, true},

		// notEquals: plain negation
		{"notEquals_differ", OpNotEquals, float64(5), float64(6), true},
		{"notEquals_same", OpNotEquals, "a", "a", false},
		{"notEquals_nil_vs_value", OpNotEquals, nil, "x", true},

		// in: membership against an array
		{"in_member", OpIn, float64(5), []any{float64(3), float64(5)}, true},
		{"in_member_cross_width", OpIn, 5, []any{float64(5)}, true},
		{"in_non_member", OpIn, float64(6), []any{float64(3), float64(5)}, false},
		{"in_string_member", OpIn, "CA", []any{"CA", "NY"}, true},
		{"in_empty_array", OpIn, "CA", []any{}, false},
		{"in_expected_not_array", OpIn, "CA", "CA", false},

		// notIn: negated membership, same array guard
		{"notIn_non_member", OpNotIn, "TX", []any{"CA", "NY"}, true},
		{"notIn_member", OpNotIn, "CA", []any{"CA", "NY"}, false},
		{"notIn_expected_not_array", OpNotIn, "CA", "CA", false},

		// ordered comparisons: numeric only
		{"gt_greater", OpGreaterThan, float64(10), float64(5), true},
		{"gt_equal", OpGreaterThan, float64(5), float64(5), false},
		{"gt_less", OpGreaterThan, float64(3), float64(5), false},
		{"gt_string_actual", OpGreaterThan, "10", float64(5), false},
		{"gt_string_expected", OpGreaterThan, float64(10), "5", false},
		{"gt_nil_actual", OpGreaterThan, nil, float64(5), false},
		{"gte_equal", OpGreaterOrEq, float64(5), float64(5), true},
		{"gte_less", OpGreaterOrEq, float64(4), float64(5), false},
		{"gte_mismatch_not_equal", OpGreaterOrEq, "abc", float64(5), false},
		{"lt_less", OpLessThan, float64(3), float64(5), true},
		{"lt_greater", OpLessThan, float64(6), float64(5), false},
		{"lte_equal", OpLessOrEq, float64(5), float64(5), true},
		{"lte_greater", OpLessOrEq, float64(6), float64(5), false},
		{"lte_mismatch_not_equal", OpLessOrEq, true, false, false},

		// contains: substring or array element
		{"contains_substring", OpContains, "hello world", "world", true},
		{"contains_missing_substring", OpContains, "hello world", "mars", false},
		{"contains_array_element", OpContains, []any{"flood", "wind"}, "flood", true},
		{"contains_array_missing", OpContains, []any{"flood", "wind"}, "hail", false},
		{"contains_array_numeric_cross_width", OpContains, []any{float64(5)}, 5, true},
		{"contains_number_actual", OpContains, float64(5), "5", false},
		{"contains_string_with_number", OpContains, "hello", float64(5), false},

		// notContains: negation behind the same type guard
		{"notContains_missing_substring", OpNotContains, "hello", "mars", true},
		{"notContains_present", OpNotContains, "hello", "ell", false},
		{"notContains_array_missing", OpNotContains, []any{"a"}, "b", true},
		{"notContains_type_mismatch", OpNotContains, float64(5), "5", false},

		// exists / notExists: null checks
		{"exists_value", OpExists, "x", nil, true},
		{"exists_false_value", OpExists, false, nil, true},
		{"exists_zero", OpExists, float64(0), nil, true},
		{"exists_empty_string", OpExists, "", nil, true},
		{"exists_nil", OpExists, nil, nil, false},
		{"notExists_nil", OpNotExists, nil, nil, true},
		{"notExists_value", OpNotExists, "x", nil, false},

		// between: inclusive numeric range
		{"between_inside", OpBetween, float64(5), []any{float64(1), float64(10)}, true},
		{"between_low_boundary", OpBetween, float64(1), []any{float64(1), float64(10)}, true},
		{"between_high_boundary", OpBetween, float64(10), []any{float64(1), float64(10)}, true},
		{"between_below", OpBetween, float64(0), []any{float64(1), float64(10)}, false},
		{"between_above", OpBetween, float64(11), []any{float64(1), float64(10)}, false},
		{"between_wrong_arity", OpBetween, float64(5), []any{float64(1)}, false},
		{"between_three_elements", OpBetween, float64(5), []any{float64(1), float64(5), float64(10)}, false},
		{"between_non_numeric_bound", OpBetween, float64(5), []any{"1", float64(10)}, false},
		{"between_string_actual", OpBetween, "5", []any{float64(1), float64(10)}, false},
		{"between_expected_not_array", OpBetween, float64(5), float64(10), false},

		// startsWith / endsWith: strings only
		{"startsWith_prefix", OpStartsWith, "HO-3 policy", "HO-3", true},
		{"startsWith_not_prefix", OpStartsWith, "HO-3 policy", "policy", false},
		{"startsWith_number_actual", OpStartsWith, float64(55), "5", false},
		{"endsWith_suffix", OpEndsWith, "form-CA", "-CA", true},
		{"endsWith_not_suffix", OpEndsWith, "form-CA", "-NY", false},
		{"endsWith_number_expected", OpEndsWith, "55", float64(5), false},

		// matches: regex with invalid patterns failing closed
		{"matches_pattern", OpMatches, "AB-1234", `^[A-Z]{2}-\d{4}$`, true},
		{"matches_no_match", OpMatches, "ab-1234", `^[A-Z]{2}-\d{4}$`, false},
		{"matches_invalid_pattern", OpMatches, "anything", `([`, false},
		{"matches_number_actual", OpMatches, float64(5), `\d`, false},
		{"matches_non_string_pattern", OpMatches, "5", float64(5), false},

		// unknown operator
		{"unknown_operator", Operator("regex"), "a", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.op, tt.actual, tt.expected)
			if got != tt.want {
				t.Errorf("Compare(%v, %v, %v) = %v, want %v",
					tt.op, tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

// Test numeric width mixing across integer and float representations
func TestCompare_NumericWidths(t *testing.T) {
	tests := []struct {
		name   string
		actual any
	}{
		{"int", int(7)},
		{"int32", int32(7)},
		{"int64", int64(7)},
		{"uint", uint(7)},
		{"uint32", uint32(7)},
		{"uint64", uint64(7)},
		{"float32", float32(7)},
		{"float64", float64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Compare(OpEquals, tt.actual, float64(7)) {
				t.Errorf("Compare(equals, %T(7), 7.0) = false, want true", tt.actual)
			}
			if !Compare(OpGreaterThan, tt.actual, float64(6)) {
				t.Errorf("Compare(gt, %T(7), 6.0) = false, want true", tt.actual)
			}
		})
	}
}

// Property-based test: Compare is total over scrambled operand types
func TestCompare_PropertyNeverPanics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	operators := []Operator{
		OpEquals, OpNotEquals, OpIn, OpNotIn,
		OpGreaterThan, OpGreaterOrEq, OpLessThan, OpLessOrEq,
		OpContains, OpNotContains, OpExists, OpNotExists,
		OpBetween, OpStartsWith, OpEndsWith, OpMatches,
	}
	values := []any{
		nil, "text", "", float64(42), float64(0), true, false,
		[]any{float64(1), "a"}, []any{}, map[string]any{"k": "v"},
		[]any{float64(1), float64(2)}, "([", `\d+`,
	}

	properties.Property("Compare never panics for any operator and operand pair", prop.ForAll(
		func(opIdx, aIdx, bIdx int) bool {
			op := operators[opIdx%len(operators)]
			a := values[aIdx%len(values)]
			b := values[bIdx%len(values)]

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Compare(%v, %v, %v) panicked: %v", op, a, b, r)
				}
			}()

			_ = Compare(op, a, b)
			return true
		},
		gen.IntRange(0, len(operators)-1),
		gen.IntRange(0, 12),
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}

// Property-based test: negated operators complement their positive form only
// when the positive form's type guard passes
func TestCompare_PropertyNegationGuard(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("in/notIn complement on array operands and both fail otherwise", prop.ForAll(
		func(needle int, haystack []int, useArray bool) bool {
			actual := float64(needle)
			var expected any
			if useArray {
				arr := make([]any, len(haystack))
				for i, n := range haystack {
					arr[i] = float64(n)
				}
				expected = arr
			} else {
				expected = "not-an-array"
			}

			inResult := Compare(OpIn, actual, expected)
			notInResult := Compare(OpNotIn, actual, expected)

			if useArray {
				return inResult != notInResult
			}
			return !inResult && !notInResult
		},
		gen.IntRange(0, 10),
		gen.SliceOf(gen.IntRange(0, 10)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
