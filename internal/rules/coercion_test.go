package rules

import (
	"reflect"
	"testing"
)

func TestCoerceHint(t *testing.T) {
	tests := []struct {
		name  string
		value any
		hint  ValueType
		want  any
	}{
		// number hint
		{name: "number: numeric string", value: "125000", hint: ValueTypeNumber, want: 125000.0},
		{name: "number: decimal string", value: "3.14159", hint: ValueTypeNumber, want: 3.14159},
		{name: "number: negative string", value: "-100", hint: ValueTypeNumber, want: -100.0},
		{name: "number: scientific notation", value: "1e3", hint: ValueTypeNumber, want: 1000.0},
		{name: "number: whitespace trimmed", value: "  42  ", hint: ValueTypeNumber, want: 42.0},
		{name: "number: float passthrough", value: 42.5, hint: ValueTypeNumber, want: 42.5},
		{name: "number: non-numeric unchanged", value: "abc", hint: ValueTypeNumber, want: "abc"},
		{name: "number: mixed string unchanged", value: "123abc", hint: ValueTypeNumber, want: "123abc"},
		{name: "number: empty string unchanged", value: "", hint: ValueTypeNumber, want: ""},
		{name: "number: whitespace-only unchanged", value: "   ", hint: ValueTypeNumber, want: "   "},
		{name: "number: boolean unchanged", value: true, hint: ValueTypeNumber, want: true},

		// string hint
		{name: "string: passthrough", value: "hello", hint: ValueTypeString, want: "hello"},
		{name: "string: integer-valued float", value: 125000.0, hint: ValueTypeString, want: "125000"},
		{name: "string: decimal float", value: 3.14, hint: ValueTypeString, want: "3.14"},
		{name: "string: int", value: 100, hint: ValueTypeString, want: "100"},
		{name: "string: int64", value: int64(999), hint: ValueTypeString, want: "999"},
		{name: "string: bool true", value: true, hint: ValueTypeString, want: "true"},
		{name: "string: bool false", value: false, hint: ValueTypeString, want: "false"},

		// boolean hint
		{name: "boolean: true string", value: "true", hint: ValueTypeBoolean, want: true},
		{name: "boolean: false string", value: "false", hint: ValueTypeBoolean, want: false},
		{name: "boolean: case-sensitive", value: "TRUE", hint: ValueTypeBoolean, want: "TRUE"},
		{name: "boolean: no truthy conversion", value: "1", hint: ValueTypeBoolean, want: "1"},
		{name: "boolean: bool passthrough", value: true, hint: ValueTypeBoolean, want: true},
		{name: "boolean: number unchanged", value: 1.0, hint: ValueTypeBoolean, want: 1.0},

		// no hint and array hint pass through
		{name: "unhinted: string unchanged", value: "42", hint: "", want: "42"},
		{name: "unhinted: number unchanged", value: 42.0, hint: "", want: 42.0},
		{name: "array: slice unchanged", value: []any{"a", "b"}, hint: ValueTypeArray, want: []any{"a", "b"}},
		{name: "array: scalar unchanged", value: "x", hint: ValueTypeArray, want: "x"},
		{name: "unknown hint: unchanged", value: "42", hint: ValueType("decimal"), want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceHint(tt.value, tt.hint)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CoerceHint(%v, %q) = %v (%T), want %v (%T)",
					tt.value, tt.hint, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCoerceHint_Nil(t *testing.T) {
	for _, hint := range []ValueType{ValueTypeString, ValueTypeNumber, ValueTypeBoolean, ValueTypeArray, ""} {
		if got := CoerceHint(nil, hint); got != nil {
			t.Errorf("CoerceHint(nil, %q) = %v, want nil", hint, got)
		}
	}
}
