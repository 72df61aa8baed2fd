package rules

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func parseJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		t.Fatalf("json.Unmarshal(%s) error = %v", s, err)
	}
	return data
}

// Test normal path resolution cases
func TestResolvePath_Normal(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		data     string
		expected any
	}{
		{
			name:     "top-level key",
			field:    "status",
			data:     `{"status": "active"}`,
			expected: "active",
		},
		{
			name:     "nested object traversal",
			field:    "applicant.name",
			data:     `{"applicant": {"name": "Alice"}}`,
			expected: "Alice",
		},
		{
			name:     "array index access",
			field:    "drivers.0.name",
			data:     `{"drivers": [{"name": "Bob"}]}`,
			expected: "Bob",
		},
		{
			name:     "second array element",
			field:    "limits.1",
			data:     `{"limits": [100, 250]}`,
			expected: float64(250),
		},
		{
			name:     "deep nesting",
			field:    "a.b.c.d",
			data:     `{"a": {"b": {"c": {"d": "deep"}}}}`,
			expected: "deep",
		},
		{
			name:     "numeric-looking object key",
			field:    "codes.0",
			data:     `{"codes": {"0": "zero"}}`,
			expected: "zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ResolvePath(tt.field, parseJSON(t, tt.data))
			if !found {
				t.Fatalf("ResolvePath(%q) found = false, want true", tt.field)
			}
			if got != tt.expected {
				t.Errorf("ResolvePath(%q) = %v, want %v", tt.field, got, tt.expected)
			}
		})
	}
}

// Test that a null leaf resolves as found with a nil value so exists/notExists
// can tell null apart from a type mismatch further up the path.
func TestResolvePath_NullLeaf(t *testing.T) {
	got, found := ResolvePath("applicant.middleName", parseJSON(t, `{"applicant": {"middleName": null}}`))
	if !found {
		t.Fatalf("ResolvePath() found = false, want true for explicit null")
	}
	if got != nil {
		t.Errorf("ResolvePath() = %v, want nil", got)
	}
}

// Test absent and unresolvable paths
func TestResolvePath_Absent(t *testing.T) {
	tests := []struct {
		name  string
		field string
		data  string
	}{
		{name: "missing key", field: "missing", data: `{"status": "active"}`},
		{name: "missing intermediate key", field: "a.b.c", data: `{"a": {"x": 1}}`},
		{name: "null at intermediate level", field: "applicant.name", data: `{"applicant": null}`},
		{name: "scalar mid-path", field: "status.nested", data: `{"status": "active"}`},
		{name: "index out of range", field: "limits.5", data: `{"limits": [100, 250]}`},
		{name: "negative index", field: "limits.-1", data: `{"limits": [100, 250]}`},
		{name: "string key on array", field: "limits.first", data: `{"limits": [100, 250]}`},
		{name: "empty field", field: "", data: `{"status": "active"}`},
		{name: "empty object", field: "anything", data: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ResolvePath(tt.field, parseJSON(t, tt.data))
			if found {
				t.Errorf("ResolvePath(%q) found = true, want false", tt.field)
			}
			if got != nil {
				t.Errorf("ResolvePath(%q) = %v, want nil", tt.field, got)
			}
		})
	}
}

// Test the path depth limit
func TestResolvePath_TooDeep(t *testing.T) {
	segments := make([]string, 17)
	for i := range segments {
		segments[i] = "a"
	}
	field := strings.Join(segments, ".")

	_, found := ResolvePath(field, map[string]any{"a": "value"})
	if found {
		t.Errorf("ResolvePath() found = true, want false for 17-segment path")
	}
}

// Property-based test: resolution never panics on arbitrary paths
func TestResolvePath_PropertyNeverPanics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	data := parseJSON(t, `{"a": {"b": [1, 2, {"c": null}]}, "s": "scalar", "n": 42}`)

	properties.Property("resolution never panics regardless of path shape", prop.ForAll(
		func(depth int, useIndex bool) bool {
			segments := make([]string, depth)
			for i := 0; i < depth; i++ {
				if useIndex && i%2 == 1 {
					segments[i] = fmt.Sprintf("%d", i)
				} else {
					segments[i] = string(rune('a' + i%4))
				}
			}

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("ResolvePath() panicked: %v", r)
				}
			}()

			_, _ = ResolvePath(strings.Join(segments, "."), data)
			return true
		},
		gen.IntRange(0, 20),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property-based test: resolution is deterministic
func TestResolvePath_PropertyDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	data := parseJSON(t, `{"a": {"b": {"c": "deep"}}, "arr": [10, 20, 30]}`)

	properties.Property("same path and data always resolve identically", prop.ForAll(
		func(pick int) bool {
			fields := []string{"a.b.c", "arr.1", "missing", "a.b", ""}
			field := fields[((pick%len(fields))+len(fields))%len(fields)]

			v1, ok1 := ResolvePath(field, data)
			v2, ok2 := ResolvePath(field, data)
			if ok1 != ok2 {
				return false
			}
			if ok1 && field != "a.b" {
				// a.b resolves to a map, which is not comparable with ==.
				return v1 == v2
			}
			return true
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}
