// internal/rules/fieldpath.go
package rules

import (
	"strconv"
	"strings"

	"github.com/haldane/riskgate/internal/types"
)

/*
 * Field path resolution for evaluation contexts.
 *
 * Resolves dotted paths ("applicant.age", "coverage.limits.2") through the
 * nested map produced by unmarshaling an evaluation context. Numeric
 * segments index into arrays.
 *
 * Resolution never errors: an absent key, an out-of-range index, a scalar
 * in the middle of the path, or a path deeper than MaxFieldPathDepth all
 * resolve to (nil, false). The exists/notExists operators and the
 * condition diagnostics are the places that distinguish missing from null,
 * so the walker only has to report what it found.
 */

// ResolvePath walks data along the dotted field path. The second return is
// false when the path did not resolve to a value.
func ResolvePath(field string, data map[string]any) (any, bool) {
	if field == "" {
		return nil, false
	}
	segments := strings.Split(field, ".")
	if len(segments) > types.MaxFieldPathDepth {
		return nil, false
	}

	var current any = data
	for _, seg := range segments {
		switch v := current.(type) {
		case map[string]any:
			val, ok := v[seg]
			if !ok {
				return nil, false
			}
			current = val
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			// Scalar or null mid-path.
			return nil, false
		}
	}
	return current, true
}
