// Package debug renders runtime values in a friendly one-line form for
// diagnostic output. Tensor metadata prints as a compact summary rather
// than dumping buffers; aggregates are walked recursively.
package debug

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vellum-ml/vellum/internal/tensor"
)

// FriendlyString renders a value for inclusion in diagnostics.
func FriendlyString(v any) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case tensor.Meta:
		return val.String()
	case *tensor.Meta:
		if val == nil {
			return "<nil>"
		}
		return val.String()
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FriendlyString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, FriendlyString(val[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

// MapDebugInfo applies FriendlyString over an aggregate, returning a
// same-shaped structure of rendered strings. Non-aggregates render to a
// single string.
func MapDebugInfo(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = MapDebugInfo(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = MapDebugInfo(item)
		}
		return out
	default:
		return FriendlyString(v)
	}
}
