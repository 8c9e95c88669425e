package draft

import "fmt"

// Metadata coercion helpers.
//
// In-process emitters put typed values ([]Frame, map[string][]string)
// into event metadata; events replayed from a msgpack artifact come back
// as generic maps and slices. Both shapes are accepted here so the CLI
// can re-classify offline.

func metaString(md map[string]any, key string) string {
	if v, ok := md[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func metaFrames(v any) []Frame {
	switch frames := v.(type) {
	case []Frame:
		return frames
	case []any:
		out := make([]Frame, 0, len(frames))
		for _, raw := range frames {
			m, ok := asStringMap(raw)
			if !ok {
				continue
			}
			out = append(out, Frame{
				File: toInt(m["file"]),
				Line: toInt(m["line"]),
				Func: fmt.Sprint(m["func"]),
			})
		}
		return out
	default:
		return nil
	}
}

func metaSymbolSources(v any) map[string][]string {
	switch sources := v.(type) {
	case map[string][]string:
		return sources
	case map[string]any:
		out := make(map[string][]string, len(sources))
		for sym, raw := range sources {
			list, ok := raw.([]any)
			if !ok {
				continue
			}
			strs := make([]string, 0, len(list))
			for _, s := range list {
				strs = append(strs, fmt.Sprint(s))
			}
			out[sym] = strs
		}
		return out
	default:
		return nil
	}
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
