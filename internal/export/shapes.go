package export

import (
	"fmt"
	"sort"
	"strings"
)

// DimKind distinguishes the ways a single tensor dimension can be
// specified in a ShapeSpec.
type DimKind int

const (
	// DimStatic pins the dimension to one size.
	DimStatic DimKind = iota
	// DimDynamic names the dimension and bounds its range.
	DimDynamic
	// DimAuto lets the tracer infer the dynamism.
	DimAuto
)

// Dim specifies a single dimension of an input tensor.
type Dim struct {
	Kind DimKind
	Size int    // static size (DimStatic)
	Name string // symbol name (DimDynamic)
	Min  int    // lower bound (DimDynamic)
	Max  int    // upper bound (DimDynamic, 0 means unbounded)
}

// Static returns a dimension pinned to size n.
func Static(n int) Dim {
	return Dim{Kind: DimStatic, Size: n}
}

// Dynamic returns a named dynamic dimension bounded by [min, max].
func Dynamic(name string, min, max int) Dim {
	return Dim{Kind: DimDynamic, Name: name, Min: min, Max: max}
}

// Auto returns a dimension whose dynamism the tracer infers.
func Auto() Dim {
	return Dim{Kind: DimAuto}
}

// String renders the dimension as it appears in reports.
func (d Dim) String() string {
	switch d.Kind {
	case DimStatic:
		return fmt.Sprint(d.Size)
	case DimDynamic:
		if d.Max == 0 {
			return fmt.Sprintf("Dim(%q, min=%d)", d.Name, d.Min)
		}
		return fmt.Sprintf("Dim(%q, min=%d, max=%d)", d.Name, d.Min, d.Max)
	case DimAuto:
		return "Auto"
	default:
		return "invalid"
	}
}

// ShapeSpec is a dynamic-shape specification: for each input name, the
// dimensions that deviate from fully-static shapes, keyed by dim index.
type ShapeSpec map[string]map[int]Dim

// Clone returns a deep copy of the spec.
func (s ShapeSpec) Clone() ShapeSpec {
	out := make(ShapeSpec, len(s))
	for input, dims := range s {
		cp := make(map[int]Dim, len(dims))
		for idx, d := range dims {
			cp[idx] = d
		}
		out[input] = cp
	}
	return out
}

// String renders the spec as a deterministic literal, suitable for
// echoing verbatim in a report.
func (s ShapeSpec) String() string {
	if len(s) == 0 {
		return "{}"
	}
	inputs := make([]string, 0, len(s))
	for input := range s {
		inputs = append(inputs, input)
	}
	sort.Strings(inputs)

	var b strings.Builder
	b.WriteString("{")
	for i, input := range inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		dims := s[input]
		idxs := make([]int, 0, len(dims))
		for idx := range dims {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		fmt.Fprintf(&b, "%q: {", input)
		for j, idx := range idxs {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d: %s", idx, dims[idx])
		}
		b.WriteString("}")
	}
	b.WriteString("}")
	return b.String()
}
