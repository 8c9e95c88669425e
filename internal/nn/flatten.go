package nn

import (
	"fmt"
	"strconv"
	"strings"
)

// WrapMeta records how to rebuild one wrapped parameter from the plain
// tensors it was flattened into. Children holds one entry per inner
// attribute; a nil entry marks a plain leaf.
type WrapMeta struct {
	StartIdx   int
	NumTensors int
	Kind       string
	Metadata   any
	Attrs      []string
	Children   map[string]*WrapMeta
}

// FlattenWrappedParams replaces every wrapped parameter in the module
// tree with its plain leaf tensors, in place. Leaves are renamed
// "flat.<original>.<i>", so state dicts of flattened models are not
// compatible with the original model. Returns rebuild metadata keyed by
// the original parameter's fully-qualified name.
//
// Flattening removes per-step wrapper unflatten overhead from traced
// runs: the tracer sees only plain tensors.
func FlattenWrappedParams(m *Module) map[string]*WrapMeta {
	metas := make(map[string]*WrapMeta)
	flattenModule(m, "", metas)
	return metas
}

func flattenModule(m *Module, prefix string, metas map[string]*WrapMeta) {
	var params []*Parameter
	for _, p := range m.params {
		if !p.Wrapped() {
			params = append(params, p)
			continue
		}

		var leaves []*Parameter
		meta, _ := collectLeaves(p, 0, &leaves)
		metas[joinFQN(prefix, p.Name)] = meta

		for i, leaf := range leaves {
			params = append(params, &Parameter{
				Name: fmt.Sprintf("flat.%s.%d", p.Name, i),
				Meta: leaf.Meta,
			})
		}
	}
	m.params = params

	for _, c := range m.children {
		flattenModule(c, joinFQN(prefix, c.name), metas)
	}
}

// collectLeaves walks a (possibly nested) wrapper depth-first in
// attribute order, appending plain leaves and building the rebuild
// metadata. Returns nil metadata for a plain parameter.
func collectLeaves(p *Parameter, idx int, leaves *[]*Parameter) (*WrapMeta, int) {
	if !p.Wrapped() {
		*leaves = append(*leaves, p)
		return nil, idx + 1
	}

	meta := &WrapMeta{
		StartIdx: idx,
		Kind:     p.WrapperKind,
		Metadata: p.Metadata,
		Attrs:    append([]string(nil), p.Attrs...),
		Children: make(map[string]*WrapMeta, len(p.Attrs)),
	}
	next := idx
	for _, attr := range p.Attrs {
		childMeta, n := collectLeaves(p.Inner[attr], next, leaves)
		meta.Children[attr] = childMeta
		next = n
	}
	meta.NumTensors = next - idx
	return meta, next
}

// RebuildWrappedParams reverses FlattenWrappedParams: for each recorded
// original parameter it gathers the "flat.<name>.<i>" leaves back into
// the wrapper structure. The module tree is modified in place.
func RebuildWrappedParams(m *Module, metas map[string]*WrapMeta) error {
	return rebuildModule(m, "", metas)
}

func rebuildModule(m *Module, prefix string, metas map[string]*WrapMeta) error {
	// Group rebuilds by original name while preserving ordering of the
	// surrounding plain parameters.
	var params []*Parameter
	for i := 0; i < len(m.params); i++ {
		p := m.params[i]
		orig, flatIdx, ok := parseFlatName(p.Name)
		if !ok {
			params = append(params, p)
			continue
		}
		meta := metas[joinFQN(prefix, orig)]
		if meta == nil {
			return fmt.Errorf("no rebuild metadata for parameter %q", joinFQN(prefix, orig))
		}
		if flatIdx != 0 {
			return fmt.Errorf("flattened leaves of %q are out of order", orig)
		}
		if i+meta.NumTensors > len(m.params) {
			return fmt.Errorf("parameter %q: expected %d leaves, found %d", orig, meta.NumTensors, len(m.params)-i)
		}

		leaves := m.params[i : i+meta.NumTensors]
		rebuilt, _ := rebuildParam(meta, orig, leaves, 0)
		rebuilt.Name = orig
		params = append(params, rebuilt)
		i += meta.NumTensors - 1
	}
	m.params = params

	for _, c := range m.children {
		if err := rebuildModule(c, joinFQN(prefix, c.name), metas); err != nil {
			return err
		}
	}
	return nil
}

func rebuildParam(meta *WrapMeta, name string, leaves []*Parameter, offset int) (*Parameter, int) {
	if meta == nil {
		leaf := leaves[offset]
		return &Parameter{Name: name, Meta: leaf.Meta}, offset + 1
	}

	inner := make([]*Parameter, 0, len(meta.Attrs))
	for _, attr := range meta.Attrs {
		child, next := rebuildParam(meta.Children[attr], attr, leaves, offset)
		inner = append(inner, child)
		offset = next
	}
	return NewWrappedParameter(name, meta.Kind, meta.Metadata, inner), offset
}

// parseFlatName splits "flat.<orig>.<i>" into its parts.
func parseFlatName(name string) (orig string, idx int, ok bool) {
	rest, found := strings.CutPrefix(name, "flat.")
	if !found {
		return "", 0, false
	}
	last := strings.LastIndexByte(rest, '.')
	if last < 1 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(rest[last+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:last], idx, true
}
