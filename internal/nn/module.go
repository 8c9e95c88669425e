// Package nn carries the minimal module-tree model used by the export
// pipeline: named parameters, named children, and the wrapped-parameter
// flattening transform applied before tracing.
//
// Layer math lives with the runtime; exporting a model only needs its
// parameter structure.
package nn

import (
	"sort"

	"github.com/vellum-ml/vellum/internal/tensor"
)

// Module is a node in a model tree: its own parameters plus named
// children.
type Module struct {
	name     string
	params   []*Parameter
	children []*Module
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the module's name.
func (m *Module) Name() string {
	return m.name
}

// AddParameter registers a parameter on this module.
func (m *Module) AddParameter(p *Parameter) {
	m.params = append(m.params, p)
}

// AddChild attaches a child module.
func (m *Module) AddChild(c *Module) {
	m.children = append(m.children, c)
}

// Parameters returns this module's own parameters in registration order.
func (m *Module) Parameters() []*Parameter {
	return m.params
}

// Children returns the child modules in attachment order.
func (m *Module) Children() []*Module {
	return m.children
}

// NamedParameters returns every parameter in the tree keyed by its
// fully-qualified dotted name.
func (m *Module) NamedParameters() map[string]*Parameter {
	out := make(map[string]*Parameter)
	m.collectNamed("", out)
	return out
}

func (m *Module) collectNamed(prefix string, out map[string]*Parameter) {
	for _, p := range m.params {
		out[joinFQN(prefix, p.Name)] = p
	}
	for _, c := range m.children {
		c.collectNamed(joinFQN(prefix, c.name), out)
	}
}

// SortedParameterNames returns the FQNs of all parameters, sorted.
// Useful for stable serialization and test assertions.
func (m *Module) SortedParameterNames() []string {
	named := m.NamedParameters()
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinFQN(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Parameter is a named model parameter.
//
// A plain parameter carries only tensor metadata. A wrapped parameter
// is a composite: an ordered set of named inner parameters plus opaque
// metadata needed to reconstitute the wrapper (e.g. a quantized weight
// carrying its scales and zero points). Wrappers may nest.
type Parameter struct {
	Name string
	Meta tensor.Meta

	// Wrapper fields; empty for plain parameters.
	WrapperKind string
	Attrs       []string // ordered inner attribute names
	Inner       map[string]*Parameter
	Metadata    any
}

// NewParameter creates a plain parameter.
func NewParameter(name string, meta tensor.Meta) *Parameter {
	return &Parameter{Name: name, Meta: meta}
}

// NewWrappedParameter creates a composite parameter of the given
// wrapper kind over the ordered inner parameters.
func NewWrappedParameter(name, kind string, metadata any, inner []*Parameter) *Parameter {
	attrs := make([]string, len(inner))
	m := make(map[string]*Parameter, len(inner))
	for i, p := range inner {
		attrs[i] = p.Name
		m[p.Name] = p
	}
	return &Parameter{
		Name:        name,
		WrapperKind: kind,
		Attrs:       attrs,
		Inner:       m,
		Metadata:    metadata,
	}
}

// Wrapped reports whether the parameter is a composite wrapper.
func (p *Parameter) Wrapped() bool {
	return len(p.Attrs) > 0
}
