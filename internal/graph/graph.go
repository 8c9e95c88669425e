// Package graph holds the minimal exported-program representation
// produced by a tracing run.
//
// The full graph compiler is a separate concern; the export pipeline
// only needs to carry the traced program around, summarize it, and
// splice guard nodes next to custom operators whose fake kernels were
// flagged during the draft run.
package graph

import "fmt"

// Node is a single operation in an exported program.
type Node struct {
	Name    string
	Op      string // operator identifier, e.g. "MatMul" or "my::rope"
	Inputs  []string
	Outputs []string
	Attrs   map[string]any
}

// Program is a traced computation graph in topological order.
type Program struct {
	Name    string
	Nodes   []Node
	Inputs  []string
	Outputs []string
}

// String returns a one-line summary of the program.
func (p *Program) String() string {
	return fmt.Sprintf("Program(%s, %d nodes, %d inputs, %d outputs)",
		p.Name, len(p.Nodes), len(p.Inputs), len(p.Outputs))
}

// FindNodes returns all nodes with the given operator identifier.
func (p *Program) FindNodes(op string) []*Node {
	var out []*Node
	for i := range p.Nodes {
		if p.Nodes[i].Op == op {
			out = append(out, &p.Nodes[i])
		}
	}
	return out
}
