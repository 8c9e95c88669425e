package graph

// GuardOp is the operator identifier of inserted guard nodes.
const GuardOp = "vellum::assert_tensor_metadata"

// InsertOpGuards splices a guard node after every node whose operator is
// in ops. The guard asserts at runtime that the real outputs match the
// metadata the (missing or mismatched) fake kernel produced during
// tracing. Returns the number of guards inserted.
//
// Existing guard nodes are never guarded again, so the pass is
// idempotent per operator.
func InsertOpGuards(p *Program, ops []string) int {
	if p == nil || len(ops) == 0 {
		return 0
	}
	guarded := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		guarded[op] = struct{}{}
	}

	inserted := 0
	out := make([]Node, 0, len(p.Nodes))
	for i, node := range p.Nodes {
		out = append(out, node)
		if node.Op == GuardOp {
			continue
		}
		if _, ok := guarded[node.Op]; !ok {
			continue
		}
		// Already guarded by a previous pass.
		if i+1 < len(p.Nodes) && p.Nodes[i+1].Op == GuardOp && p.Nodes[i+1].Name == node.Name+"_guard" {
			continue
		}
		guard := Node{
			Name:    node.Name + "_guard",
			Op:      GuardOp,
			Inputs:  append([]string(nil), node.Outputs...),
			Outputs: append([]string(nil), node.Outputs...),
			Attrs:   map[string]any{"guarded_op": node.Op},
		}
		out = append(out, guard)
		inserted++
	}
	p.Nodes = out
	return inserted
}
