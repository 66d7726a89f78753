package irb

// Handle is a reference to one node inside a particular FunctionBuilder.
// It pairs a pointer to its FunctionBuilder with the node's 1-based id
// in that builder's node table.
type Handle struct {
	fn *FunctionBuilder
	id uint32
}

func (h Handle) node() *node {
	return &h.fn.nodes[h.id-1]
}

// SetName assigns a debug name to the IR node h refers to. Attr
// projections and Let aliasing both call this (spec.md §4.D, §4.E).
func (h Handle) SetName(name string) {
	n := h.node()
	n.name = name
	n.hasName = true
}

// GetName returns the assigned debug name, or "" if none was set.
func (h Handle) GetName() string {
	return h.node().name
}

func (h Handle) HasAssignedName() bool {
	return h.node().hasName
}

// GetType returns the IR type the node was constructed with.
func (h Handle) GetType() Type {
	return h.node().typ
}

// Valid reports whether h refers to a real node rather than the zero
// Handle (used as a "no value" sentinel, e.g. a function with no return
// expression lowered yet).
func (h Handle) Valid() bool {
	return h.fn != nil && h.id != 0
}
