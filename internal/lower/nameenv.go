package lower

import (
	"math/big"

	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// irValueKind tags IrValue's two variants (spec.md §3, §9's "Tagged
// variant for IR values" design note).
type irValueKind uint8

const (
	valueComputed irValueKind = iota
	valueConstant
)

// IrValue is a tagged union: either a bare handle to a computed node, or
// a (compile-time value, handle) pair for a node known to be constant.
type IrValue struct {
	kind  irValueKind
	value *big.Int
	typ   irb.Type
	node  irb.Handle
}

func Computed(h irb.Handle) IrValue {
	return IrValue{kind: valueComputed, node: h}
}

func Constant(value *big.Int, typ irb.Type, h irb.Handle) IrValue {
	return IrValue{kind: valueConstant, value: value, typ: typ, node: h}
}

func (v IrValue) IsConstant() bool { return v.kind == valueConstant }

func (v IrValue) Handle() irb.Handle { return v.node }

// Value returns the compile-time value of a Constant IrValue; callers
// must check IsConstant first.
func (v IrValue) Value() *big.Int { return v.value }

// nameEnv maps AST-node identity to IrValue for the function currently
// being lowered (spec.md §3's "Name environment"). Keys are arena
// indices (ast.NodeID), never pointers.
type nameEnv struct {
	entries map[ast.NodeID]IrValue
}

func newNameEnv() *nameEnv {
	return &nameEnv{entries: make(map[ast.NodeID]IrValue)}
}

// SetNodeToIr is an idempotent replacement (spec.md §4.D).
func (e *nameEnv) SetNodeToIr(node ast.NodeID, value IrValue) {
	e.entries[node] = value
}

func (e *nameEnv) GetNodeToIr(node ast.NodeID) (IrValue, bool) {
	v, ok := e.entries[node]
	return v, ok
}

// Use looks up node, promoting a Constant entry to its handle. Absence
// is a program-order bug in the visit driver, reported as NotFound
// rather than fabricated (spec.md §3's invariants).
func (e *nameEnv) Use(node ast.NodeID, span source.Span) (irb.Handle, error) {
	v, ok := e.entries[node]
	if !ok {
		return irb.Handle{}, diagx.NotFoundf(span, "node %+v used before it was defined", node)
	}
	return v.node, nil
}

// DefAlias copies from's entry under to's key. If to is a name-definition
// node and from's value is Computed, the IR node's debug name is set to
// to's identifier (spec.md §4.D).
func (e *nameEnv) DefAlias(from, to ast.NodeID, toIdentifier string, toIsNameDef bool) error {
	v, ok := e.entries[from]
	if !ok {
		return diagx.NotFoundf(noSpan, "alias source node %+v has no entry", from)
	}
	e.entries[to] = v
	if toIsNameDef && v.kind == valueComputed {
		v.node.SetName(toIdentifier)
	}
	return nil
}

// Def invokes build (which constructs the IR node via the builder),
// records the result under node, and returns it. The caller supplies
// build already closed over the engine's function builder and span.
func (e *nameEnv) Def(node ast.NodeID, build func() (irb.Handle, error)) (irb.Handle, error) {
	h, err := build()
	if err != nil {
		return irb.Handle{}, err
	}
	e.entries[node] = Computed(h)
	return h, nil
}

// DefConst inserts a Constant entry and associates it with node. The
// literal IR node must already have been emitted by the caller (via
// internal/lower/constfold.go's numeric encoder).
func (e *nameEnv) DefConst(node ast.NodeID, value *big.Int, typ irb.Type, h irb.Handle) {
	e.entries[node] = Constant(value, typ, h)
}

// GetConstValue returns the compile-time value recorded for node, failing
// Internal if absent or not a Constant (spec.md §4.C).
func (e *nameEnv) GetConstValue(node ast.NodeID) (*big.Int, error) {
	v, ok := e.entries[node]
	if !ok || v.kind != valueConstant {
		return nil, diagx.Internalf(noSpan, "node %+v is not a constant", node)
	}
	return v.value, nil
}
