package irb

import "hdlower/internal/source"

// AddUnOp and AddNaryOp are the escape hatch spec.md §9 calls for: "a
// systems-language port should expose... with exhaustive dispatch", but
// the underlying IR may grow ops this package's named constructors don't
// yet cover. Both tag the node with a name rather than a dedicated
// OpKind case, so a caller never needs a package change to reach a new
// primitive op.
func (fb *FunctionBuilder) AddUnOp(opName string, operand Handle, typ Type, span source.Span) Handle {
	return fb.add(node{kind: OpGeneric, typ: typ, operands: []Handle{operand}, genericName: opName}, span)
}

func (fb *FunctionBuilder) AddNaryOp(opName string, operands []Handle, typ Type, span source.Span) Handle {
	return fb.add(node{kind: OpGeneric, typ: typ, operands: operands, genericName: opName}, span)
}
