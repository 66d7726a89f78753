package irb

import "hdlower/internal/source"

func (fb *FunctionBuilder) Not(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpNot, typ: operand.GetType(), operands: []Handle{operand}}, span)
}

func (fb *FunctionBuilder) Reverse(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpReverse, typ: operand.GetType(), operands: []Handle{operand}}, span)
}

// Clz/Ctz keep the operand's bit width, per the builtin dispatcher's
// contract (spec.md §4.F: "clz / ctz | 1 | direct IR op").
func (fb *FunctionBuilder) Clz(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpClz, typ: operand.GetType(), operands: []Handle{operand}}, span)
}

func (fb *FunctionBuilder) Ctz(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpCtz, typ: operand.GetType(), operands: []Handle{operand}}, span)
}

// Concat emits a bits-typed concatenation of lhs then rhs (spec.md
// §4.E's Concat case for a bits result type).
func (fb *FunctionBuilder) Concat(lhs, rhs Handle, typ Type, span source.Span) Handle {
	return fb.add(node{kind: OpConcat, typ: typ, operands: []Handle{lhs, rhs}}, span)
}

// ArrayConcat is Concat's array-typed counterpart.
func (fb *FunctionBuilder) ArrayConcat(lhs, rhs Handle, typ Type, span source.Span) Handle {
	return fb.add(node{kind: OpArrayConcat, typ: typ, operands: []Handle{lhs, rhs}}, span)
}

// BitSlice takes a statically-known start and width.
func (fb *FunctionBuilder) BitSlice(operand Handle, start, width uint32, span source.Span) Handle {
	return fb.add(node{
		kind:     OpBitSlice,
		typ:      BitsType(width),
		operands: []Handle{operand},
		index:    start,
		width:    width,
	}, span)
}

// DynamicBitSlice takes a runtime-computed start (spec.md §4.E: "lower
// start dynamically, width from the resolved result type").
func (fb *FunctionBuilder) DynamicBitSlice(operand, start Handle, width uint32, span source.Span) Handle {
	return fb.add(node{
		kind:     OpDynamicBitSlice,
		typ:      BitsType(width),
		operands: []Handle{operand, start},
		width:    width,
	}, span)
}

func (fb *FunctionBuilder) SignExtend(operand Handle, newWidth uint32, span source.Span) Handle {
	return fb.add(node{kind: OpSignExtend, typ: BitsType(newWidth), operands: []Handle{operand}, width: newWidth}, span)
}

func (fb *FunctionBuilder) ZeroExtend(operand Handle, newWidth uint32, span source.Span) Handle {
	return fb.add(node{kind: OpZeroExtend, typ: BitsType(newWidth), operands: []Handle{operand}, width: newWidth}, span)
}
