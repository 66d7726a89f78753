package irb

import "hdlower/internal/source"

// OneHot emits a one-hot encoding of operand, priority-checked from the
// named end (spec.md §4.F: "IR OneHot(LSB if lsb_prio_bit else MSB)").
// The result has one extra bit over the input (the catch-all "none set"
// case), matching the underlying IR's real OneHot semantics.
func (fb *FunctionBuilder) OneHot(operand Handle, priority OneHotPriority, span source.Span) Handle {
	resultWidth := operand.GetType().BitCount() + 1
	return fb.add(node{kind: OpOneHot, typ: BitsType(resultWidth), operands: []Handle{operand}, priority: priority}, span)
}

// OneHotSelect selects among cases by a one-hot selector (spec.md §4.F:
// "cases drawn from an array-literal AST node").
func (fb *FunctionBuilder) OneHotSelect(selector Handle, cases []Handle, typ Type, span source.Span) Handle {
	operands := make([]Handle, 0, len(cases)+1)
	operands = append(operands, selector)
	operands = append(operands, cases...)
	return fb.add(node{kind: OpOneHotSelect, typ: typ, operands: operands}, span)
}

// MatchTrue implements the compiled form of a pattern match: the first
// selector in selectors that evaluates true selects the corresponding
// value; defaultValue is used if none do (spec.md §4.G).
func (fb *FunctionBuilder) MatchTrue(selectors, values []Handle, defaultValue Handle, typ Type, span source.Span) Handle {
	if len(selectors) != len(values) {
		panic("irb: MatchTrue selectors/values length mismatch")
	}
	operands := make([]Handle, 0, len(selectors)+len(values)+1)
	operands = append(operands, selectors...)
	operands = append(operands, values...)
	operands = append(operands, defaultValue)
	return fb.add(node{kind: OpMatchTrue, typ: typ, operands: operands}, span)
}

// Select is a two-case MatchTrue specialization (spec.md §4.E: "Select(test,
// consequent, alternate) — a two-case select").
func (fb *FunctionBuilder) Select(test, consequent, alternate Handle, span source.Span) Handle {
	return fb.add(node{
		kind:     OpSelect,
		typ:      consequent.GetType(),
		operands: []Handle{test, consequent, alternate},
	}, span)
}

func (fb *FunctionBuilder) AndReduce(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpAndReduce, typ: BitsType(1), operands: []Handle{operand}}, span)
}
func (fb *FunctionBuilder) OrReduce(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpOrReduce, typ: BitsType(1), operands: []Handle{operand}}, span)
}
func (fb *FunctionBuilder) XorReduce(operand Handle, span source.Span) Handle {
	return fb.add(node{kind: OpXorReduce, typ: BitsType(1), operands: []Handle{operand}}, span)
}

// Map applies fn elementwise to arr (spec.md §4.F's higher-order builtin).
func (fb *FunctionBuilder) Map(arr Handle, fn *Function, typ Type, span source.Span) Handle {
	return fb.add(node{kind: OpMap, typ: typ, operands: []Handle{arr}, mapFn: fn}, span)
}
