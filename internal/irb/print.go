package irb

import (
	"fmt"
	"io"
)

// DumpPackage writes a human-readable textual form of every function in
// p, in registration order.
func DumpPackage(w io.Writer, p *Package) error {
	names := p.FunctionNames()
	fmt.Fprintf(w, "package %s\n", p.name)
	for _, name := range names {
		fn, _ := p.GetFunction(name)
		if err := DumpFunction(w, fn); err != nil {
			return err
		}
	}
	return nil
}

// DumpFunction writes fn's parameters, every node in emission order, and
// its return value.
func DumpFunction(w io.Writer, fn *Function) error {
	fmt.Fprintf(w, "fn %s(", fn.Name)
	for i, p := range fn.Params {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%s: %s", p.GetName(), p.GetType())
	}
	fmt.Fprintf(w, ") -> %s {\n", fn.Result)
	for i := range fn.Nodes {
		fmt.Fprintf(w, "  %s\n", describeNode(&fn.Nodes[i], i))
	}
	fmt.Fprintf(w, "  ret n%d\n}\n", fn.Return.id)
	return nil
}

func describeNode(n *node, idx int) string {
	label := ""
	if n.hasName {
		label = " " + n.name
	}
	operandIDs := make([]string, len(n.operands))
	for i, o := range n.operands {
		operandIDs[i] = fmt.Sprintf("n%d", o.id)
	}
	extra := ""
	switch n.kind {
	case OpLiteral:
		extra = fmt.Sprintf(" lit=%s", n.literal)
	case OpBitSlice:
		extra = fmt.Sprintf(" start=%d width=%d", n.index, n.width)
	case OpSignExtend, OpZeroExtend:
		extra = fmt.Sprintf(" width=%d", n.width)
	case OpTupleIndex:
		extra = fmt.Sprintf(" index=%d", n.index)
	case OpMap:
		extra = fmt.Sprintf(" fn=%s", n.mapFn.Name)
	case OpGeneric:
		extra = fmt.Sprintf(" name=%s", n.genericName)
	}
	return fmt.Sprintf("n%d = %s %s : %s%s%s", idx+1, opName(n.kind), operandIDs, n.typ, extra, label)
}

func opName(k OpKind) string {
	names := map[OpKind]string{
		OpLiteral: "literal", OpParam: "param",
		OpAdd: "add", OpSub: "sub", OpUMul: "umul", OpSMul: "smul", OpUDiv: "udiv",
		OpEq: "eq", OpNe: "ne",
		OpUGe: "uge", OpUGt: "ugt", OpULe: "ule", OpULt: "ult",
		OpSGe: "sge", OpSGt: "sgt", OpSLe: "sle", OpSLt: "slt",
		OpAnd: "and", OpOr: "or", OpXor: "xor",
		OpShll: "shll", OpShrl: "shrl", OpShra: "shra",
		OpConcat: "concat", OpArrayConcat: "array_concat",
		OpArray: "array", OpArrayIndex: "array_index", OpArrayUpdate: "array_update",
		OpTuple: "tuple", OpTupleIndex: "tuple_index",
		OpBitSlice: "bit_slice", OpDynamicBitSlice: "dynamic_bit_slice",
		OpSignExtend: "sign_extend", OpZeroExtend: "zero_extend",
		OpNeg: "neg", OpNot: "not", OpReverse: "reverse",
		OpClz: "clz", OpCtz: "ctz",
		OpOneHot: "one_hot", OpOneHotSelect: "one_hot_select",
		OpMatchTrue: "match_true", OpSelect: "select",
		OpAndReduce: "and_reduce", OpOrReduce: "or_reduce", OpXorReduce: "xor_reduce",
		OpMap: "map", OpGeneric: "generic",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", k)
}
