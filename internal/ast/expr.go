package ast

import "hdlower/internal/source"

// ExprKind enumerates the expression forms the lowering engine recognizes.
// Any kind without a handler in internal/lower is rejected with
// diagx.Unimplemented rather than silently skipped (spec.md §9, open
// question "missing AST kinds").
type ExprKind uint8

const (
	ExprNumber ExprKind = iota
	ExprUnop
	ExprBinop
	ExprConcat
	ExprCast
	ExprXlsTuple
	ExprStructInstance
	ExprSplatStructInstance
	ExprAttr
	ExprIndex
	ExprArrayLit
	ExprConstantArray
	ExprTernary
	ExprColonRef
	ExprLet
	ExprMatch
	ExprInvocation
	ExprNameRef
)

// Expr is a node in the per-kind arena. Kind-specific data lives in a
// sibling arena and is addressed by Payload, mirroring how a tagged union
// would be represented without relying on interface dispatch or RTTI.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// UnopKind enumerates supported unary operators.
type UnopKind uint8

const (
	UnopNegate UnopKind = iota // arithmetic negation
	UnopInvert                 // bitwise complement
)

// BinopKind enumerates supported binary operators.
type BinopKind uint8

const (
	BinopAdd BinopKind = iota
	BinopSub
	BinopMul
	BinopDiv
	BinopEq
	BinopNe
	BinopGe
	BinopGt
	BinopLe
	BinopLt
	BinopShll
	BinopShrl
	BinopShra
	BinopAnd
	BinopOr
	BinopXor
	BinopLogicalAnd
	BinopLogicalOr
)

// IndexRhsKind distinguishes the three dispatch cases of Index lowering
// (spec.md §4.E): a plain tuple/array index, a bit slice with a dynamic
// start and a width taken from the result type, and a statically
// pre-resolved bit slice.
type IndexRhsKind uint8

const (
	IndexPlain IndexRhsKind = iota
	IndexWidthSlice
	IndexSlice
)

type (
	NumberData struct {
		// Text is the literal's decimal or 0x-prefixed text; the width and
		// signedness come from type resolution, not from the text itself.
		Text string
	}

	UnopData struct {
		Op      UnopKind
		Operand ExprID
	}

	BinopData struct {
		Op  BinopKind
		Lhs ExprID
		Rhs ExprID
	}

	ConcatData struct {
		Lhs ExprID
		Rhs ExprID
	}

	CastData struct {
		Operand ExprID
		Target  TypeRefID
	}

	XlsTupleData struct {
		Members []ExprID
	}

	StructFieldInit struct {
		Name  string
		Value ExprID
	}

	StructInstanceData struct {
		StructName string
		Fields     []StructFieldInit
	}

	SplatStructInstanceData struct {
		Base       ExprID
		StructName string
		Updates    []StructFieldInit
	}

	AttrData struct {
		Lhs   ExprID
		Field string
	}

	IndexData struct {
		Lhs ExprID
		Rhs ExprID // Plain: tuple index literal or array index expr
		// WidthSliceStart is the dynamic start operand for a WidthSlice
		// index (x[start +: width], width taken from the result type).
		WidthSliceStart ExprID
		RhsKind         IndexRhsKind
	}

	ArrayLitData struct {
		Elements []ExprID
		Ellipsis bool
	}

	ConstantArrayData struct {
		Elements []ExprID
		Ellipsis bool
	}

	TernaryData struct {
		Test       ExprID
		Consequent ExprID
		Alternate  ExprID
	}

	ColonRefData struct {
		Subject string // imported module alias, or a type/enum name
		Member  string
	}

	MapFnRef struct {
		IsColonRef bool
		Module     string // set when IsColonRef
		Name       string
	}

	InvocationData struct {
		Callee string
		Args   []ExprID
		// MapFn is populated only when Callee == "map"; it names the
		// second argument's name-ref or colon-ref target directly, since
		// the callee there is a function, not a value.
		MapFn *MapFnRef
	}

	NameRefData struct {
		Name   string
		Target NameDefID
	}
)
