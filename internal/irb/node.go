package irb

import (
	"math/big"

	"hdlower/internal/source"
)

// OpKind enumerates every IR op the lowering engine can emit (spec.md
// §6's "Required IR package API").
type OpKind uint8

const (
	OpLiteral OpKind = iota
	OpParam

	OpAdd
	OpSub
	OpUMul
	OpSMul
	OpUDiv

	OpEq
	OpNe
	OpUGe
	OpUGt
	OpULe
	OpULt
	OpSGe
	OpSGt
	OpSLe
	OpSLt

	OpAnd
	OpOr
	OpXor

	OpShll
	OpShrl
	OpShra

	OpConcat
	OpArrayConcat

	OpArray
	OpArrayIndex
	OpArrayUpdate

	OpTuple
	OpTupleIndex

	OpBitSlice
	OpDynamicBitSlice
	OpSignExtend
	OpZeroExtend

	OpNeg
	OpNot
	OpReverse
	OpClz
	OpCtz

	OpOneHot
	OpOneHotSelect

	OpMatchTrue
	OpSelect

	OpAndReduce
	OpOrReduce
	OpXorReduce

	OpMap

	// OpGeneric backs AddUnOp/AddNaryOp, the escape hatch for an op not
	// named in spec.md's required set (spec.md §9 names this kind of
	// generic constructor explicitly).
	OpGeneric
)

// OneHotPriority selects which end of a OneHot's input is checked first.
type OneHotPriority uint8

const (
	PriorityLSB OneHotPriority = iota
	PriorityMSB
)

// node is one IR value inside a FunctionBuilder's growing function. It is
// addressed only by Handle; callers never see *node directly, mirroring
// the arena-index-not-pointer discipline used throughout this module
// (internal/ast.Arena).
type node struct {
	kind OpKind
	typ  Type
	span source.Span

	name    string
	hasName bool

	operands []Handle

	// OpLiteral
	literal *big.Int

	// OpTupleIndex / OpBitSlice (static start)
	index uint32
	// OpBitSlice / OpSignExtend / OpZeroExtend (target width)
	width uint32

	// OpOneHot
	priority OneHotPriority

	// OpMap
	mapFn *Function

	// OpGeneric
	genericName string
}
