package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerUnop implements Negate -> Neg, Invert -> Not (spec.md §4.E).
func (e *Engine) lowerUnop(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Unop(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Operand); err != nil {
		return irb.Handle{}, err
	}
	operandHandle, err := e.env.Use(data.Operand.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		switch data.Op {
		case ast.UnopNegate:
			return e.builder.Neg(operandHandle, e.span(span)), nil
		case ast.UnopInvert:
			return e.builder.Not(operandHandle, e.span(span)), nil
		default:
			return irb.Handle{}, diagx.Internalf(e.span(span), "unknown unop kind %d", data.Op)
		}
	})
}

// lowerBinop dispatches per spec.md §4.E's table; signedness is read
// from the LHS's resolved ConcreteType when the op has distinct
// unsigned/signed IR forms. Division always lowers to UDiv, even for
// signed operands (spec.md §9's open question, preserved deliberately).
func (e *Engine) lowerBinop(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Binop(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Lhs); err != nil {
		return irb.Handle{}, err
	}
	if _, err := e.LowerExpr(data.Rhs); err != nil {
		return irb.Handle{}, err
	}
	lhs, err := e.env.Use(data.Lhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	rhs, err := e.env.Use(data.Rhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}

	lhsType, err := e.ResolveType(data.Lhs.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	signed := lhsType.Kind == hirtypes.KindBits && lhsType.Signed

	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		switch data.Op {
		case ast.BinopAdd:
			return e.builder.Add(lhs, rhs, e.span(span)), nil
		case ast.BinopSub:
			return e.builder.Sub(lhs, rhs, e.span(span)), nil
		case ast.BinopMul:
			resultType, _, err := e.resolveIrType(id.Node())
			if err != nil {
				return irb.Handle{}, err
			}
			if signed {
				return e.builder.SMul(lhs, rhs, resultType, e.span(span)), nil
			}
			return e.builder.UMul(lhs, rhs, resultType, e.span(span)), nil
		case ast.BinopDiv:
			return e.builder.UDiv(lhs, rhs, e.span(span)), nil
		case ast.BinopEq:
			return e.builder.Eq(lhs, rhs, e.span(span)), nil
		case ast.BinopNe:
			return e.builder.Ne(lhs, rhs, e.span(span)), nil
		case ast.BinopGe:
			if signed {
				return e.builder.SGe(lhs, rhs, e.span(span)), nil
			}
			return e.builder.UGe(lhs, rhs, e.span(span)), nil
		case ast.BinopGt:
			if signed {
				return e.builder.SGt(lhs, rhs, e.span(span)), nil
			}
			return e.builder.UGt(lhs, rhs, e.span(span)), nil
		case ast.BinopLe:
			if signed {
				return e.builder.SLe(lhs, rhs, e.span(span)), nil
			}
			return e.builder.ULe(lhs, rhs, e.span(span)), nil
		case ast.BinopLt:
			if signed {
				return e.builder.SLt(lhs, rhs, e.span(span)), nil
			}
			return e.builder.ULt(lhs, rhs, e.span(span)), nil
		case ast.BinopShll:
			return e.builder.Shll(lhs, rhs, e.span(span)), nil
		case ast.BinopShrl:
			return e.builder.Shrl(lhs, rhs, e.span(span)), nil
		case ast.BinopShra:
			return e.builder.Shra(lhs, rhs, e.span(span)), nil
		case ast.BinopAnd, ast.BinopLogicalAnd:
			return e.builder.And(lhs, rhs, e.span(span)), nil
		case ast.BinopOr, ast.BinopLogicalOr:
			return e.builder.Or(lhs, rhs, e.span(span)), nil
		case ast.BinopXor:
			return e.builder.Xor(lhs, rhs, e.span(span)), nil
		default:
			return irb.Handle{}, diagx.Internalf(e.span(span), "unknown binop kind %d", data.Op)
		}
	})
}

// lowerConcat emits Concat for a bits-typed result, ArrayConcat for an
// array-typed one (spec.md §4.E).
func (e *Engine) lowerConcat(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Concat(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Lhs); err != nil {
		return irb.Handle{}, err
	}
	if _, err := e.LowerExpr(data.Rhs); err != nil {
		return irb.Handle{}, err
	}
	lhs, err := e.env.Use(data.Lhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	rhs, err := e.env.Use(data.Rhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	resultType, ct, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		if ct.Kind == hirtypes.KindArray {
			return e.builder.ArrayConcat(lhs, rhs, resultType, e.span(span)), nil
		}
		return e.builder.Concat(lhs, rhs, resultType, e.span(span)), nil
	})
}

// lowerCast implements the four cast cases of spec.md §4.E.
func (e *Engine) lowerCast(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Cast(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Operand); err != nil {
		return irb.Handle{}, err
	}
	operand, err := e.env.Use(data.Operand.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	srcType, err := e.ResolveType(data.Operand.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	dstType, err := e.ResolveAnnotation(data.Target)
	if err != nil {
		return irb.Handle{}, err
	}
	dstIrType, err := e.TypeToIr(dstType)
	if err != nil {
		return irb.Handle{}, err
	}

	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		switch {
		case dstType.Kind == hirtypes.KindArray && srcType.Kind == hirtypes.KindBits:
			return e.castBitsToArray(operand, srcType, dstType, dstIrType, span)
		case dstType.Kind == hirtypes.KindBits && srcType.Kind == hirtypes.KindArray:
			return e.castArrayToBits(operand, srcType, span)
		case dstType.Kind == hirtypes.KindBits && srcType.Kind == hirtypes.KindBits:
			if dstType.Width <= srcType.Width {
				return e.builder.BitSlice(operand, 0, dstType.Width, e.span(span)), nil
			}
			if srcType.Signed {
				return e.builder.SignExtend(operand, dstType.Width, e.span(span)), nil
			}
			return e.builder.ZeroExtend(operand, dstType.Width, e.span(span)), nil
		default:
			return irb.Handle{}, diagx.Unimplementedf(e.span(span), "unsupported cast shape %v -> %v", srcType.Kind, dstType.Kind)
		}
	})
}

// castBitsToArray slices input's bits into Size pieces of elemBits each,
// taking the most-significant bits as element index 0, then building an
// IR Array (spec.md §4.E).
func (e *Engine) castBitsToArray(operand irb.Handle, srcType, dstType hirtypes.ConcreteType, dstIrType irb.Type, span source.Span) (irb.Handle, error) {
	elemBits := dstType.Elem.BitCount()
	n := dstType.Size
	elements := make([]irb.Handle, n)
	for i := uint32(0); i < n; i++ {
		// Element index 0 is the most-significant slice: its bit
		// offset from the LSB is (n-1-i)*elemBits.
		start := (n - 1 - i) * elemBits
		elements[i] = e.builder.BitSlice(operand, start, elemBits, e.span(span))
	}
	return e.builder.Array(elements, dstIrType, e.span(span)), nil
}

// castArrayToBits indexes every element low-to-high and concatenates
// them (spec.md §4.E).
func (e *Engine) castArrayToBits(operand irb.Handle, srcType hirtypes.ConcreteType, span source.Span) (irb.Handle, error) {
	elemType := *srcType.Elem
	elemIrType, err := e.TypeToIr(elemType)
	if err != nil {
		return irb.Handle{}, err
	}
	n := srcType.Size
	if n == 0 {
		return irb.Handle{}, diagx.Internalf(e.span(span), "array-to-bits cast on zero-length array")
	}
	acc := e.builder.ArrayIndex(operand, []irb.Handle{e.intLiteral(0, span)}, elemIrType, e.span(span))
	accWidth := elemType.BitCount()
	for i := uint32(1); i < n; i++ {
		idx := e.intLiteral(int64(i), span)
		next := e.builder.ArrayIndex(operand, []irb.Handle{idx}, elemIrType, e.span(span))
		accWidth += elemType.BitCount()
		acc = e.builder.Concat(acc, next, irb.BitsType(accWidth), e.span(span))
	}
	return acc, nil
}

func (e *Engine) intLiteral(v int64, span source.Span) irb.Handle {
	return e.builder.Literal(bigFromInt64(v), irb.BitsType(32), e.span(span))
}
