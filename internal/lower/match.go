package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// isIrrefutableArm reports whether arm is a single Wildcard or fresh
// NameDef pattern — the only shapes that match unconditionally.
func isIrrefutableArm(arm ast.MatchArm, patterns *ast.Patterns) bool {
	if len(arm.Patterns) != 1 {
		return false
	}
	switch patterns.Get(arm.Patterns[0]).Kind {
	case ast.PatternWildcard, ast.PatternNameDef:
		return true
	default:
		return false
	}
}

// lowerMatch compiles a Match expression to MatchTrue. The final arm
// must be irrefutable with a single pattern; its expression supplies the
// default. Every other arm's selector is the Or-disjunction of its
// patterns (spec.md §4.G, §8 property 6).
func (e *Engine) lowerMatch(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Match(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if len(data.Arms) == 0 {
		return irb.Handle{}, diagx.Internalf(e.span(span), "match with no arms")
	}
	lastArm := data.Arms[len(data.Arms)-1]
	if !isIrrefutableArm(lastArm, e.module.Patterns) {
		return irb.Handle{}, diagx.Unimplementedf(e.span(span), "match's final arm must be irrefutable with a single pattern")
	}

	if _, err := e.LowerExpr(data.Scrutinee); err != nil {
		return irb.Handle{}, err
	}
	scrutineeHandle, err := e.env.Use(data.Scrutinee.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	scrutineeType, err := e.ResolveType(data.Scrutinee.Node())
	if err != nil {
		return irb.Handle{}, err
	}

	selectors := make([]irb.Handle, 0, len(data.Arms)-1)
	values := make([]irb.Handle, 0, len(data.Arms)-1)
	for _, arm := range data.Arms[:len(data.Arms)-1] {
		selector, err := e.lowerArmSelector(arm, scrutineeHandle, scrutineeType, span)
		if err != nil {
			return irb.Handle{}, err
		}
		if _, err := e.LowerExpr(arm.Value); err != nil {
			return irb.Handle{}, err
		}
		armValue, err := e.env.Use(arm.Value.Node(), e.span(span))
		if err != nil {
			return irb.Handle{}, err
		}
		selectors = append(selectors, selector)
		values = append(values, armValue)
	}

	if _, err := e.LowerExpr(lastArm.Value); err != nil {
		return irb.Handle{}, err
	}
	defaultValue, err := e.env.Use(lastArm.Value.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}

	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.MatchTrue(selectors, values, defaultValue, resultType, e.span(span)), nil
	})
}

// lowerArmSelector ORs together the per-pattern selector bits of one arm.
func (e *Engine) lowerArmSelector(arm ast.MatchArm, matchedValue irb.Handle, matchedType hirtypes.ConcreteType, span source.Span) (irb.Handle, error) {
	var acc irb.Handle
	for i, patID := range arm.Patterns {
		bit, err := e.handleMatcher(patID, matchedValue, matchedType, span)
		if err != nil {
			return irb.Handle{}, err
		}
		if i == 0 {
			acc = bit
			continue
		}
		acc = e.builder.Or(acc, bit, e.span(span))
	}
	return acc, nil
}

// handleMatcher compiles one pattern against matchedValue, returning a
// 1-bit selector (spec.md §4.G).
func (e *Engine) handleMatcher(patID ast.PatternID, matchedValue irb.Handle, matchedType hirtypes.ConcreteType, span source.Span) (irb.Handle, error) {
	pat := e.module.Patterns.Get(patID)
	switch pat.Kind {
	case ast.PatternWildcard:
		return e.literalOneBit(span), nil

	case ast.PatternNumber:
		if _, err := e.LowerExpr(pat.Literal); err != nil {
			return irb.Handle{}, err
		}
		lit, err := e.env.Use(pat.Literal.Node(), e.span(span))
		if err != nil {
			return irb.Handle{}, err
		}
		return e.builder.Eq(lit, matchedValue, e.span(span)), nil

	case ast.PatternColonRef:
		if _, err := e.LowerExpr(pat.Literal); err != nil {
			return irb.Handle{}, err
		}
		lit, err := e.env.Use(pat.Literal.Node(), e.span(span))
		if err != nil {
			return irb.Handle{}, err
		}
		return e.builder.Eq(lit, matchedValue, e.span(span)), nil

	case ast.PatternNameRef:
		bound, err := e.env.Use(pat.Ref.Node(), e.span(span))
		if err != nil {
			return irb.Handle{}, err
		}
		return e.builder.Eq(bound, matchedValue, e.span(span)), nil

	case ast.PatternNameDef:
		e.env.SetNodeToIr(pat.Def.Node(), Computed(matchedValue))
		if !matchedValue.HasAssignedName() {
			matchedValue.SetName(e.nameDefIdentifier(pat.Def))
		}
		return e.literalOneBit(span), nil

	case ast.PatternTuple:
		if len(pat.Children) != len(matchedType.Elems) {
			return irb.Handle{}, diagx.Internalf(e.span(span), "tuple pattern arity %d does not match matched type arity %d", len(pat.Children), len(matchedType.Elems))
		}
		var acc irb.Handle
		for i, child := range pat.Children {
			elemCt := matchedType.Elems[i]
			elemIrType, err := e.TypeToIr(elemCt)
			if err != nil {
				return irb.Handle{}, err
			}
			projected := e.builder.TupleIndex(matchedValue, uint32(i), elemIrType, e.span(span))
			bit, err := e.handleMatcher(child, projected, elemCt, span)
			if err != nil {
				return irb.Handle{}, err
			}
			if i == 0 {
				acc = bit
				continue
			}
			acc = e.builder.And(acc, bit, e.span(span))
		}
		return acc, nil

	default:
		return irb.Handle{}, diagx.Internalf(e.span(span), "unknown pattern kind %d", pat.Kind)
	}
}

func (e *Engine) literalOneBit(span source.Span) irb.Handle {
	return e.builder.Literal(bigFromInt64(1), irb.BitsType(1), e.span(span))
}
