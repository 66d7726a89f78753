package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerAttr projects a tuple member by field-name index, then renames the
// projection for readability (spec.md §4.E).
func (e *Engine) lowerAttr(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Attr(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Lhs); err != nil {
		return irb.Handle{}, err
	}
	lhsHandle, err := e.env.Use(data.Lhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	lhsType, err := e.ResolveType(data.Lhs.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	if lhsType.Kind != hirtypes.KindTuple || lhsType.StructName == "" {
		return irb.Handle{}, diagx.Internalf(e.span(span), "attr on non-struct type %v", lhsType)
	}
	structDef := e.typeInfo.Structs[lhsType.StructName]
	if structDef == nil {
		return irb.Handle{}, diagx.Internalf(e.span(span), "unknown struct %q", lhsType.StructName)
	}
	k, lhsName := fieldIndex(structDef, data.Field)
	if k < 0 {
		return irb.Handle{}, diagx.Internalf(e.span(span), "struct %s has no field %q", structDef.Name, data.Field)
	}
	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		h := e.builder.TupleIndex(lhsHandle, uint32(k), resultType, e.span(span))
		if lhsHandle.HasAssignedName() {
			h.SetName(lhsName + "_" + data.Field)
		} else {
			h.SetName(data.Field)
		}
		return h, nil
	})
}

func fieldIndex(def *ast.StructDef, field string) (int, string) {
	for i, f := range def.Fields {
		if f.Name == field {
			return i, def.Name
		}
	}
	return -1, def.Name
}

// lowerIndex dispatches on the LHS's resolved type, per spec.md §4.E.
func (e *Engine) lowerIndex(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Index(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Lhs); err != nil {
		return irb.Handle{}, err
	}
	lhsHandle, err := e.env.Use(data.Lhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	lhsType, err := e.ResolveType(data.Lhs.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}

	switch lhsType.Kind {
	case hirtypes.KindTuple:
		return e.lowerTupleIndex(id, data, lhsHandle, resultType, span)
	case hirtypes.KindArray:
		return e.lowerArrayIndexExpr(id, data, lhsHandle, resultType, span)
	case hirtypes.KindBits, hirtypes.KindEnum:
		switch data.RhsKind {
		case ast.IndexWidthSlice:
			return e.lowerDynamicBitSlice(id, data, lhsHandle, resultType, span)
		case ast.IndexSlice:
			return e.lowerStaticBitSlice(id, lhsHandle, resultType, span)
		default:
			return irb.Handle{}, diagx.Internalf(e.span(span), "plain index on bits-typed lhs is not a supported form")
		}
	default:
		return irb.Handle{}, diagx.Internalf(e.span(span), "index on unsupported lhs kind %d", lhsType.Kind)
	}
}

// lowerTupleIndex requires the RHS be a compile-time constant (spec.md
// §4.E: "tuple: RHS must be a compile-time constant; emit TupleIndex(lhs, k)").
func (e *Engine) lowerTupleIndex(id ast.ExprID, data *ast.IndexData, lhsHandle irb.Handle, resultType irb.Type, span source.Span) (irb.Handle, error) {
	if _, err := e.LowerExpr(data.Rhs); err != nil {
		return irb.Handle{}, err
	}
	k, err := e.env.GetConstValue(data.Rhs.Node())
	if err != nil {
		return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "tuple index must be a compile-time constant: %v", err)
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.TupleIndex(lhsHandle, uint32(k.Int64()), resultType, e.span(span)), nil
	})
}

func (e *Engine) lowerArrayIndexExpr(id ast.ExprID, data *ast.IndexData, lhsHandle irb.Handle, resultType irb.Type, span source.Span) (irb.Handle, error) {
	if _, err := e.LowerExpr(data.Rhs); err != nil {
		return irb.Handle{}, err
	}
	rhsHandle, err := e.env.Use(data.Rhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.ArrayIndex(lhsHandle, []irb.Handle{rhsHandle}, resultType, e.span(span)), nil
	})
}

// lowerDynamicBitSlice lowers start dynamically, with width from the
// resolved result type (spec.md §4.E).
func (e *Engine) lowerDynamicBitSlice(id ast.ExprID, data *ast.IndexData, lhsHandle irb.Handle, resultType irb.Type, span source.Span) (irb.Handle, error) {
	if _, err := e.LowerExpr(data.WidthSliceStart); err != nil {
		return irb.Handle{}, err
	}
	startHandle, err := e.env.Use(data.WidthSliceStart.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.DynamicBitSlice(lhsHandle, startHandle, resultType.Width, e.span(span)), nil
	})
}

// lowerStaticBitSlice looks up the pre-computed (start, width) from the
// slice cache, keyed by the non-constant subset of the current bindings
// (spec.md §4.E, §3).
func (e *Engine) lowerStaticBitSlice(id ast.ExprID, lhsHandle irb.Handle, resultType irb.Type, span source.Span) (irb.Handle, error) {
	span2, err := e.sliceSpanFor(id)
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.BitSlice(lhsHandle, span2.Start, span2.Width, e.span(span)), nil
	})
}

// sliceSpanFor looks up the pre-resolved (start, width) of a static bit
// slice in the engine's SliceCache; it fails with Internal if no cache
// was installed.
func (e *Engine) sliceSpanFor(id ast.ExprID) (hirtypes.SliceSpan, error) {
	if e.sliceCache == nil {
		return hirtypes.SliceSpan{}, diagx.Internalf(noSpan, "static bit-slice lowering requires a slice cache")
	}
	key := hirtypes.Key(e.builder.Name(), e.GetSymbolicBindingsTuple())
	span, ok := e.sliceCache.Get(key, uint32(id))
	if !ok {
		return hirtypes.SliceSpan{}, diagx.Internalf(noSpan, "no precomputed slice metadata for node %d under bindings %v", id, e.bindings)
	}
	return span, nil
}

// lowerColonRef implements the two ColonRef cases of spec.md §4.E.
func (e *Engine) lowerColonRef(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.ColonRef(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}

	if imported, ok := e.typeInfo.Imports[data.Subject]; ok {
		constDef := imported.ConstantByName(data.Member)
		if constDef == nil {
			return irb.Handle{}, diagx.Internalf(e.span(span), "module %q has no constant %q", data.Subject, data.Member)
		}
		return e.lowerImportedConstant(id, imported, constDef, span)
	}

	enumDef := e.typeInfo.EnumDefByName(data.Subject)
	if enumDef != nil {
		for _, m := range enumDef.Members {
			if m.Name == data.Member {
				if _, err := e.LowerExpr(m.Value); err != nil {
					return irb.Handle{}, err
				}
				v, ok := e.env.GetNodeToIr(m.Value.Node())
				if !ok {
					return irb.Handle{}, diagx.Internalf(e.span(span), "enum member %s.%s not lowered", data.Subject, data.Member)
				}
				e.env.SetNodeToIr(id.Node(), v)
				return v.Handle(), nil
			}
		}
		return irb.Handle{}, diagx.Internalf(e.span(span), "enum %s has no member %q", data.Subject, data.Member)
	}

	return irb.Handle{}, diagx.Unimplementedf(e.span(span), "colon-ref subject %q is neither an import nor an enum/typedef", data.Subject)
}

// lowerImportedConstant lowers the referenced module's constant under a
// fresh sub-engine scoped to that module, mirroring how a driver would
// have already lowered cross-module constant dependencies before this
// function runs (spec.md §5 "the driver must lower dependencies...
// before they are used").
func (e *Engine) lowerImportedConstant(id ast.ExprID, imported *ast.Module, constDef *ast.ConstantDef, span source.Span) (irb.Handle, error) {
	sub := NewEngine(e.pkg, imported, e.typeInfo, e.emitPositions, nil)
	sub.builder = e.builder
	sub.sliceCache = e.sliceCache
	if _, err := sub.LowerExpr(constDef.Value); err != nil {
		return irb.Handle{}, err
	}
	v, ok := sub.env.GetNodeToIr(constDef.Value.Node())
	if !ok {
		return irb.Handle{}, diagx.Internalf(e.span(span), "imported constant %s not lowered", constDef.Name)
	}
	e.env.SetNodeToIr(id.Node(), v)
	return v.Handle(), nil
}
