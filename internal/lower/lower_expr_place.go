package lower

import (
	"math/big"

	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerMembers lowers each member expression in order and returns their
// handles plus whether every one of them turned out to be a Constant
// (spec.md §4.E: "if every member was constant, also record a Constant
// pair at the tuple level").
func (e *Engine) lowerMembers(members []ast.ExprID, span source.Span) ([]irb.Handle, bool, error) {
	handles := make([]irb.Handle, len(members))
	allConst := true
	for i, m := range members {
		if _, err := e.LowerExpr(m); err != nil {
			return nil, false, err
		}
		v, ok := e.env.GetNodeToIr(m.Node())
		if !ok {
			return nil, false, diagx.Internalf(e.span(span), "member %+v not lowered", m)
		}
		handles[i] = v.Handle()
		if !v.IsConstant() {
			allConst = false
		}
	}
	return handles, allConst, nil
}

// defTupleResult emits a Tuple from already-lowered members and, if every
// member was constant, also records a flattened Constant pair at the
// tuple level (spec.md §4.E).
func (e *Engine) defTupleResult(id ast.ExprID, members []ast.ExprID, resultType irb.Type, span source.Span) (irb.Handle, error) {
	handles, allConst, err := e.lowerMembers(members, span)
	if err != nil {
		return irb.Handle{}, err
	}
	h, err := e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.Tuple(handles, resultType, e.span(span)), nil
	})
	if err != nil {
		return irb.Handle{}, err
	}
	if allConst {
		acc, cerr := e.flattenConstMembers(members)
		if cerr == nil {
			e.env.DefConst(id.Node(), acc, resultType, h)
		}
	}
	return h, nil
}

// flattenConstMembers packs already-lowered constant members into one
// bit-packed value in declaration order, MSB-first, the same convention
// InterpValueToValue uses for array/tuple flattening.
func (e *Engine) flattenConstMembers(members []ast.ExprID) (*big.Int, error) {
	acc := new(big.Int)
	for _, m := range members {
		v, err := e.env.GetConstValue(m.Node())
		if err != nil {
			return nil, err
		}
		ct, err := e.ResolveType(m.Node())
		if err != nil {
			return nil, err
		}
		acc.Lsh(acc, uint(ct.FlatWidth()))
		acc.Or(acc, v)
	}
	return acc, nil
}

// lowerXlsTuple implements the XlsTuple case of spec.md §4.E.
func (e *Engine) lowerXlsTuple(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.XlsTuple(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.defTupleResult(id, data.Members, resultType, span)
}

// lowerStructInstance resolves members through the struct definition's
// declared field order, then lowers as a tuple (spec.md §4.E).
func (e *Engine) lowerStructInstance(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.StructInstance(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	structDef := e.typeInfo.Structs[data.StructName]
	if structDef == nil {
		return irb.Handle{}, diagx.Internalf(e.span(span), "unknown struct %q", data.StructName)
	}
	members := make([]ast.ExprID, len(structDef.Fields))
	for _, fld := range data.Fields {
		idx, _ := fieldIndex(structDef, fld.Name)
		if idx < 0 {
			return irb.Handle{}, diagx.Internalf(e.span(span), "struct %s has no field %q", structDef.Name, fld.Name)
		}
		members[idx] = fld.Value
	}
	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.defTupleResult(id, members, resultType, span)
}

// lowerSplatStructInstance starts from the splatted base tuple's members
// (projected via TupleIndex) and overlays the named updates, in struct
// declaration order (spec.md §4.E).
func (e *Engine) lowerSplatStructInstance(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.SplatStructInstance(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	structDef := e.typeInfo.Structs[data.StructName]
	if structDef == nil {
		return irb.Handle{}, diagx.Internalf(e.span(span), "unknown struct %q", data.StructName)
	}

	if _, err := e.LowerExpr(data.Base); err != nil {
		return irb.Handle{}, err
	}
	baseHandle, err := e.env.Use(data.Base.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	baseType, err := e.ResolveType(data.Base.Node())
	if err != nil {
		return irb.Handle{}, err
	}

	members := make([]irb.Handle, len(structDef.Fields))
	for i, elemCt := range baseType.Elems {
		elemIrType, terr := e.TypeToIr(elemCt)
		if terr != nil {
			return irb.Handle{}, terr
		}
		members[i] = e.builder.TupleIndex(baseHandle, uint32(i), elemIrType, e.span(span))
	}

	for _, upd := range data.Updates {
		idx, _ := fieldIndex(structDef, upd.Name)
		if idx < 0 {
			return irb.Handle{}, diagx.Internalf(e.span(span), "struct %s has no field %q", structDef.Name, upd.Name)
		}
		if _, err := e.LowerExpr(upd.Value); err != nil {
			return irb.Handle{}, err
		}
		v, err := e.env.Use(upd.Value.Node(), e.span(span))
		if err != nil {
			return irb.Handle{}, err
		}
		members[idx] = v
	}

	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.Tuple(members, resultType, e.span(span)), nil
	})
}

// lowerArrayLit builds the element handles and, when the AST carries an
// ellipsis, pads to the type-declared length by repeating the last
// element (spec.md §4.E).
func (e *Engine) lowerArrayLit(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.ArrayLit(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	resultType, ct, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	handles, _, err := e.lowerMembers(data.Elements, span)
	if err != nil {
		return irb.Handle{}, err
	}
	if data.Ellipsis {
		handles = padWithLast(handles, ct.Size)
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.Array(handles, resultType, e.span(span)), nil
	})
}

func padWithLast(handles []irb.Handle, n uint32) []irb.Handle {
	if len(handles) == 0 || uint32(len(handles)) >= n {
		return handles
	}
	last := handles[len(handles)-1]
	out := make([]irb.Handle, n)
	copy(out, handles)
	for i := len(handles); i < int(n); i++ {
		out[i] = last
	}
	return out
}
