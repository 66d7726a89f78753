package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
)

// ResolveType looks up node in the engine's type table and walks every
// dimension against the engine's active bindings until a ground
// ConcreteType remains (spec.md §4.B).
func (e *Engine) ResolveType(node ast.NodeID) (hirtypes.ConcreteType, error) {
	ct, err := e.typeInfo.ResolveType(node, e.bindings)
	if err != nil {
		return hirtypes.ConcreteType{}, diagx.Internalf(noSpan, "resolving type of %+v: %v", node, err)
	}
	return ct, nil
}

// ResolveAnnotation resolves a syntactic type annotation (a cast target,
// or a param/result declaration) rather than an inferred expression type.
func (e *Engine) ResolveAnnotation(ref ast.TypeRefID) (hirtypes.ConcreteType, error) {
	ct, err := e.typeInfo.ResolveAnnotation(ref, e.bindings)
	if err != nil {
		return hirtypes.ConcreteType{}, diagx.Internalf(noSpan, "resolving type annotation %d: %v", ref, err)
	}
	return ct, nil
}

// TypeToIr recurses a resolved ConcreteType into the matching IR Type,
// through the engine's package (spec.md §4.B): Bits/Enum -> bits[n],
// Array(elem, n) -> array[TypeToIr(elem) x n], Tuple(ts) -> tuple of
// TypeToIr(ti).
func (e *Engine) TypeToIr(c hirtypes.ConcreteType) (irb.Type, error) {
	switch c.Kind {
	case hirtypes.KindBits, hirtypes.KindEnum:
		return e.pkg.GetBitsType(c.Width), nil
	case hirtypes.KindArray:
		elem, err := e.TypeToIr(*c.Elem)
		if err != nil {
			return irb.Type{}, err
		}
		return e.pkg.GetArrayType(elem, c.Size), nil
	case hirtypes.KindTuple:
		elems := make([]irb.Type, len(c.Elems))
		for i, elem := range c.Elems {
			it, err := e.TypeToIr(elem)
			if err != nil {
				return irb.Type{}, err
			}
			elems[i] = it
		}
		return e.pkg.GetTupleType(elems), nil
	default:
		return irb.Type{}, diagx.Internalf(noSpan, "unknown ConcreteType kind %d", c.Kind)
	}
}

// resolveIrType is a convenience combining ResolveType and TypeToIr, the
// shape most expression handlers in lower_expr_*.go need.
func (e *Engine) resolveIrType(node ast.NodeID) (irb.Type, hirtypes.ConcreteType, error) {
	ct, err := e.ResolveType(node)
	if err != nil {
		return irb.Type{}, hirtypes.ConcreteType{}, err
	}
	it, err := e.TypeToIr(ct)
	if err != nil {
		return irb.Type{}, hirtypes.ConcreteType{}, err
	}
	return it, ct, nil
}
