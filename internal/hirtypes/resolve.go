package hirtypes

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
)

// ResolveType looks up node in the type table and walks every dimension
// through ResolveDim until a ground ConcreteType remains (spec.md §4.B).
func (ti *TypeInfo) ResolveType(node ast.NodeID, bindings Bindings) (ConcreteType, error) {
	surf, ok := ti.Types[node]
	if !ok {
		return ConcreteType{}, diagx.Internalf(noSpan, "no type entry for node %+v", node)
	}
	return ti.resolveSurface(surf, bindings)
}

// ResolveAnnotation resolves a syntactic type annotation (a cast target
// or a param/result type) rather than an inferred expression type.
func (ti *TypeInfo) ResolveAnnotation(ref ast.TypeRefID, bindings Bindings) (ConcreteType, error) {
	surf, ok := ti.Annotations[ref]
	if !ok {
		return ConcreteType{}, diagx.Internalf(noSpan, "no annotation entry for type ref %d", ref)
	}
	return ti.resolveSurface(surf, bindings)
}

func (ti *TypeInfo) resolveSurface(surf SurfaceType, bindings Bindings) (ConcreteType, error) {
	switch surf.Kind {
	case SurfaceBits:
		width, err := ResolveDim(surf.WidthDim, bindings)
		if err != nil {
			return ConcreteType{}, err
		}
		return Bits(width, surf.Signed), nil

	case SurfaceEnum:
		width, err := ResolveDim(surf.WidthDim, bindings)
		if err != nil {
			return ConcreteType{}, err
		}
		return Enum(surf.EnumName, width, surf.Signed), nil

	case SurfaceArray:
		elem, err := ti.resolveSurface(*surf.Elem, bindings)
		if err != nil {
			return ConcreteType{}, err
		}
		size, err := ResolveDim(surf.SizeDim, bindings)
		if err != nil {
			return ConcreteType{}, err
		}
		return Array(elem, size), nil

	case SurfaceTuple:
		elems := make([]ConcreteType, len(surf.Elems))
		for i, e := range surf.Elems {
			ct, err := ti.resolveSurface(e, bindings)
			if err != nil {
				return ConcreteType{}, err
			}
			elems[i] = ct
		}
		if surf.StructName != "" {
			return StructTuple(surf.StructName, elems), nil
		}
		return Tuple(elems), nil

	default:
		return ConcreteType{}, diagx.Internalf(noSpan, "unknown surface type kind %d", surf.Kind)
	}
}

// TypeToIr lives in internal/lower/typeresolve.go: it recurses over a
// ConcreteType against a concrete internal/irb.Package, and doing that
// here would make hirtypes import irb for no benefit (hirtypes is the
// consulted party, never the consumer).
