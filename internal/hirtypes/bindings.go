package hirtypes

import (
	"hdlower/internal/diagx"
	"hdlower/internal/source"
)

var noSpan source.Span

// Binding is one (identifier, integer) pair of a symbolic-bindings tuple
// (spec.md §3). Order is assigned by the caller in collation order, not
// recomputed here.
type Binding struct {
	Name  string
	Value int64
}

// Bindings is the engine's active symbolic-bindings set for the function
// currently being lowered. It is ordered rather than a bare map, since
// internal/lower's Mangle emits binding values in this order.
type Bindings []Binding

// Lookup returns the bound value for name, or false if name is free in
// this tuple.
func (b Bindings) Lookup(name string) (int64, bool) {
	for _, kv := range b {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return 0, false
}

// ResolveDim iteratively evaluates a parametric dimension expression
// against bindings until a ground integer remains (spec.md §4.B). A free
// identifier with no entry in bindings is a driver bug: the caller
// promised "already-resolved symbolic bindings per invocation" (spec.md
// §1), so an unresolved DimParam is reported as Internal, not
// InvalidArgument.
func ResolveDim(dim DimExpr, bindings Bindings) (uint32, error) {
	switch dim.Kind {
	case DimConst:
		return dim.Value, nil
	case DimParam:
		v, ok := bindings.Lookup(dim.Name)
		if !ok {
			return 0, diagx.Internalf(noSpan, "unresolved parametric dimension %q", dim.Name)
		}
		if v < 0 {
			return 0, diagx.Internalf(noSpan, "negative dimension value for %q: %d", dim.Name, v)
		}
		return uint32(v), nil
	case DimAdd, DimSub, DimMul:
		lhs, err := ResolveDim(*dim.Lhs, bindings)
		if err != nil {
			return 0, err
		}
		rhs, err := ResolveDim(*dim.Rhs, bindings)
		if err != nil {
			return 0, err
		}
		switch dim.Kind {
		case DimAdd:
			return lhs + rhs, nil
		case DimSub:
			if rhs > lhs {
				return 0, diagx.Internalf(noSpan, "dimension subtraction underflow: %d - %d", lhs, rhs)
			}
			return lhs - rhs, nil
		default: // DimMul
			return lhs * rhs, nil
		}
	default:
		return 0, diagx.Internalf(noSpan, "unknown dimension expression kind %d", dim.Kind)
	}
}
