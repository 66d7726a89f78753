// Package fixtures builds small, hand-assembled ast.Module values paired
// with a fully-populated hirtypes.TypeInfo, standing in for a parser and
// type checker the lowering engine never has to contain itself. Each
// fixture mirrors one of the end-to-end scenarios the engine is expected
// to handle correctly, and cmd/hdlowerc uses them as the only source of
// input a user can currently select by name.
package fixtures

import (
	"fmt"

	"hdlower/internal/ast"
	"hdlower/internal/hirtypes"
	"hdlower/internal/source"
)

var noSpan source.Span

// Fixture is one lowerable module plus the type information a real
// front end would have already attached to it.
type Fixture struct {
	Name        string
	Description string
	Module      *ast.Module
	TypeInfo    *hirtypes.TypeInfo
}

// All returns every registered fixture, in a stable order.
func All() []Fixture {
	return []Fixture{
		Invert(),
		SignedCompare(),
		NarrowCast(),
		WidenCast(),
		ArrayIndex(),
		Match(),
		LetDestructure(),
		MapOverArray(),
	}
}

// ByName returns the fixture registered under name.
func ByName(name string) (Fixture, error) {
	for _, f := range All() {
		if f.Name == name {
			return f, nil
		}
	}
	return Fixture{}, fmt.Errorf("no such fixture %q", name)
}

func u8() hirtypes.SurfaceType { return hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false) }
func s8() hirtypes.SurfaceType { return hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), true) }
func u4() hirtypes.SurfaceType { return hirtypes.SurfaceBitsOf(hirtypes.ConstDim(4), false) }

// Invert mirrors: fn f(x: u8) -> u8 { !x }.
func Invert() Fixture {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", noSpan)
	xRef := m.Exprs.NewNameRef(noSpan, "x", xDef)
	body := m.Exprs.NewUnop(noSpan, ast.UnopInvert, xRef)

	paramType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "x", NameDef: xDef, Type: paramType}},
		Result: paramType,
		Body:   body,
	})

	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = u8()
	return Fixture{Name: "invert", Description: "fn f(x: u8) -> u8 { !x }", Module: m, TypeInfo: ti}
}

// SignedCompare mirrors: fn g(x: s8, y: s8) -> bits[1] { x >= y }.
func SignedCompare() Fixture {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", noSpan)
	yDef := m.NameDefs.New("y", noSpan)
	xRef := m.Exprs.NewNameRef(noSpan, "x", xDef)
	yRef := m.Exprs.NewNameRef(noSpan, "y", yDef)
	body := m.Exprs.NewBinop(noSpan, ast.BinopGe, xRef, yRef)

	paramType := ast.TypeRefID(1)
	resultType := ast.TypeRefID(2)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name: "g",
		Params: []ast.Param{
			{Name: "x", NameDef: xDef, Type: paramType},
			{Name: "y", NameDef: yDef, Type: paramType},
		},
		Result: resultType,
		Body:   body,
	})

	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = s8()
	ti.Annotations[resultType] = hirtypes.SurfaceBitsOf(hirtypes.ConstDim(1), false)
	// lowerBinop resolves the LHS's inferred type (not its annotation) to
	// pick the signed comparison form.
	ti.Types[xRef.Node()] = s8()
	return Fixture{Name: "signed-compare", Description: "fn g(x: s8, y: s8) -> bits[1] { x >= y }", Module: m, TypeInfo: ti}
}

// NarrowCast mirrors: fn h(x: u8) -> u4 { x as u4 }.
func NarrowCast() Fixture {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", noSpan)
	xRef := m.Exprs.NewNameRef(noSpan, "x", xDef)

	paramType := ast.TypeRefID(1)
	targetType := ast.TypeRefID(2)
	body := m.Exprs.NewCast(noSpan, xRef, targetType)

	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "h",
		Params: []ast.Param{{Name: "x", NameDef: xDef, Type: paramType}},
		Result: targetType,
		Body:   body,
	})

	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = u8()
	ti.Annotations[targetType] = u4()
	ti.Types[xRef.Node()] = u8()
	return Fixture{Name: "narrow-cast", Description: "fn h(x: u8) -> u4 { x as u4 }", Module: m, TypeInfo: ti}
}

// WidenCast mirrors: fn k(x: u4) -> u8 { x as u8 }.
func WidenCast() Fixture {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", noSpan)
	xRef := m.Exprs.NewNameRef(noSpan, "x", xDef)

	paramType := ast.TypeRefID(1)
	targetType := ast.TypeRefID(2)
	body := m.Exprs.NewCast(noSpan, xRef, targetType)

	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "k",
		Params: []ast.Param{{Name: "x", NameDef: xDef, Type: paramType}},
		Result: targetType,
		Body:   body,
	})

	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = u4()
	ti.Annotations[targetType] = u8()
	ti.Types[xRef.Node()] = u4()
	return Fixture{Name: "widen-cast", Description: "fn k(x: u4) -> u8 { x as u8 }", Module: m, TypeInfo: ti}
}

// ArrayIndex mirrors: fn m(x: u32[4]) -> u32 { x[2] }.
func ArrayIndex() Fixture {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", noSpan)
	xRef := m.Exprs.NewNameRef(noSpan, "x", xDef)
	idx := m.Exprs.NewNumber(noSpan, "2")
	body := m.Exprs.NewIndex(noSpan, ast.IndexData{Lhs: xRef, Rhs: idx, RhsKind: ast.IndexPlain})

	paramType := ast.TypeRefID(1)
	resultType := ast.TypeRefID(2)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "m",
		Params: []ast.Param{{Name: "x", NameDef: xDef, Type: paramType}},
		Result: resultType,
		Body:   body,
	})

	u32 := hirtypes.SurfaceBitsOf(hirtypes.ConstDim(32), false)
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = hirtypes.SurfaceArrayOf(u32, hirtypes.ConstDim(4))
	ti.Annotations[resultType] = u32
	ti.Types[xRef.Node()] = hirtypes.SurfaceArrayOf(u32, hirtypes.ConstDim(4))
	ti.Types[idx.Node()] = u32
	ti.Types[body.Node()] = u32
	return Fixture{Name: "array-index", Description: "fn m(x: u32[4]) -> u32 { x[2] }", Module: m, TypeInfo: ti}
}

// Match mirrors: fn n(x: u8, a: u8, b: u8, c: u8) -> u8 { match x { 0 => a, 1 => b, _ => c } }.
func Match() Fixture {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", noSpan)
	aDef := m.NameDefs.New("a", noSpan)
	bDef := m.NameDefs.New("b", noSpan)
	cDef := m.NameDefs.New("c", noSpan)
	xRef := m.Exprs.NewNameRef(noSpan, "x", xDef)
	aRef := m.Exprs.NewNameRef(noSpan, "a", aDef)
	bRef := m.Exprs.NewNameRef(noSpan, "b", bDef)
	cRef := m.Exprs.NewNameRef(noSpan, "c", cDef)

	lit0 := m.Exprs.NewNumber(noSpan, "0")
	lit1 := m.Exprs.NewNumber(noSpan, "1")
	pat0 := m.Patterns.NewNumber(lit0)
	pat1 := m.Patterns.NewNumber(lit1)
	patWild := m.Patterns.NewWildcard()

	body := m.Exprs.NewMatch(noSpan, ast.MatchData{
		Scrutinee: xRef,
		Arms: []ast.MatchArm{
			{Patterns: []ast.PatternID{pat0}, Value: aRef},
			{Patterns: []ast.PatternID{pat1}, Value: bRef},
			{Patterns: []ast.PatternID{patWild}, Value: cRef},
		},
	})

	paramType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name: "n",
		Params: []ast.Param{
			{Name: "x", NameDef: xDef, Type: paramType},
			{Name: "a", NameDef: aDef, Type: paramType},
			{Name: "b", NameDef: bDef, Type: paramType},
			{Name: "c", NameDef: cDef, Type: paramType},
		},
		Result: paramType,
		Body:   body,
	})

	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = u8()
	ti.Types[xRef.Node()] = u8()
	ti.Types[lit0.Node()] = u8()
	ti.Types[lit1.Node()] = u8()
	ti.Types[body.Node()] = u8()
	return Fixture{
		Name:        "match",
		Description: "fn n(x, a, b, c: u8) -> u8 { match x { 0 => a, 1 => b, _ => c } }",
		Module:      m,
		TypeInfo:    ti,
	}
}

// LetDestructure mirrors: fn p(t: (u8, u8)) -> u8 { let (a, b) = t; a }.
func LetDestructure() Fixture {
	m := ast.NewModule("fixtures")
	tDef := m.NameDefs.New("t", noSpan)
	aDef := m.NameDefs.New("a", noSpan)
	bDef := m.NameDefs.New("b", noSpan)
	tRef := m.Exprs.NewNameRef(noSpan, "t", tDef)
	aRef := m.Exprs.NewNameRef(noSpan, "a", aDef)

	binding := ast.Binding{
		Kind: ast.BindingTuple,
		Children: []ast.Binding{
			{Kind: ast.BindingLeaf, Leaf: aDef},
			{Kind: ast.BindingLeaf, Leaf: bDef},
		},
	}
	body := m.Exprs.NewLet(noSpan, ast.LetData{Rhs: tRef, Bindings: binding, Body: aRef})

	paramType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "p",
		Params: []ast.Param{{Name: "t", NameDef: tDef, Type: paramType}},
		Result: ast.TypeRefID(2),
		Body:   body,
	})

	tupleSurface := hirtypes.SurfaceTupleOf([]hirtypes.SurfaceType{u8(), u8()})
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = tupleSurface
	ti.Annotations[ast.TypeRefID(2)] = u8()
	ti.Types[tRef.Node()] = tupleSurface
	return Fixture{
		Name:        "let-destructure",
		Description: "fn p(t: (u8, u8)) -> u8 { let (a, b) = t; a }",
		Module:      m,
		TypeInfo:    ti,
	}
}

// MapOverArray mirrors: fn bump(x: u8) -> u8 { !x }; fn apply(xs: u8[4]) -> u8[4] { map(xs, bump) }.
// It is the one fixture with a same-module dependency, exercising
// internal/lowpipeline's wave ordering.
func MapOverArray() Fixture {
	m := ast.NewModule("fixtures")

	bumpXDef := m.NameDefs.New("x", noSpan)
	bumpXRef := m.Exprs.NewNameRef(noSpan, "x", bumpXDef)
	bumpBody := m.Exprs.NewUnop(noSpan, ast.UnopInvert, bumpXRef)
	bumpParamType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "bump",
		Params: []ast.Param{{Name: "x", NameDef: bumpXDef, Type: bumpParamType}},
		Result: bumpParamType,
		Body:   bumpBody,
	})

	applyXsDef := m.NameDefs.New("xs", noSpan)
	applyXsRef := m.Exprs.NewNameRef(noSpan, "xs", applyXsDef)
	applyBody := m.Exprs.NewInvocation(noSpan, ast.InvocationData{
		Callee: "map",
		Args:   []ast.ExprID{applyXsRef, applyXsRef},
		MapFn:  &ast.MapFnRef{Name: "bump"},
	})
	applyParamType := ast.TypeRefID(2)
	applyResultType := ast.TypeRefID(3)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "apply",
		Params: []ast.Param{{Name: "xs", NameDef: applyXsDef, Type: applyParamType}},
		Result: applyResultType,
		Body:   applyBody,
	})

	arrayOfU8 := hirtypes.SurfaceArrayOf(u8(), hirtypes.ConstDim(4))
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[bumpParamType] = u8()
	ti.Annotations[applyParamType] = arrayOfU8
	ti.Annotations[applyResultType] = arrayOfU8
	ti.Types[applyBody.Node()] = arrayOfU8
	return Fixture{
		Name:        "map-over-array",
		Description: "fn bump(x: u8) -> u8 { !x }; fn apply(xs: u8[4]) -> u8[4] { map(xs, bump) }",
		Module:      m,
		TypeInfo:    ti,
	}
}
