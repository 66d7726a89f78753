package lower

import (
	"math/big"
	"strings"
	"testing"

	"hdlower/internal/ast"
	"hdlower/internal/fixtures"
	"hdlower/internal/hirtypes"
)

// Property 1: after lowering, every visited node's IR type equals
// TypeToIr(ResolveType(node)).
func TestEveryVisitedNodeTypeMatchesResolvedType(t *testing.T) {
	fx := fixtures.ArrayIndex()
	pkg := newTestPackage(fx.Module.Name)
	engine, _, err := lowerFunctionWithEngine(pkg, fx.Module, fx.TypeInfo, fx.Module.Funcs[0])
	if err != nil {
		t.Fatalf("lowering: %v", err)
	}
	body := fx.Module.Funcs[0].Body
	check := func(node ast.NodeID) {
		t.Helper()
		v, ok := engine.env.GetNodeToIr(node)
		if !ok {
			t.Fatalf("node %+v has no environment entry", node)
		}
		ct, err := engine.ResolveType(node)
		if err != nil {
			t.Fatalf("ResolveType(%+v): %v", node, err)
		}
		want, err := engine.TypeToIr(ct)
		if err != nil {
			t.Fatalf("TypeToIr: %v", err)
		}
		if got := v.Handle().GetType(); got.String() != want.String() {
			t.Fatalf("node %+v: IR type %s != TypeToIr(ResolveType(node)) %s", node, got, want)
		}
	}
	check(body.Node())
	data, _ := fx.Module.Exprs.Index(body)
	check(data.Lhs.Node())
	check(data.Rhs.Node())
}

// Property 3: InterpValueToValue ∘ ValueToInterpValue is identity on
// representable values, including tuples and arrays (the case
// constfold.go previously refused).
func TestInterpValueRoundTripIdentityOnLeaf(t *testing.T) {
	ct := hirtypes.Bits(8, false)
	v := big.NewInt(0xAB)
	iv, err := ValueToInterpValue(v, ct)
	if err != nil {
		t.Fatalf("ValueToInterpValue: %v", err)
	}
	back, err := InterpValueToValue(iv)
	if err != nil {
		t.Fatalf("InterpValueToValue: %v", err)
	}
	if back.Cmp(v) != 0 {
		t.Fatalf("round trip on leaf: got %s, want %s", back, v)
	}
}

func TestInterpValueRoundTripIdentityOnTuple(t *testing.T) {
	ct := hirtypes.Tuple([]hirtypes.ConcreteType{
		hirtypes.Bits(4, false),
		hirtypes.Bits(4, false),
	})
	// Packed MSB-first: high nibble 0xA, low nibble 0x5 -> 0xA5.
	v := big.NewInt(0xA5)
	iv, err := ValueToInterpValue(v, ct)
	if err != nil {
		t.Fatalf("ValueToInterpValue: %v", err)
	}
	if iv.Tag != TagTuple || len(iv.Elements) != 2 {
		t.Fatalf("expected a 2-element tuple InterpValue, got %+v", iv)
	}
	if got, want := iv.Elements[0].Bits.Uint64(), uint64(0xA); got != want {
		t.Fatalf("first element = %d, want %d", got, want)
	}
	if got, want := iv.Elements[1].Bits.Uint64(), uint64(0x5); got != want {
		t.Fatalf("second element = %d, want %d", got, want)
	}
	back, err := InterpValueToValue(iv)
	if err != nil {
		t.Fatalf("InterpValueToValue: %v", err)
	}
	if back.Cmp(v) != 0 {
		t.Fatalf("round trip on tuple: got %s, want %s", back, v)
	}
}

func TestInterpValueRoundTripIdentityOnArray(t *testing.T) {
	elem := hirtypes.Bits(4, false)
	ct := hirtypes.Array(elem, 3)
	// [0x1, 0x2, 0x3] packed MSB-first into 12 bits -> 0x123.
	v := big.NewInt(0x123)
	iv, err := ValueToInterpValue(v, ct)
	if err != nil {
		t.Fatalf("ValueToInterpValue: %v", err)
	}
	if iv.Tag != TagArray || len(iv.Elements) != 3 {
		t.Fatalf("expected a 3-element array InterpValue, got %+v", iv)
	}
	want := []uint64{1, 2, 3}
	for i, w := range want {
		if got := iv.Elements[i].Bits.Uint64(); got != w {
			t.Fatalf("element %d = %d, want %d", i, got, w)
		}
	}
	back, err := InterpValueToValue(iv)
	if err != nil {
		t.Fatalf("InterpValueToValue: %v", err)
	}
	if back.Cmp(v) != 0 {
		t.Fatalf("round trip on array: got %s, want %s", back, v)
	}
}

func TestInterpValueRoundTripIdentityOnNestedTuple(t *testing.T) {
	inner := hirtypes.Tuple([]hirtypes.ConcreteType{
		hirtypes.Bits(2, false),
		hirtypes.Bits(2, false),
	})
	ct := hirtypes.Tuple([]hirtypes.ConcreteType{
		hirtypes.Bits(4, false),
		inner,
	})
	v := big.NewInt(0x5D) // 0101 1101: outer=0101, inner=(11,01)
	iv, err := ValueToInterpValue(v, ct)
	if err != nil {
		t.Fatalf("ValueToInterpValue: %v", err)
	}
	back, err := InterpValueToValue(iv)
	if err != nil {
		t.Fatalf("InterpValueToValue: %v", err)
	}
	if back.Cmp(v) != 0 {
		t.Fatalf("round trip on nested tuple: got %s, want %s", back, v)
	}
}

func TestInterpValueRoundTripRejectsUnsupportedKind(t *testing.T) {
	var bogus hirtypes.ConcreteType // zero value: Kind defaults to KindBits's zero... force an invalid kind
	bogus.Kind = hirtypes.ConcreteKind(99)
	if _, err := ValueToInterpValue(big.NewInt(0), bogus); err == nil {
		t.Fatal("expected an error for an unrecognized ConcreteType kind")
	}
}

// Property 4: for a constant-only expression, every sub-node is a
// Constant entry whose materialized bits equal the compile-time value.
// A tuple literal built entirely from Number members is the one shape
// defTupleResult (lower_expr_place.go) folds end to end.
func TestConstantOnlyExpressionPropagatesConstantEverywhere(t *testing.T) {
	m := ast.NewModule("fixtures")
	lhs := m.Exprs.NewNumber(zeroSpan, "3")
	rhs := m.Exprs.NewNumber(zeroSpan, "5")
	body := m.Exprs.NewXlsTuple(zeroSpan, []ast.ExprID{lhs, rhs})
	resultType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{Name: "constTuple", Result: resultType, Body: body})

	u8 := hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)
	tuple := hirtypes.SurfaceTupleOf([]hirtypes.SurfaceType{u8, u8})
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[resultType] = tuple
	ti.Types[lhs.Node()] = u8
	ti.Types[rhs.Node()] = u8
	ti.Types[body.Node()] = tuple

	pkg := newTestPackage(m.Name)
	engine, _, err := lowerFunctionWithEngine(pkg, m, ti, m.Funcs[0])
	if err != nil {
		t.Fatalf("lowering: %v", err)
	}
	for _, node := range []ast.NodeID{lhs.Node(), rhs.Node(), body.Node()} {
		v, ok := engine.env.GetNodeToIr(node)
		if !ok || !v.IsConstant() {
			t.Fatalf("node %+v should be recorded as Constant", node)
		}
	}
	bodyValue, _ := engine.env.GetNodeToIr(body.Node())
	// MSB-first packing: 3 (u8) then 5 (u8) -> (3<<8)|5.
	if got, want := bodyValue.Value().Int64(), int64(3<<8|5); got != want {
		t.Fatalf("materialized bits = %d, want %d", got, want)
	}
}

// Property 5: let (a, (b, c)) = e in a produces exactly the four
// TupleIndex projections the nested destructure implies.
func TestNestedTupleLetDestructureProjections(t *testing.T) {
	m := ast.NewModule("fixtures")
	tDef := m.NameDefs.New("t", zeroSpan)
	aDef := m.NameDefs.New("a", zeroSpan)
	bDef := m.NameDefs.New("b", zeroSpan)
	cDef := m.NameDefs.New("c", zeroSpan)
	tRef := m.Exprs.NewNameRef(zeroSpan, "t", tDef)
	aRef := m.Exprs.NewNameRef(zeroSpan, "a", aDef)

	binding := ast.Binding{
		Kind: ast.BindingTuple,
		Children: []ast.Binding{
			{Kind: ast.BindingLeaf, Leaf: aDef},
			{
				Kind: ast.BindingTuple,
				Children: []ast.Binding{
					{Kind: ast.BindingLeaf, Leaf: bDef},
					{Kind: ast.BindingLeaf, Leaf: cDef},
				},
			},
		},
	}
	body := m.Exprs.NewLet(zeroSpan, ast.LetData{Rhs: tRef, Bindings: binding, Body: aRef})

	paramType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "p",
		Params: []ast.Param{{Name: "t", NameDef: tDef, Type: paramType}},
		Result: ast.TypeRefID(2),
		Body:   body,
	})

	u8 := hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)
	innerTuple := hirtypes.SurfaceTupleOf([]hirtypes.SurfaceType{u8, u8})
	outerTuple := hirtypes.SurfaceTupleOf([]hirtypes.SurfaceType{u8, innerTuple})
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = outerTuple
	ti.Annotations[ast.TypeRefID(2)] = u8
	ti.Types[tRef.Node()] = outerTuple

	_, dump, err := lowerSoleFunction(m, ti)
	if err != nil {
		t.Fatalf("lowering: %v", err)
	}
	if got := strings.Count(dump, "= tuple_index"); got != 4 {
		t.Fatalf("expected exactly 4 tuple_index nodes, got %d:\n%s", got, dump)
	}
	if strings.Count(dump, "index=0") != 2 || strings.Count(dump, "index=1") != 2 {
		t.Fatalf("expected two index=0 and two index=1 projections, got:\n%s", dump)
	}
}

// Property 6, additional angle: a multi-pattern arm's selector is the
// disjunction (Or) of its per-pattern Eq checks.
func TestMultiPatternArmSelectorIsDisjunction(t *testing.T) {
	m := ast.NewModule("fixtures")
	xDef := m.NameDefs.New("x", zeroSpan)
	aDef := m.NameDefs.New("a", zeroSpan)
	cDef := m.NameDefs.New("c", zeroSpan)
	xRef := m.Exprs.NewNameRef(zeroSpan, "x", xDef)
	aRef := m.Exprs.NewNameRef(zeroSpan, "a", aDef)
	cRef := m.Exprs.NewNameRef(zeroSpan, "c", cDef)

	lit0 := m.Exprs.NewNumber(zeroSpan, "0")
	lit1 := m.Exprs.NewNumber(zeroSpan, "1")
	pat0 := m.Patterns.NewNumber(lit0)
	pat1 := m.Patterns.NewNumber(lit1)
	patWild := m.Patterns.NewWildcard()

	body := m.Exprs.NewMatch(zeroSpan, ast.MatchData{
		Scrutinee: xRef,
		Arms: []ast.MatchArm{
			{Patterns: []ast.PatternID{pat0, pat1}, Value: aRef},
			{Patterns: []ast.PatternID{patWild}, Value: cRef},
		},
	})

	paramType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name: "n",
		Params: []ast.Param{
			{Name: "x", NameDef: xDef, Type: paramType},
			{Name: "a", NameDef: aDef, Type: paramType},
			{Name: "c", NameDef: cDef, Type: paramType},
		},
		Result: paramType,
		Body:   body,
	})

	u8 := hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[paramType] = u8
	ti.Types[xRef.Node()] = u8
	ti.Types[lit0.Node()] = u8
	ti.Types[lit1.Node()] = u8
	ti.Types[body.Node()] = u8

	_, dump, err := lowerSoleFunction(m, ti)
	if err != nil {
		t.Fatalf("lowering: %v", err)
	}
	if strings.Count(dump, "= match_true") != 1 {
		t.Fatalf("expected exactly one match_true, got:\n%s", dump)
	}
	if strings.Count(dump, "= eq") != 2 {
		t.Fatalf("expected 2 Eq checks (one per literal pattern), got:\n%s", dump)
	}
	if strings.Count(dump, "= or") != 1 {
		t.Fatalf("expected the two Eq checks combined by exactly one Or, got:\n%s", dump)
	}
}
