package lower

import (
	"strings"
	"testing"

	"hdlower/internal/ast"
	"hdlower/internal/fixtures"
	"hdlower/internal/hirtypes"
	"hdlower/internal/source"
)

var zeroSpan source.Span

// clzMapFixture mirrors the literal map/clz scenario:
// map([u8:1, u8:2, u8:3], clz).
func clzMapFixture() fixtures.Fixture {
	m := ast.NewModule("fixtures")
	e1 := m.Exprs.NewNumber(zeroSpan, "1")
	e2 := m.Exprs.NewNumber(zeroSpan, "2")
	e3 := m.Exprs.NewNumber(zeroSpan, "3")
	arr := m.Exprs.NewArrayLit(zeroSpan, []ast.ExprID{e1, e2, e3}, false)
	body := m.Exprs.NewInvocation(zeroSpan, ast.InvocationData{
		Callee: "map",
		Args:   []ast.ExprID{arr, arr},
		MapFn:  &ast.MapFnRef{Name: "clz"},
	})

	resultType := ast.TypeRefID(1)
	m.Funcs = append(m.Funcs, &ast.Function{
		Name:   "clzall",
		Result: resultType,
		Body:   body,
	})

	elemSurface := hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)
	arraySurface := hirtypes.SurfaceArrayOf(elemSurface, hirtypes.ConstDim(3))
	ti := hirtypes.NewTypeInfo()
	ti.Annotations[resultType] = arraySurface
	ti.Types[e1.Node()] = elemSurface
	ti.Types[e2.Node()] = elemSurface
	ti.Types[e3.Node()] = elemSurface
	ti.Types[arr.Node()] = arraySurface
	ti.Types[body.Node()] = arraySurface
	return fixtures.Fixture{
		Name:        "clz-map",
		Description: "map([u8:1, u8:2, u8:3], clz)",
		Module:      m,
		TypeInfo:    ti,
	}
}

// These mirror the literal end-to-end scenarios verbatim: one fixture
// per scenario, asserting on the exact op emitted rather than just the
// absence of an error.

func TestInvertEmitsNot(t *testing.T) {
	fx := fixtures.Invert()
	_, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering %s: %v", fx.Name, err)
	}
	if !strings.Contains(dump, "= not [n1]") {
		t.Fatalf("expected a not of the sole param, got:\n%s", dump)
	}
}

func TestSignedCompareEmitsSGe(t *testing.T) {
	fx := fixtures.SignedCompare()
	_, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering %s: %v", fx.Name, err)
	}
	if !strings.Contains(dump, "= sge [n1 n2]") {
		t.Fatalf("expected sge(x, y), got:\n%s", dump)
	}
}

func TestNarrowCastEmitsBitSlice(t *testing.T) {
	fx := fixtures.NarrowCast()
	_, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering %s: %v", fx.Name, err)
	}
	if !strings.Contains(dump, "= bit_slice [n1] : bits[4] start=0 width=4") {
		t.Fatalf("expected BitSlice(x, 0, 4), got:\n%s", dump)
	}
}

func TestWidenCastEmitsZeroExtend(t *testing.T) {
	fx := fixtures.WidenCast()
	_, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering %s: %v", fx.Name, err)
	}
	if !strings.Contains(dump, "= zero_extend [n1] : bits[8] width=8") {
		t.Fatalf("expected ZeroExtend(x, 8), got:\n%s", dump)
	}
}

func TestArrayIndexEmitsArrayIndex(t *testing.T) {
	fx := fixtures.ArrayIndex()
	_, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering %s: %v", fx.Name, err)
	}
	// n1 is the array param, n2 the Literal(2) index.
	if !strings.Contains(dump, "= literal [] : bits[32] lit=2") {
		t.Fatalf("expected a Literal(2) index operand, got:\n%s", dump)
	}
	if !strings.Contains(dump, "= array_index [n1 n2]") {
		t.Fatalf("expected ArrayIndex(x, [Literal(2)]), got:\n%s", dump)
	}
}

func TestMatchEmitsSingleMatchTrue(t *testing.T) {
	fx := fixtures.Match()
	fn, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering %s: %v", fx.Name, err)
	}
	matchTrueCount := strings.Count(dump, "= match_true")
	if matchTrueCount != 1 {
		t.Fatalf("expected exactly one match_true, got %d:\n%s", matchTrueCount, dump)
	}
	// 3 arms -> 2 selectors, 2 arm values, 1 default -> 5 operands.
	var matchLine string
	for _, line := range strings.Split(dump, "\n") {
		if strings.Contains(line, "= match_true") {
			matchLine = line
		}
	}
	open := strings.Index(matchLine, "[")
	shut := strings.Index(matchLine, "]")
	if open < 0 || shut < open {
		t.Fatalf("could not find operand list in match_true line: %s", matchLine)
	}
	if got := len(strings.Fields(matchLine[open+1 : shut])); got != 5 {
		t.Fatalf("expected match_true to reference 5 operands, got %d in line: %s", got, matchLine)
	}
	if strings.Count(dump, "= eq") != 2 {
		t.Fatalf("expected exactly 2 Eq selectors (one per literal pattern arm), got:\n%s", dump)
	}
	if fn.Result.String() == "" {
		t.Fatalf("expected a non-empty result type")
	}
}

func TestMapOverArrayProducesMapNode(t *testing.T) {
	fx := fixtures.MapOverArray()
	pkg := newTestPackage(fx.Module.Name)

	bumpFn, err := lowerFunction(pkg, fx.Module, fx.TypeInfo, fx.Module.FuncByName("bump"))
	if err != nil {
		t.Fatalf("lowering bump: %v", err)
	}
	if !strings.Contains(dumpOne(t, bumpFn), "= not") {
		t.Fatalf("expected bump's body to lower to Not")
	}

	applyFn, err := lowerFunction(pkg, fx.Module, fx.TypeInfo, fx.Module.FuncByName("apply"))
	if err != nil {
		t.Fatalf("lowering apply: %v", err)
	}
	dump := dumpOne(t, applyFn)
	if !strings.Contains(dump, "= map [n1] : bits[8][4] fn="+bumpFn.Name) {
		t.Fatalf("expected a Map(xs, bump) node, got:\n%s", dump)
	}
}

func TestParametricMapSynthesizesClzWrapper(t *testing.T) {
	fx := clzMapFixture()
	_, dump, err := lowerSoleFunction(fx.Module, fx.TypeInfo)
	if err != nil {
		t.Fatalf("lowering clz map fixture: %v", err)
	}
	if !strings.Contains(dump, "fn __fixtures__clz(") {
		t.Fatalf("expected a synthesized __fixtures__clz wrapper, got:\n%s", dump)
	}
	if !strings.Contains(dump, "= clz [n1]") {
		t.Fatalf("expected the wrapper's body to be a single Clz, got:\n%s", dump)
	}
	if !strings.Contains(dump, "fn=__fixtures__clz") {
		t.Fatalf("expected the call site's Map node to reference the wrapper, got:\n%s", dump)
	}
}
