package irb_test

import (
	"math/big"
	"testing"

	"hdlower/internal/irb"
	"hdlower/internal/source"
)

var noSpan source.Span

// TestBuildNot mirrors spec.md §8's first literal scenario:
// fn f(x: u8) -> u8 { !x } -> IR f with one bits[8] param, single Not, return.
func TestBuildNot(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__f", false)
	x := fb.Param("x", irb.BitsType(8), noSpan)
	ret := fb.Not(x, noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fn.Params) != 1 || fn.Params[0].GetType().Width != 8 {
		t.Fatalf("expected one bits[8] param, got %+v", fn.Params)
	}
	if fn.Result.Width != 8 {
		t.Fatalf("expected bits[8] result, got %v", fn.Result)
	}
	if len(fn.Nodes) != 2 {
		t.Fatalf("expected param + not, got %d nodes", len(fn.Nodes))
	}
}

// TestBuildSGe mirrors: fn g(x: s8, y: s8) -> bits[1] { x >= y } -> SGe(x, y).
func TestBuildSGe(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__g", false)
	x := fb.Param("x", irb.BitsType(8), noSpan)
	y := fb.Param("y", irb.BitsType(8), noSpan)
	ret := fb.SGe(x, y, noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Result.Width != 1 {
		t.Fatalf("expected bits[1] result, got %v", fn.Result)
	}
}

// TestBuildNarrowingCast mirrors: fn h(x: u8) -> u4 { x as u4 } -> BitSlice(x, 0, 4).
func TestBuildNarrowingCast(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__h", false)
	x := fb.Param("x", irb.BitsType(8), noSpan)
	ret := fb.BitSlice(x, 0, 4, noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Result.Width != 4 {
		t.Fatalf("expected bits[4] result, got %v", fn.Result)
	}
}

// TestBuildWideningCast mirrors: fn k(x: u4) -> u8 { x as u8 } (unsigned) -> ZeroExtend(x, 8).
func TestBuildWideningCast(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__k", false)
	x := fb.Param("x", irb.BitsType(4), noSpan)
	ret := fb.ZeroExtend(x, 8, noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Result.Width != 8 {
		t.Fatalf("expected bits[8] result, got %v", fn.Result)
	}
}

// TestBuildArrayIndex mirrors: fn m(x: u32[4]) -> u32 { x[2] } -> ArrayIndex(x, [Literal(2)]).
func TestBuildArrayIndex(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__m", false)
	arrType := irb.ArrayType(irb.BitsType(32), 4)
	x := fb.Param("x", arrType, noSpan)
	idx := fb.Literal(big.NewInt(2), irb.BitsType(32), noSpan)
	ret := fb.ArrayIndex(x, []irb.Handle{idx}, irb.BitsType(32), noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Result.Width != 32 {
		t.Fatalf("expected bits[32] result, got %v", fn.Result)
	}
}

// TestBuildMatchTrue mirrors: match x { 42 => a, 64 => b, _ => c } ->
// MatchTrue([Eq(x,42), Eq(x,64)], [a, b], c).
func TestBuildMatchTrue(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__match", false)
	x := fb.Param("x", irb.BitsType(8), noSpan)
	a := fb.Param("a", irb.BitsType(8), noSpan)
	b := fb.Param("b", irb.BitsType(8), noSpan)
	c := fb.Param("c", irb.BitsType(8), noSpan)

	lit42 := fb.Literal(big.NewInt(42), irb.BitsType(8), noSpan)
	lit64 := fb.Literal(big.NewInt(64), irb.BitsType(8), noSpan)
	sel0 := fb.Eq(x, lit42, noSpan)
	sel1 := fb.Eq(x, lit64, noSpan)

	ret := fb.MatchTrue([]irb.Handle{sel0, sel1}, []irb.Handle{a, b}, c, irb.BitsType(8), noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Result.Width != 8 {
		t.Fatalf("expected bits[8] result, got %v", fn.Result)
	}
}

func TestPackageFunctionRegistration(t *testing.T) {
	pkg := irb.NewPackage("m", nil)
	fb := irb.NewFunctionBuilder("__m__f", false)
	ret := fb.Param("x", irb.BitsType(1), noSpan)
	fn, err := fb.Build(ret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pkg.AddFunction(fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pkg.HasFunctionWithName("__m__f") {
		t.Fatal("expected function to be registered")
	}
	if err := pkg.AddFunction(fn); err == nil {
		t.Fatal("expected error on duplicate registration")
	}
}

func TestBuilderReuseRejected(t *testing.T) {
	fb := irb.NewFunctionBuilder("__m__f", false)
	ret := fb.Param("x", irb.BitsType(1), noSpan)
	if _, err := fb.Build(ret); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := fb.Build(ret); err == nil {
		t.Fatal("expected error on reused builder")
	}
}
