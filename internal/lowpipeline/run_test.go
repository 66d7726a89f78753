package lowpipeline_test

import (
	"context"
	"testing"

	"hdlower/internal/ast"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/lowpipeline"
	"hdlower/internal/source"
)

var noSpan source.Span

// TestRunSingleFunction mirrors spec.md §8's first literal scenario:
// fn f(x: u8) -> u8 { !x }.
func TestRunSingleFunction(t *testing.T) {
	module := ast.NewModule("m")
	xDef := module.NameDefs.New("x", noSpan)
	xRef := module.Exprs.NewNameRef(noSpan, "x", xDef)
	body := module.Exprs.NewUnop(noSpan, ast.UnopInvert, xRef)

	paramType := ast.TypeRefID(1)
	module.Funcs = append(module.Funcs, &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "x", NameDef: xDef, Type: paramType}},
		Result: paramType,
		Body:   body,
	})

	typeInfo := hirtypes.NewTypeInfo()
	typeInfo.Annotations[paramType] = hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)

	pkg := irb.NewPackage("m", nil)
	if err := lowpipeline.Run(context.Background(), pkg, module, typeInfo, lowpipeline.Options{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pkg.HasFunctionWithName("__m__f") {
		t.Fatalf("expected __m__f to be registered, got names %v", pkg.FunctionNames())
	}
}

// TestRunWaveOrdering exercises a two-function dependency chain:
// fn bump(x: u8) -> u8 { !x }
// fn apply(xs: u8[4]) -> u8[4] { map(xs, bump) }
// apply's mapped callee must be lowered (wave 0) before apply itself
// (wave 1), or lookupMapFn fails with Internal.
func TestRunWaveOrdering(t *testing.T) {
	module := ast.NewModule("m")

	bumpXDef := module.NameDefs.New("x", noSpan)
	bumpXRef := module.Exprs.NewNameRef(noSpan, "x", bumpXDef)
	bumpBody := module.Exprs.NewUnop(noSpan, ast.UnopInvert, bumpXRef)
	bumpParamType := ast.TypeRefID(1)
	module.Funcs = append(module.Funcs, &ast.Function{
		Name:   "bump",
		Params: []ast.Param{{Name: "x", NameDef: bumpXDef, Type: bumpParamType}},
		Result: bumpParamType,
		Body:   bumpBody,
	})

	applyXsDef := module.NameDefs.New("xs", noSpan)
	applyXsRef := module.Exprs.NewNameRef(noSpan, "xs", applyXsDef)
	applyBody := module.Exprs.NewInvocation(noSpan, ast.InvocationData{
		Callee: "map",
		Args:   []ast.ExprID{applyXsRef, applyXsRef},
		MapFn:  &ast.MapFnRef{Name: "bump"},
	})
	applyParamType := ast.TypeRefID(2)
	applyResultType := ast.TypeRefID(3)
	module.Funcs = append(module.Funcs, &ast.Function{
		Name:   "apply",
		Params: []ast.Param{{Name: "xs", NameDef: applyXsDef, Type: applyParamType}},
		Result: applyResultType,
		Body:   applyBody,
	})

	typeInfo := hirtypes.NewTypeInfo()
	u8 := hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)
	typeInfo.Annotations[bumpParamType] = u8
	arrayOfU8 := hirtypes.SurfaceArrayOf(u8, hirtypes.ConstDim(4))
	typeInfo.Annotations[applyParamType] = arrayOfU8
	typeInfo.Annotations[applyResultType] = arrayOfU8
	typeInfo.Types[applyBody.Node()] = arrayOfU8

	pkg := irb.NewPackage("m", nil)
	if err := lowpipeline.Run(context.Background(), pkg, module, typeInfo, lowpipeline.Options{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pkg.HasFunctionWithName("__m__bump") {
		t.Fatalf("expected __m__bump to be registered, got names %v", pkg.FunctionNames())
	}
	if !pkg.HasFunctionWithName("__m__apply") {
		t.Fatalf("expected __m__apply to be registered, got names %v", pkg.FunctionNames())
	}
}

// recordingSink captures every event emitted during a Run call, the
// way a UI progress view would consume them (internal/uiprogress).
type recordingSink struct {
	events []lowpipeline.Event
}

func (s *recordingSink) OnEvent(ev lowpipeline.Event) {
	s.events = append(s.events, ev)
}

func TestRunEmitsDoneEvent(t *testing.T) {
	module := ast.NewModule("m")
	xDef := module.NameDefs.New("x", noSpan)
	xRef := module.Exprs.NewNameRef(noSpan, "x", xDef)
	body := module.Exprs.NewUnop(noSpan, ast.UnopInvert, xRef)
	paramType := ast.TypeRefID(1)
	module.Funcs = append(module.Funcs, &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "x", NameDef: xDef, Type: paramType}},
		Result: paramType,
		Body:   body,
	})
	typeInfo := hirtypes.NewTypeInfo()
	typeInfo.Annotations[paramType] = hirtypes.SurfaceBitsOf(hirtypes.ConstDim(8), false)

	sink := &recordingSink{}
	pkg := irb.NewPackage("m", nil)
	if err := lowpipeline.Run(context.Background(), pkg, module, typeInfo, lowpipeline.Options{}, sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawDone bool
	for _, ev := range sink.events {
		if ev.Stage == lowpipeline.StageFinalize && ev.Status == lowpipeline.StatusDone {
			sawDone = true
		}
	}
	if !sawDone {
		t.Fatalf("expected a finalize/done event, got %+v", sink.events)
	}
}
