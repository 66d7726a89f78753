package lower

import (
	"bytes"
	"testing"

	"hdlower/internal/ast"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerFunction drives one function through the engine the same way
// internal/lowpipeline.Run does, minus wave scheduling: mangle, declare
// params, lower the body, finalize. Tests call it directly (instead of
// going through internal/lowpipeline) to keep internal/lower's test
// suite free of a dependency on its own driver package.
func lowerFunction(pkg *irb.Package, module *ast.Module, typeInfo *hirtypes.TypeInfo, fn *ast.Function) (*irb.Function, error) {
	_, built, err := lowerFunctionWithEngine(pkg, module, typeInfo, fn)
	return built, err
}

// lowerFunctionWithEngine is lowerFunction but also returns the engine,
// for tests that need to inspect its name environment after lowering
// (e.g. checking every sub-node's recorded type or constant-ness).
func lowerFunctionWithEngine(pkg *irb.Package, module *ast.Module, typeInfo *hirtypes.TypeInfo, fn *ast.Function) (*Engine, *irb.Function, error) {
	mangled, err := Mangle(fn.Name, fn.FreeKeys, module.Name, nil)
	if err != nil {
		return nil, nil, err
	}
	engine := NewEngine(pkg, module, typeInfo, false, nil)
	for _, c := range module.Consts {
		engine.AddConstantDep(c.Name)
	}
	if err := engine.InstantiateFunctionBuilder(mangled); err != nil {
		return nil, nil, err
	}
	for _, p := range fn.Params {
		ct, err := engine.ResolveAnnotation(p.Type)
		if err != nil {
			return nil, nil, err
		}
		irType, err := engine.TypeToIr(ct)
		if err != nil {
			return nil, nil, err
		}
		engine.DeclareParam(p.NameDef, p.Name, irType, fn.Span)
	}
	ret, err := engine.LowerExpr(fn.Body)
	if err != nil {
		return nil, nil, err
	}
	built, err := engine.BuildAndFinalize(ret)
	return engine, built, err
}

// lowerSoleFunction lowers a single-function module's only function and
// dumps the whole package to text (so a synthesized map wrapper shows up
// alongside the caller), for asserting on exact emitted IR shape.
func lowerSoleFunction(module *ast.Module, typeInfo *hirtypes.TypeInfo) (*irb.Function, string, error) {
	pkg := newTestPackage(module.Name)
	fn, err := lowerFunction(pkg, module, typeInfo, module.Funcs[0])
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := irb.DumpPackage(&buf, pkg); err != nil {
		return nil, "", err
	}
	return fn, buf.String(), nil
}

func newTestPackage(name string) *irb.Package {
	return irb.NewPackage(name, source.NewFileSet())
}

func dumpOne(t *testing.T, fn *irb.Function) string {
	t.Helper()
	var buf bytes.Buffer
	if err := irb.DumpFunction(&buf, fn); err != nil {
		t.Fatalf("dumping %s: %v", fn.Name, err)
	}
	return buf.String()
}
