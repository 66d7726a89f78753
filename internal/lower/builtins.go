package lower

import (
	"fmt"
	"strings"

	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerInvocation dispatches a recognized builtin name, or the map
// higher-order form, per spec.md §4.F. Any other callee is Unimplemented:
// the engine never calls user-defined functions directly (those are
// only ever reached as the second argument of map).
func (e *Engine) lowerInvocation(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Invocation(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if data.Callee == "map" {
		return e.lowerMap(id, data, span)
	}
	return e.lowerBuiltin(id, data, span)
}

func (e *Engine) lowerOperand(arg ast.ExprID, span source.Span) (irb.Handle, error) {
	if _, err := e.LowerExpr(arg); err != nil {
		return irb.Handle{}, err
	}
	return e.env.Use(arg.Node(), e.span(span))
}

func (e *Engine) lowerBuiltin(id ast.ExprID, data *ast.InvocationData, span source.Span) (irb.Handle, error) {
	switch data.Callee {
	case "clz", "ctz", "and_reduce", "or_reduce", "xor_reduce", "rev":
		if len(data.Args) != 1 {
			return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "%s takes exactly 1 argument, got %d", data.Callee, len(data.Args))
		}
		operand, err := e.lowerOperand(data.Args[0], span)
		if err != nil {
			return irb.Handle{}, err
		}
		return e.env.Def(id.Node(), func() (irb.Handle, error) {
			return e.emitUnaryBuiltin(data.Callee, operand, span)
		})

	case "bit_slice":
		if len(data.Args) != 3 {
			return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "bit_slice takes exactly 3 arguments, got %d", len(data.Args))
		}
		operand, err := e.lowerOperand(data.Args[0], span)
		if err != nil {
			return irb.Handle{}, err
		}
		start, err := e.lowerConstArg(data.Args[1], span)
		if err != nil {
			return irb.Handle{}, err
		}
		width, err := e.lowerConstArg(data.Args[2], span)
		if err != nil {
			return irb.Handle{}, err
		}
		return e.env.Def(id.Node(), func() (irb.Handle, error) {
			return e.builder.BitSlice(operand, uint32(start), uint32(width), e.span(span)), nil
		})

	case "signex":
		if len(data.Args) != 2 {
			return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "signex takes exactly 2 arguments, got %d", len(data.Args))
		}
		operand, err := e.lowerOperand(data.Args[0], span)
		if err != nil {
			return irb.Handle{}, err
		}
		// The new width comes from the type annotation of arg 2, not its
		// value (spec.md §4.F): arg 2 is a zero-valued expression of the
		// target width, consulted only through type resolution.
		targetType, err := e.ResolveType(data.Args[1].Node())
		if err != nil {
			return irb.Handle{}, err
		}
		return e.env.Def(id.Node(), func() (irb.Handle, error) {
			return e.builder.SignExtend(operand, targetType.BitCount(), e.span(span)), nil
		})

	case "one_hot":
		if len(data.Args) != 2 {
			return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "one_hot takes exactly 2 arguments, got %d", len(data.Args))
		}
		operand, err := e.lowerOperand(data.Args[0], span)
		if err != nil {
			return irb.Handle{}, err
		}
		lsbPrio, err := e.lowerConstArg(data.Args[1], span)
		if err != nil {
			return irb.Handle{}, err
		}
		priority := irb.PriorityMSB
		if lsbPrio != 0 {
			priority = irb.PriorityLSB
		}
		return e.env.Def(id.Node(), func() (irb.Handle, error) {
			return e.builder.OneHot(operand, priority, e.span(span)), nil
		})

	case "one_hot_sel":
		return e.lowerOneHotSel(id, data, span)

	case "update":
		if len(data.Args) != 3 {
			return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "update takes exactly 3 arguments, got %d", len(data.Args))
		}
		arr, err := e.lowerOperand(data.Args[0], span)
		if err != nil {
			return irb.Handle{}, err
		}
		index, err := e.lowerOperand(data.Args[1], span)
		if err != nil {
			return irb.Handle{}, err
		}
		newValue, err := e.lowerOperand(data.Args[2], span)
		if err != nil {
			return irb.Handle{}, err
		}
		return e.env.Def(id.Node(), func() (irb.Handle, error) {
			return e.builder.ArrayUpdate(arr, index, newValue, e.span(span)), nil
		})

	default:
		return irb.Handle{}, diagx.Unimplementedf(e.span(span), "unrecognized builtin %q", data.Callee)
	}
}

func (e *Engine) emitUnaryBuiltin(callee string, operand irb.Handle, span source.Span) (irb.Handle, error) {
	switch callee {
	case "clz":
		return e.builder.Clz(operand, e.span(span)), nil
	case "ctz":
		return e.builder.Ctz(operand, e.span(span)), nil
	case "and_reduce":
		return e.builder.AndReduce(operand, e.span(span)), nil
	case "or_reduce":
		return e.builder.OrReduce(operand, e.span(span)), nil
	case "xor_reduce":
		return e.builder.XorReduce(operand, e.span(span)), nil
	case "rev":
		return e.builder.Reverse(operand, e.span(span)), nil
	default:
		return irb.Handle{}, diagx.Internalf(e.span(span), "unknown unary builtin %q", callee)
	}
}

// lowerConstArg lowers arg and requires it be a compile-time constant,
// returning its value as an int64 (spec.md §4.F: "start, width from
// constant args").
func (e *Engine) lowerConstArg(arg ast.ExprID, span source.Span) (int64, error) {
	if _, err := e.LowerExpr(arg); err != nil {
		return 0, err
	}
	v, err := e.env.GetConstValue(arg.Node())
	if err != nil {
		return 0, diagx.InvalidArgumentf(e.span(span), "builtin argument must be a compile-time constant: %v", err)
	}
	return v.Int64(), nil
}

// lowerOneHotSel draws cases directly from an array-literal AST node
// rather than through the value domain (spec.md §4.F).
func (e *Engine) lowerOneHotSel(id ast.ExprID, data *ast.InvocationData, span source.Span) (irb.Handle, error) {
	if len(data.Args) != 2 {
		return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "one_hot_sel takes exactly 2 arguments, got %d", len(data.Args))
	}
	selector, err := e.lowerOperand(data.Args[0], span)
	if err != nil {
		return irb.Handle{}, err
	}
	litData, ok := e.module.Exprs.ArrayLit(data.Args[1])
	if !ok {
		return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "one_hot_sel's second argument must be an array literal")
	}
	cases := make([]irb.Handle, len(litData.Elements))
	for i, elem := range litData.Elements {
		h, err := e.lowerOperand(elem, span)
		if err != nil {
			return irb.Handle{}, err
		}
		cases[i] = h
	}
	resultType, _, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.OneHotSelect(selector, cases, resultType, e.span(span)), nil
	})
}

// parametricBuiltins names the builtins map's higher-order form can
// synthesize a single-parameter wrapper function for (spec.md §4.F).
var parametricBuiltins = map[string]bool{"clz": true, "ctz": true}

// IsParametricBuiltin reports whether name is one of the builtins map
// can synthesize a wrapper for, rather than resolve as a same-module
// function reference. Exported so a driver walking a module's call
// graph (internal/lowpipeline) can tell a builtin map callee apart from
// a real function dependency without duplicating this table.
func IsParametricBuiltin(name string) bool {
	return parametricBuiltins[name]
}

// lowerMap implements the two map(array, fn) cases of spec.md §4.F.
func (e *Engine) lowerMap(id ast.ExprID, data *ast.InvocationData, span source.Span) (irb.Handle, error) {
	if len(data.Args) != 2 || data.MapFn == nil {
		return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "map requires exactly 2 arguments with a resolved callee")
	}
	arr, err := e.lowerOperand(data.Args[0], span)
	if err != nil {
		return irb.Handle{}, err
	}
	resultType, ct, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}

	var fn *irb.Function
	if !data.MapFn.IsColonRef && parametricBuiltins[data.MapFn.Name] {
		fn, err = e.synthesizeParametricWrapper(data.MapFn.Name, ct, span)
	} else {
		fn, err = e.lookupMapFn(data.MapFn, span)
	}
	if err != nil {
		return irb.Handle{}, err
	}

	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.Map(arr, fn, resultType, e.span(span)), nil
	})
}

// synthesizeParametricWrapper builds, idempotently by mangled name, a
// single-parameter function whose body is the named builtin applied to
// its parameter (spec.md §4.F, §8: "a synthesized wrapper __M__clz with
// one Clz").
func (e *Engine) synthesizeParametricWrapper(builtin string, arrayCt hirtypes.ConcreteType, span source.Span) (*irb.Function, error) {
	elemType, err := e.TypeToIr(*arrayCt.Elem)
	if err != nil {
		return nil, err
	}
	mangled := fmt.Sprintf("__%s__%s", strings.ReplaceAll(e.module.Name, ".", "_"), builtin)
	if existing, ok := e.pkg.GetFunction(mangled); ok {
		return existing, nil
	}
	fb := irb.NewFunctionBuilder(mangled, e.emitPositions)
	param := fb.Param("x", elemType, e.span(span))
	var result irb.Handle
	switch builtin {
	case "clz":
		result = fb.Clz(param, e.span(span))
	case "ctz":
		result = fb.Ctz(param, e.span(span))
	default:
		return nil, diagx.Internalf(e.span(span), "unknown parametric builtin %q", builtin)
	}
	fn, err := fb.Build(result)
	if err != nil {
		return nil, err
	}
	if err := e.pkg.AddFunction(fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// lookupMapFn mangles the callee per its own free keys and the current
// invocation's bindings, then looks up the already-lowered function in
// the package. A missing entry is a caller bug (spec.md §4.F: "Missing
// invocation bindings for a parametric callee is a caller bug ->
// Internal").
func (e *Engine) lookupMapFn(ref *ast.MapFnRef, span source.Span) (*irb.Function, error) {
	calleeModule := e.module
	if ref.IsColonRef {
		imported, ok := e.typeInfo.Imports[ref.Module]
		if !ok {
			return nil, diagx.Internalf(e.span(span), "map callee references unknown module %q", ref.Module)
		}
		calleeModule = imported
	}
	fnDef := calleeModule.FuncByName(ref.Name)
	if fnDef == nil {
		return nil, diagx.Internalf(e.span(span), "map callee %q not found in module %q", ref.Name, calleeModule.Name)
	}
	mangled, err := Mangle(fnDef.Name, fnDef.FreeKeys, calleeModule.Name, e.GetSymbolicBindingsTuple())
	if err != nil {
		return nil, err
	}
	fn, ok := e.pkg.GetFunction(mangled)
	if !ok {
		return nil, diagx.Internalf(e.span(span), "map callee %q not yet lowered under mangled name %q", ref.Name, mangled)
	}
	return fn, nil
}
