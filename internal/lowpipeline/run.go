package lowpipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hdlower/internal/ast"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/lower"
)

// Options configures one Run call over a module.
type Options struct {
	// EmitPositions threads through to every lower.Engine, toggling
	// whether emitted IR nodes carry a source span (spec.md §9).
	EmitPositions bool

	// Bindings supplies the symbolic-bindings tuple to use when mangling
	// and lowering a given function, keyed by function name. A function
	// absent from this map is treated as fully monomorphic (it must have
	// no free keys, or Mangle fails with InvalidArgument).
	Bindings map[string]hirtypes.Bindings

	// SliceCache is shared across every engine instantiated during this
	// run, the way spec.md §3 describes a driver reusing one cache
	// across monomorphized instances of the same function.
	SliceCache *hirtypes.SliceCache
}

// Run walks module's declarations in dependency order (spec.md §2):
// it computes map-dependency waves, then within each wave lowers every
// function's body concurrently via golang.org/x/sync/errgroup, one
// lower.Engine per function, joining the wave before starting the next
// (spec.md §5). Every module-level constant is registered with every
// engine via AddConstantDep before the function body is visited.
//
// This is a direct generalization of a sequential "for each function,
// lower it" driver loop, parallelized along the dependency axis that
// map-reachability already imposes.
func Run(ctx context.Context, pkg *irb.Package, module *ast.Module, typeInfo *hirtypes.TypeInfo, opts Options, sink ProgressSink) error {
	waves, err := computeWaves(module)
	if err != nil {
		return err
	}
	for wave, fns := range waves {
		g, gctx := errgroup.WithContext(ctx)
		for _, fn := range fns {
			fn := fn
			g.Go(func() error {
				return lowerOneFunction(gctx, pkg, module, typeInfo, fn, wave, opts, sink)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

func lowerOneFunction(ctx context.Context, pkg *irb.Package, module *ast.Module, typeInfo *hirtypes.TypeInfo, fn *ast.Function, wave int, opts Options, sink ProgressSink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	bindings := opts.Bindings[fn.Name]

	mangled, err := lower.Mangle(fn.Name, fn.FreeKeys, module.Name, bindings)
	if err != nil {
		emit(sink, Event{Func: fn.Name, Wave: wave, Stage: StageMangle, Status: StatusError, Err: err})
		return err
	}
	emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageMangle, Status: StatusWorking})

	if pkg.HasFunctionWithName(mangled) {
		// Another Run call (or an earlier instance with the same
		// bindings) already produced this mangled name; nothing to do.
		emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageFinalize, Status: StatusDone, Elapsed: time.Since(start)})
		return nil
	}

	engine := lower.NewEngine(pkg, module, typeInfo, opts.EmitPositions, bindings)
	if opts.SliceCache != nil {
		engine.SetSliceCache(opts.SliceCache)
	}
	for _, c := range module.Consts {
		engine.AddConstantDep(c.Name)
	}
	if err := engine.InstantiateFunctionBuilder(mangled); err != nil {
		emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageMangle, Status: StatusError, Err: err})
		return err
	}

	emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageLower, Status: StatusWorking})
	for _, p := range fn.Params {
		ct, err := engine.ResolveAnnotation(p.Type)
		if err != nil {
			emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageLower, Status: StatusError, Err: err})
			return err
		}
		irType, err := engine.TypeToIr(ct)
		if err != nil {
			emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageLower, Status: StatusError, Err: err})
			return err
		}
		engine.DeclareParam(p.NameDef, p.Name, irType, fn.Span)
	}

	ret, err := engine.LowerExpr(fn.Body)
	if err != nil {
		emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageLower, Status: StatusError, Err: err})
		return err
	}

	emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageFinalize, Status: StatusWorking})
	if _, err := engine.BuildAndFinalize(ret); err != nil {
		emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageFinalize, Status: StatusError, Err: err})
		return err
	}

	emit(sink, Event{Func: fn.Name, Mangled: mangled, Wave: wave, Stage: StageFinalize, Status: StatusDone, Elapsed: time.Since(start)})
	return nil
}
