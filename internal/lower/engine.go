package lower

import (
	"sort"

	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// Engine lowers exactly one function: it is created per function
// lowering and discarded once the function builder is finalized
// (spec.md §3 "Lifecycle"). It holds no state shared across functions
// except read-only references to the package and type-info.
type Engine struct {
	pkg      *irb.Package
	module   *ast.Module
	typeInfo *hirtypes.TypeInfo

	emitPositions bool

	bindings      hirtypes.Bindings
	constDepNames map[string]bool // module-level constant identifiers seen via AddConstantDep

	env        *nameEnv
	builder    *FunctionBuilder
	sliceCache *hirtypes.SliceCache

	lastExpression ast.ExprID // the function's return expression, set by Let lowering (spec.md §4.E)
}

// FunctionBuilder is an alias so internal/lower call sites read as
// "the engine's function builder" without importing irb directly in
// every file that only touches the builder through the engine.
type FunctionBuilder = irb.FunctionBuilder

// NewEngine constructs an engine bound to (pkg, module, typeInfo,
// emitPositions) for lowering one function under bindings (spec.md §6:
// "new(package, module, type_info, emit_positions: bool)").
func NewEngine(pkg *irb.Package, module *ast.Module, typeInfo *hirtypes.TypeInfo, emitPositions bool, bindings hirtypes.Bindings) *Engine {
	return &Engine{
		pkg:           pkg,
		module:        module,
		typeInfo:      typeInfo,
		emitPositions: emitPositions,
		bindings:      bindings,
		constDepNames: make(map[string]bool),
		env:           newNameEnv(),
	}
}

// SetSliceCache installs the cache consulted by static bit-slice
// lowering (internal/lower/lower_expr_access.go). A driver shares one
// cache across every engine it creates for a module (spec.md §3).
func (e *Engine) SetSliceCache(c *hirtypes.SliceCache) {
	e.sliceCache = c
}

// AddConstantDep records a module-level constant identifier to exclude
// when forming the symbolic-bindings tuple used as a cache key (spec.md
// §6, §3: "constant identifiers declared at module level are excluded").
func (e *Engine) AddConstantDep(name string) {
	e.constDepNames[name] = true
}

// InstantiateFunctionBuilder installs the engine's function builder under
// mangledName. Must be called exactly once, before any handler runs.
func (e *Engine) InstantiateFunctionBuilder(mangledName string) error {
	if e.builder != nil {
		return diagx.Internalf(noSpan, "InstantiateFunctionBuilder called twice for %q", mangledName)
	}
	e.builder = irb.NewFunctionBuilder(mangledName, e.emitPositions)
	return nil
}

// DeclareParam declares a function parameter on the engine's builder and
// binds def's name-environment entry to the resulting handle, so that
// later NameRef expressions referring to def resolve through the normal
// Use path (spec.md §4.D). The driver calls this once per parameter,
// in declaration order, before visiting the function body.
func (e *Engine) DeclareParam(def ast.NameDefID, name string, typ irb.Type, span source.Span) irb.Handle {
	h := e.builder.Param(name, typ, e.span(span))
	e.env.SetNodeToIr(def.Node(), Computed(h))
	return h
}

// GetSymbolicBindingsTuple returns the current bindings with module-level
// constant identifiers removed, sorted by name in byte order
// (spec.md §6). It is used as the cache key against
// internal/hirtypes.SliceCache.
func (e *Engine) GetSymbolicBindingsTuple() hirtypes.Bindings {
	out := make(hirtypes.Bindings, 0, len(e.bindings))
	for _, kv := range e.bindings {
		if e.constDepNames[kv.Name] {
			continue
		}
		out = append(out, kv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Span derives a source location from node's AST span, or the zero span
// if e.emitPositions is false (spec.md §9 "Source locations").
func (e *Engine) span(astSpan source.Span) source.Span {
	if !e.emitPositions {
		return noSpan
	}
	return astSpan
}

// BuildAndFinalize finalizes the engine's function builder with ret and
// registers the result in the package under its mangled name.
func (e *Engine) BuildAndFinalize(ret irb.Handle) (*irb.Function, error) {
	fn, err := e.builder.Build(ret)
	if err != nil {
		return nil, err
	}
	if err := e.pkg.AddFunction(fn); err != nil {
		return nil, err
	}
	return fn, nil
}
