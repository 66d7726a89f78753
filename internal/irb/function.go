package irb

import (
	"fmt"

	"fortio.org/safecast"

	"hdlower/internal/source"
)

// Function is a finalized, immutable function: the result of
// FunctionBuilder.Build. It is what Package.GetFunction returns and what
// an OpMap node's mapFn field points to.
type Function struct {
	Name    string
	Params  []Handle
	Result  Type
	Nodes   []node
	Return  Handle
}

// FunctionBuilder accumulates nodes for one function. It is single-use:
// once Build is called the builder's nodes slice is handed to the
// resulting Function and the builder must not be reused (spec.md §3
// "Lifecycle": "the function builder is single-use").
type FunctionBuilder struct {
	name          string
	emitPositions bool
	nodes         []node
	params        []Handle
	built         bool
}

// NewFunctionBuilder starts a new function under mangledName.
// emitPositions mirrors spec.md §9's single flag toggling whether every
// emitted op carries a source span.
func NewFunctionBuilder(mangledName string, emitPositions bool) *FunctionBuilder {
	return &FunctionBuilder{name: mangledName, emitPositions: emitPositions}
}

func (fb *FunctionBuilder) add(n node, span source.Span) Handle {
	if fb.emitPositions {
		n.span = span
	}
	fb.nodes = append(fb.nodes, n)
	id, err := safecast.Conv[uint32](len(fb.nodes))
	if err != nil {
		panic(fmt.Errorf("node count overflow: %w", err))
	}
	return Handle{fn: fb, id: id}
}

// Name returns the mangled function name the builder was created under.
func (fb *FunctionBuilder) Name() string {
	return fb.name
}

// Param declares a parameter of typ, in declaration order. Every Param
// call must happen before any other op is added.
func (fb *FunctionBuilder) Param(name string, typ Type, span source.Span) Handle {
	h := fb.add(node{kind: OpParam, typ: typ, name: name, hasName: name != ""}, span)
	fb.params = append(fb.params, h)
	return h
}

// Build finalizes the function with ret as its return value. The
// builder must not be used again afterward.
func (fb *FunctionBuilder) Build(ret Handle) (*Function, error) {
	if fb.built {
		return nil, errBuilderReused(fb.name)
	}
	fb.built = true
	return &Function{
		Name:   fb.name,
		Params: fb.params,
		Result: ret.GetType(),
		Nodes:  fb.nodes,
		Return: ret,
	}, nil
}
