package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerTernary implements `Select(test, consequent, alternate)` — a
// two-case select (spec.md §4.E).
func (e *Engine) lowerTernary(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Ternary(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Test); err != nil {
		return irb.Handle{}, err
	}
	if _, err := e.LowerExpr(data.Consequent); err != nil {
		return irb.Handle{}, err
	}
	if _, err := e.LowerExpr(data.Alternate); err != nil {
		return irb.Handle{}, err
	}
	test, err := e.env.Use(data.Test.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	consequent, err := e.env.Use(data.Consequent.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	alternate, err := e.env.Use(data.Alternate.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.Select(test, consequent, alternate, e.span(span)), nil
	})
}

// lowerLet lowers the RHS, binds the pattern tree (leaf alias or
// preorder tuple destructure through a running TupleIndex stack), then
// lowers the body and aliases the Let node to it (spec.md §4.E, property
// 5 in §8). The first body encountered becomes the engine's tracked
// last_expression.
func (e *Engine) lowerLet(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.Let(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	if _, err := e.LowerExpr(data.Rhs); err != nil {
		return irb.Handle{}, err
	}
	rhsHandle, err := e.env.Use(data.Rhs.Node(), e.span(span))
	if err != nil {
		return irb.Handle{}, err
	}
	rhsType, err := e.ResolveType(data.Rhs.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	if err := e.bindPattern(data.Bindings, rhsHandle, rhsType, span); err != nil {
		return irb.Handle{}, err
	}

	if !e.lastExpression.IsValid() {
		e.lastExpression = data.Body
	}
	if _, err := e.LowerExpr(data.Body); err != nil {
		return irb.Handle{}, err
	}
	bodyValue, ok := e.env.GetNodeToIr(data.Body.Node())
	if !ok {
		return irb.Handle{}, diagx.Internalf(e.span(span), "let body %+v not lowered", data.Body)
	}
	e.env.SetNodeToIr(id.Node(), bodyValue)
	return bodyValue.Handle(), nil
}

// bindPattern walks one node of a let-binding tree. A leaf aliases its
// name-def to value directly; a tuple node projects each child with
// TupleIndex under that child's resolved member type and recurses
// (spec.md §8 property 5).
func (e *Engine) bindPattern(b ast.Binding, value irb.Handle, ct hirtypes.ConcreteType, span source.Span) error {
	switch b.Kind {
	case ast.BindingLeaf:
		e.env.SetNodeToIr(b.Leaf.Node(), Computed(value))
		if !value.HasAssignedName() {
			value.SetName(e.nameDefIdentifier(b.Leaf))
		}
		return nil
	case ast.BindingTuple:
		if len(b.Children) != len(ct.Elems) {
			return diagx.Internalf(e.span(span), "let binding tuple arity %d does not match resolved type arity %d", len(b.Children), len(ct.Elems))
		}
		for i, child := range b.Children {
			elemCt := ct.Elems[i]
			elemIrType, err := e.TypeToIr(elemCt)
			if err != nil {
				return err
			}
			projected := e.builder.TupleIndex(value, uint32(i), elemIrType, e.span(span))
			if err := e.bindPattern(child, projected, elemCt, span); err != nil {
				return err
			}
		}
		return nil
	default:
		return diagx.Internalf(e.span(span), "unknown let-binding kind %d", b.Kind)
	}
}

// nameDefIdentifier looks up a name-def's source identifier for naming
// freshly projected IR nodes. The module's NameDefs arena is consulted
// directly since bindPattern only has the NameDefID, not the surrounding
// AST context.
func (e *Engine) nameDefIdentifier(def ast.NameDefID) string {
	if nd := e.module.NameDefs.Get(def); nd != nil {
		return nd.Identifier
	}
	return ""
}
