package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// LowerExpr is the engine's single recursive dispatcher. spec.md §9's
// design note on the "Recursive visitor as a collaborator" asks for
// exactly this: one match on the AST-node tag replacing the
// visit-calls-HandleX-calls-visit double dispatch, so sub-expressions are
// lowered by plain recursive calls rather than callbacks threaded in
// from a driver.
func (e *Engine) LowerExpr(id ast.ExprID) (irb.Handle, error) {
	if v, ok := e.env.GetNodeToIr(id.Node()); ok {
		return v.Handle(), nil
	}
	expr := e.module.Exprs.Get(id)
	switch expr.Kind {
	case ast.ExprNumber:
		data, ok := e.module.Exprs.Number(id)
		if !ok {
			return irb.Handle{}, diagx.Internalf(e.span(expr.Span), "missing Number payload for %+v", id)
		}
		return e.lowerNumber(id, data.Text, expr.Span)
	case ast.ExprUnop:
		return e.lowerUnop(id, expr.Span)
	case ast.ExprBinop:
		return e.lowerBinop(id, expr.Span)
	case ast.ExprConcat:
		return e.lowerConcat(id, expr.Span)
	case ast.ExprCast:
		return e.lowerCast(id, expr.Span)
	case ast.ExprXlsTuple:
		return e.lowerXlsTuple(id, expr.Span)
	case ast.ExprStructInstance:
		return e.lowerStructInstance(id, expr.Span)
	case ast.ExprSplatStructInstance:
		return e.lowerSplatStructInstance(id, expr.Span)
	case ast.ExprAttr:
		return e.lowerAttr(id, expr.Span)
	case ast.ExprIndex:
		return e.lowerIndex(id, expr.Span)
	case ast.ExprArrayLit:
		return e.lowerArrayLit(id, expr.Span)
	case ast.ExprConstantArray:
		return e.lowerConstantArray(id, expr.Span)
	case ast.ExprTernary:
		return e.lowerTernary(id, expr.Span)
	case ast.ExprColonRef:
		return e.lowerColonRef(id, expr.Span)
	case ast.ExprLet:
		return e.lowerLet(id, expr.Span)
	case ast.ExprMatch:
		return e.lowerMatch(id, expr.Span)
	case ast.ExprInvocation:
		return e.lowerInvocation(id, expr.Span)
	case ast.ExprNameRef:
		return e.lowerNameRef(id, expr.Span)
	default:
		return irb.Handle{}, diagx.Unimplementedf(e.span(expr.Span), "unrecognized expression kind %d", expr.Kind)
	}
}

// lowerNameRef re-keys the target name-def's existing entry under the
// NameRef expression's own identity, preserving Constant-ness (a name
// that resolved to a constant must still GetConstValue through any
// expression that merely refers to it).
func (e *Engine) lowerNameRef(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, ok := e.module.Exprs.NameRef(id)
	if !ok {
		return irb.Handle{}, diagx.Internalf(e.span(span), "missing NameRef payload for %+v", id)
	}
	v, ok := e.env.GetNodeToIr(data.Target.Node())
	if !ok {
		return irb.Handle{}, diagx.NotFoundf(e.span(span), "name ref to undefined node %+v", data.Target)
	}
	e.env.SetNodeToIr(id.Node(), v)
	return v.Handle(), nil
}
