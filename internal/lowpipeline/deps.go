package lowpipeline

import (
	"hdlower/internal/ast"
	"hdlower/internal/lower"
)

// exprChildren lists the sub-expressions of id that the dependency
// scanner must also visit. Mirrors the dispatch table in
// internal/lower/lower_expr_cf.go's LowerExpr, minus the lowering work:
// this file only needs to find map callees, never to lower anything.
func exprChildren(m *ast.Module, id ast.ExprID) []ast.ExprID {
	if !id.IsValid() {
		return nil
	}
	switch m.Exprs.Get(id).Kind {
	case ast.ExprNumber, ast.ExprNameRef, ast.ExprColonRef:
		return nil
	case ast.ExprUnop:
		d, _ := m.Exprs.Unop(id)
		return []ast.ExprID{d.Operand}
	case ast.ExprBinop:
		d, _ := m.Exprs.Binop(id)
		return []ast.ExprID{d.Lhs, d.Rhs}
	case ast.ExprConcat:
		d, _ := m.Exprs.Concat(id)
		return []ast.ExprID{d.Lhs, d.Rhs}
	case ast.ExprCast:
		d, _ := m.Exprs.Cast(id)
		return []ast.ExprID{d.Operand}
	case ast.ExprXlsTuple:
		d, _ := m.Exprs.XlsTuple(id)
		return d.Members
	case ast.ExprStructInstance:
		d, _ := m.Exprs.StructInstance(id)
		out := make([]ast.ExprID, len(d.Fields))
		for i, f := range d.Fields {
			out[i] = f.Value
		}
		return out
	case ast.ExprSplatStructInstance:
		d, _ := m.Exprs.SplatStructInstance(id)
		out := []ast.ExprID{d.Base}
		for _, u := range d.Updates {
			out = append(out, u.Value)
		}
		return out
	case ast.ExprAttr:
		d, _ := m.Exprs.Attr(id)
		return []ast.ExprID{d.Lhs}
	case ast.ExprIndex:
		d, _ := m.Exprs.Index(id)
		out := []ast.ExprID{d.Lhs}
		if d.Rhs.IsValid() {
			out = append(out, d.Rhs)
		}
		if d.WidthSliceStart.IsValid() {
			out = append(out, d.WidthSliceStart)
		}
		return out
	case ast.ExprArrayLit:
		d, _ := m.Exprs.ArrayLit(id)
		return d.Elements
	case ast.ExprConstantArray:
		d, _ := m.Exprs.ConstantArray(id)
		return d.Elements
	case ast.ExprTernary:
		d, _ := m.Exprs.Ternary(id)
		return []ast.ExprID{d.Test, d.Consequent, d.Alternate}
	case ast.ExprLet:
		d, _ := m.Exprs.Let(id)
		return []ast.ExprID{d.Rhs, d.Body}
	case ast.ExprMatch:
		d, _ := m.Exprs.Match(id)
		out := []ast.ExprID{d.Scrutinee}
		for _, arm := range d.Arms {
			out = append(out, arm.Value)
		}
		return out
	case ast.ExprInvocation:
		d, _ := m.Exprs.Invocation(id)
		return d.Args
	default:
		return nil
	}
}

// sameModuleMapCallees walks body and returns, in first-seen order, the
// names of every same-module function reached through a map invocation
// (spec.md §4.F). A colon-ref callee names a function in an already
// (or separately) lowered module, so it carries no wave dependency here.
// A parametric-builtin callee (clz/ctz) is synthesized on demand by the
// engine itself and likewise carries no dependency.
func sameModuleMapCallees(m *ast.Module, body ast.ExprID) []string {
	var callees []string
	seen := make(map[string]bool)
	var walk func(ast.ExprID)
	walk = func(id ast.ExprID) {
		if !id.IsValid() {
			return
		}
		expr := m.Exprs.Get(id)
		if expr.Kind == ast.ExprInvocation {
			data, _ := m.Exprs.Invocation(id)
			if data.Callee == "map" && data.MapFn != nil && !data.MapFn.IsColonRef && !lower.IsParametricBuiltin(data.MapFn.Name) {
				if !seen[data.MapFn.Name] {
					seen[data.MapFn.Name] = true
					callees = append(callees, data.MapFn.Name)
				}
			}
		}
		for _, child := range exprChildren(m, id) {
			walk(child)
		}
	}
	walk(body)
	return callees
}
