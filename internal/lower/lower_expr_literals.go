package lower

import (
	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// lowerConstantArray requires every element to be constant, then emits an
// IR array literal with ellipsis padding, same shape as a regular array
// literal (spec.md §4.E).
func (e *Engine) lowerConstantArray(id ast.ExprID, span source.Span) (irb.Handle, error) {
	data, err0 := payload(e.module.Exprs.ConstantArray(id))
	if err0 != nil {
		return irb.Handle{}, err0
	}
	resultType, ct, err := e.resolveIrType(id.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	handles, allConst, err := e.lowerMembers(data.Elements, span)
	if err != nil {
		return irb.Handle{}, err
	}
	if !allConst {
		return irb.Handle{}, diagx.InvalidArgumentf(e.span(span), "constant array literal has a non-constant element")
	}
	if data.Ellipsis {
		handles = padWithLast(handles, ct.Size)
	}
	return e.env.Def(id.Node(), func() (irb.Handle, error) {
		return e.builder.Array(handles, resultType, e.span(span)), nil
	})
}
