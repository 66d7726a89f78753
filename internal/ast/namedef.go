package ast

import "hdlower/internal/source"

// NameDef is a fresh binding site: a function parameter, a let-binding
// leaf, or a pattern's fresh-binding arm. DefAlias gives the IR node a
// debug name derived from Identifier (spec.md §4.D).
type NameDef struct {
	Identifier string
	Span       source.Span
}

type NameDefs struct {
	arena *Arena[NameDef]
}

func NewNameDefs(capHint uint) *NameDefs {
	return &NameDefs{arena: NewArena[NameDef](capHint)}
}

func (n *NameDefs) New(identifier string, span source.Span) NameDefID {
	return NameDefID(n.arena.Allocate(NameDef{Identifier: identifier, Span: span}))
}

func (n *NameDefs) Get(id NameDefID) *NameDef {
	return n.arena.Get(uint32(id))
}
