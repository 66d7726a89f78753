package ast

import "hdlower/internal/source"

// Param is a function parameter: a fresh NameDef paired with its
// declared surface type.
type Param struct {
	Name    string
	NameDef NameDefID
	Type    TypeRefID
}

// Function is one module-level function declaration. FreeKeys lists the
// parametric identifiers (dimension variables) free in its signature, in
// declaration order; Mangle requires bindings for exactly this set.
type Function struct {
	Name     string
	FreeKeys []string
	Params   []Param
	Result   TypeRefID
	Body     ExprID
	Span     source.Span
}

// ConstantDef is a module-level constant (spec.md §4.A: "constant
// identifiers declared at module level are excluded when forming the
// tuple used as a cache key").
type ConstantDef struct {
	Name  string
	Value ExprID
	Span  source.Span
}

type EnumMember struct {
	Name  string
	Value ExprID
}

type EnumDef struct {
	Name    string
	Members []EnumMember
	Width   TypeRefID
	Span    source.Span
}

type StructFieldDef struct {
	Name string
	Type TypeRefID
}

type StructDef struct {
	Name   string
	Fields []StructFieldDef
	Span   source.Span
}

// TypeDef is a type alias, consulted when resolving a ColonRef subject
// through a typedef chain to the EnumDef it ultimately names.
type TypeDef struct {
	Name   string
	Target TypeRefID
	Span   source.Span
}

// Import names another module by path and optional alias.
type Import struct {
	Path  string
	Alias string
}

// Module is the top-level container a lowering driver walks in
// dependency order (spec.md §2).
type Module struct {
	Name string

	Funcs     []*Function
	Consts    []*ConstantDef
	Enums     []*EnumDef
	Structs   []*StructDef
	TypeDefs  []*TypeDef
	Imports   []*Import

	// Exprs/Patterns/NameDefs are the node arenas shared by every
	// function and constant belonging to this module.
	Exprs    *Exprs
	Patterns *Patterns
	NameDefs *NameDefs
}

func NewModule(name string) *Module {
	return &Module{
		Name:     name,
		Exprs:    NewExprs(0),
		Patterns: NewPatterns(0),
		NameDefs: NewNameDefs(0),
	}
}

func (m *Module) ConstantByName(name string) *ConstantDef {
	for _, c := range m.Consts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (m *Module) FuncByName(name string) *Function {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (m *Module) EnumByName(name string) *EnumDef {
	for _, e := range m.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (m *Module) StructByName(name string) *StructDef {
	for _, s := range m.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (m *Module) TypeDefByName(name string) *TypeDef {
	for _, t := range m.TypeDefs {
		if t.Name == name {
			return t
		}
	}
	return nil
}
