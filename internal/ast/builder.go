package ast

import "hdlower/internal/source"

// Exprs owns the expression arena and one payload arena per kind that
// carries data, mirroring the teacher corpus's per-kind arena layout
// (Expr{Kind,Span,Payload} plus sibling NewXxx/Xxx accessor pairs) rather
// than a single interface{} payload field.
type Exprs struct {
	arena *Arena[Expr]

	numbers       *Arena[NumberData]
	unops         *Arena[UnopData]
	binops        *Arena[BinopData]
	concats       *Arena[ConcatData]
	casts         *Arena[CastData]
	xlsTuples     *Arena[XlsTupleData]
	structs       *Arena[StructInstanceData]
	splatStructs  *Arena[SplatStructInstanceData]
	attrs         *Arena[AttrData]
	indices       *Arena[IndexData]
	arrayLits     *Arena[ArrayLitData]
	constArrays   *Arena[ConstantArrayData]
	ternaries     *Arena[TernaryData]
	colonRefs     *Arena[ColonRefData]
	lets          *Arena[LetData]
	matches       *Arena[MatchData]
	invocations   *Arena[InvocationData]
	nameRefs      *Arena[NameRefData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		arena:        NewArena[Expr](capHint),
		numbers:      NewArena[NumberData](capHint),
		unops:        NewArena[UnopData](capHint),
		binops:       NewArena[BinopData](capHint),
		concats:      NewArena[ConcatData](capHint),
		casts:        NewArena[CastData](capHint),
		xlsTuples:    NewArena[XlsTupleData](capHint),
		structs:      NewArena[StructInstanceData](capHint),
		splatStructs: NewArena[SplatStructInstanceData](capHint),
		attrs:        NewArena[AttrData](capHint),
		indices:      NewArena[IndexData](capHint),
		arrayLits:    NewArena[ArrayLitData](capHint),
		constArrays:  NewArena[ConstantArrayData](capHint),
		ternaries:    NewArena[TernaryData](capHint),
		colonRefs:    NewArena[ColonRefData](capHint),
		lets:         NewArena[LetData](capHint),
		matches:      NewArena[MatchData](capHint),
		invocations:  NewArena[InvocationData](capHint),
		nameRefs:     NewArena[NameRefData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the expression header for id.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.arena.Get(uint32(id))
}

func (e *Exprs) NewNumber(span source.Span, text string) ExprID {
	p := e.numbers.Allocate(NumberData{Text: text})
	return e.new(ExprNumber, span, PayloadID(p))
}

func (e *Exprs) Number(id ExprID) (*NumberData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprNumber {
		return nil, false
	}
	return e.numbers.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewUnop(span source.Span, op UnopKind, operand ExprID) ExprID {
	p := e.unops.Allocate(UnopData{Op: op, Operand: operand})
	return e.new(ExprUnop, span, PayloadID(p))
}

func (e *Exprs) Unop(id ExprID) (*UnopData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprUnop {
		return nil, false
	}
	return e.unops.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewBinop(span source.Span, op BinopKind, lhs, rhs ExprID) ExprID {
	p := e.binops.Allocate(BinopData{Op: op, Lhs: lhs, Rhs: rhs})
	return e.new(ExprBinop, span, PayloadID(p))
}

func (e *Exprs) Binop(id ExprID) (*BinopData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprBinop {
		return nil, false
	}
	return e.binops.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewConcat(span source.Span, lhs, rhs ExprID) ExprID {
	p := e.concats.Allocate(ConcatData{Lhs: lhs, Rhs: rhs})
	return e.new(ExprConcat, span, PayloadID(p))
}

func (e *Exprs) Concat(id ExprID) (*ConcatData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprConcat {
		return nil, false
	}
	return e.concats.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewCast(span source.Span, operand ExprID, target TypeRefID) ExprID {
	p := e.casts.Allocate(CastData{Operand: operand, Target: target})
	return e.new(ExprCast, span, PayloadID(p))
}

func (e *Exprs) Cast(id ExprID) (*CastData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprCast {
		return nil, false
	}
	return e.casts.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewXlsTuple(span source.Span, members []ExprID) ExprID {
	p := e.xlsTuples.Allocate(XlsTupleData{Members: append([]ExprID(nil), members...)})
	return e.new(ExprXlsTuple, span, PayloadID(p))
}

func (e *Exprs) XlsTuple(id ExprID) (*XlsTupleData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprXlsTuple {
		return nil, false
	}
	return e.xlsTuples.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewStructInstance(span source.Span, structName string, fields []StructFieldInit) ExprID {
	p := e.structs.Allocate(StructInstanceData{StructName: structName, Fields: append([]StructFieldInit(nil), fields...)})
	return e.new(ExprStructInstance, span, PayloadID(p))
}

func (e *Exprs) StructInstance(id ExprID) (*StructInstanceData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprStructInstance {
		return nil, false
	}
	return e.structs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewSplatStructInstance(span source.Span, base ExprID, structName string, updates []StructFieldInit) ExprID {
	p := e.splatStructs.Allocate(SplatStructInstanceData{Base: base, StructName: structName, Updates: append([]StructFieldInit(nil), updates...)})
	return e.new(ExprSplatStructInstance, span, PayloadID(p))
}

func (e *Exprs) SplatStructInstance(id ExprID) (*SplatStructInstanceData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprSplatStructInstance {
		return nil, false
	}
	return e.splatStructs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewAttr(span source.Span, lhs ExprID, field string) ExprID {
	p := e.attrs.Allocate(AttrData{Lhs: lhs, Field: field})
	return e.new(ExprAttr, span, PayloadID(p))
}

func (e *Exprs) Attr(id ExprID) (*AttrData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprAttr {
		return nil, false
	}
	return e.attrs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewIndex(span source.Span, data IndexData) ExprID {
	p := e.indices.Allocate(data)
	return e.new(ExprIndex, span, PayloadID(p))
}

func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprIndex {
		return nil, false
	}
	return e.indices.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewArrayLit(span source.Span, elements []ExprID, ellipsis bool) ExprID {
	p := e.arrayLits.Allocate(ArrayLitData{Elements: append([]ExprID(nil), elements...), Ellipsis: ellipsis})
	return e.new(ExprArrayLit, span, PayloadID(p))
}

func (e *Exprs) ArrayLit(id ExprID) (*ArrayLitData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprArrayLit {
		return nil, false
	}
	return e.arrayLits.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewConstantArray(span source.Span, elements []ExprID, ellipsis bool) ExprID {
	p := e.constArrays.Allocate(ConstantArrayData{Elements: append([]ExprID(nil), elements...), Ellipsis: ellipsis})
	return e.new(ExprConstantArray, span, PayloadID(p))
}

func (e *Exprs) ConstantArray(id ExprID) (*ConstantArrayData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprConstantArray {
		return nil, false
	}
	return e.constArrays.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewTernary(span source.Span, test, consequent, alternate ExprID) ExprID {
	p := e.ternaries.Allocate(TernaryData{Test: test, Consequent: consequent, Alternate: alternate})
	return e.new(ExprTernary, span, PayloadID(p))
}

func (e *Exprs) Ternary(id ExprID) (*TernaryData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprTernary {
		return nil, false
	}
	return e.ternaries.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewColonRef(span source.Span, subject, member string) ExprID {
	p := e.colonRefs.Allocate(ColonRefData{Subject: subject, Member: member})
	return e.new(ExprColonRef, span, PayloadID(p))
}

func (e *Exprs) ColonRef(id ExprID) (*ColonRefData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprColonRef {
		return nil, false
	}
	return e.colonRefs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewLet(span source.Span, data LetData) ExprID {
	p := e.lets.Allocate(data)
	return e.new(ExprLet, span, PayloadID(p))
}

func (e *Exprs) Let(id ExprID) (*LetData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprLet {
		return nil, false
	}
	return e.lets.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewMatch(span source.Span, data MatchData) ExprID {
	p := e.matches.Allocate(data)
	return e.new(ExprMatch, span, PayloadID(p))
}

func (e *Exprs) Match(id ExprID) (*MatchData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprMatch {
		return nil, false
	}
	return e.matches.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewInvocation(span source.Span, data InvocationData) ExprID {
	p := e.invocations.Allocate(data)
	return e.new(ExprInvocation, span, PayloadID(p))
}

func (e *Exprs) Invocation(id ExprID) (*InvocationData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprInvocation {
		return nil, false
	}
	return e.invocations.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewNameRef(span source.Span, name string, target NameDefID) ExprID {
	p := e.nameRefs.Allocate(NameRefData{Name: name, Target: target})
	return e.new(ExprNameRef, span, PayloadID(p))
}

func (e *Exprs) NameRef(id ExprID) (*NameRefData, bool) {
	x := e.Get(id)
	if x == nil || x.Kind != ExprNameRef {
		return nil, false
	}
	return e.nameRefs.Get(uint32(x.Payload)), true
}

// Patterns owns the match-pattern arena.
type Patterns struct {
	arena *Arena[Pattern]
}

func NewPatterns(capHint uint) *Patterns {
	return &Patterns{arena: NewArena[Pattern](capHint)}
}

func (p *Patterns) NewWildcard() PatternID {
	return PatternID(p.arena.Allocate(Pattern{Kind: PatternWildcard}))
}

func (p *Patterns) NewNumber(literal ExprID) PatternID {
	return PatternID(p.arena.Allocate(Pattern{Kind: PatternNumber, Literal: literal}))
}

func (p *Patterns) NewColonRef(literal ExprID) PatternID {
	return PatternID(p.arena.Allocate(Pattern{Kind: PatternColonRef, Literal: literal}))
}

func (p *Patterns) NewNameRef(target NameDefID) PatternID {
	return PatternID(p.arena.Allocate(Pattern{Kind: PatternNameRef, Ref: target}))
}

func (p *Patterns) NewNameDef(def NameDefID) PatternID {
	return PatternID(p.arena.Allocate(Pattern{Kind: PatternNameDef, Def: def}))
}

func (p *Patterns) NewTuple(children []PatternID) PatternID {
	return PatternID(p.arena.Allocate(Pattern{Kind: PatternTuple, Children: append([]PatternID(nil), children...)}))
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.arena.Get(uint32(id))
}
