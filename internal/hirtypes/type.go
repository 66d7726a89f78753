// Package hirtypes is the type resolver the lowering engine consults
// read-only (spec §4.B): concrete bit-precise types, parametric dimension
// expressions, and the surface-to-IR type table a driver builds once per
// module before lowering any function.
package hirtypes

import "hdlower/internal/ast"

// ConcreteKind enumerates the ground type shapes a dimension-resolved
// ConcreteType can take.
type ConcreteKind uint8

const (
	KindBits ConcreteKind = iota
	KindEnum
	KindArray
	KindTuple
)

// ConcreteType is a fully dimension-resolved surface type: every Array
// size and Bits width is a ground integer, never a parametric expression.
// TypeToIr recurses over this shape (spec.md §4.B).
type ConcreteType struct {
	Kind ConcreteKind

	// Bits / Enum
	Width  uint32
	Signed bool

	// Enum
	EnumName string

	// Array
	Elem *ConcreteType
	Size uint32

	// Tuple
	Elems []ConcreteType

	// StructName is set when a Tuple is the lowered shape of a struct
	// instance, so Attr lowering can recover field order and naming
	// without threading a separate struct-identity channel through
	// every tuple-shaped value (spec.md §4.E).
	StructName string
}

func Bits(width uint32, signed bool) ConcreteType {
	return ConcreteType{Kind: KindBits, Width: width, Signed: signed}
}

func Enum(name string, width uint32, signed bool) ConcreteType {
	return ConcreteType{Kind: KindEnum, EnumName: name, Width: width, Signed: signed}
}

func Array(elem ConcreteType, size uint32) ConcreteType {
	return ConcreteType{Kind: KindArray, Elem: &elem, Size: size}
}

func Tuple(elems []ConcreteType) ConcreteType {
	return ConcreteType{Kind: KindTuple, Elems: elems}
}

func StructTuple(name string, elems []ConcreteType) ConcreteType {
	return ConcreteType{Kind: KindTuple, Elems: elems, StructName: name}
}

// BitCount returns the flattened bit width of a Bits or Enum type. Callers
// resolving Array/Tuple shapes for a Number literal's encoding must have
// already dispatched to a leaf Bits/Enum type; BitCount panics otherwise,
// mirroring a caller bug rather than a data error.
func (c ConcreteType) BitCount() uint32 {
	switch c.Kind {
	case KindBits, KindEnum:
		return c.Width
	default:
		panic("hirtypes: BitCount on non-bits ConcreteType")
	}
}

// FlatWidth returns the total flattened bit width of any ConcreteType
// shape, recursing through Array/Tuple the same way
// InterpValueToValue/flattenConstMembers pack a constant's bits.
func (c ConcreteType) FlatWidth() uint32 {
	switch c.Kind {
	case KindBits, KindEnum:
		return c.Width
	case KindArray:
		return c.Elem.FlatWidth() * c.Size
	case KindTuple:
		var total uint32
		for _, elem := range c.Elems {
			total += elem.FlatWidth()
		}
		return total
	default:
		return 0
	}
}

// DimKind enumerates parametric dimension-expression shapes. A dimension
// is either already ground (DimConst), a free parametric identifier
// (DimParam), or an arithmetic combination of the two (spec.md §4.B:
// "ResolveDim...iteratively evaluates parametric-expression dimensions").
type DimKind uint8

const (
	DimConst DimKind = iota
	DimParam
	DimAdd
	DimSub
	DimMul
)

// DimExpr is an unresolved dimension: a module-level constant, a struct
// field width, or an array size may all be expressed parametrically
// (e.g. `N + 1` where `N` is a function's free parametric key).
type DimExpr struct {
	Kind  DimKind
	Value uint32   // DimConst
	Name  string   // DimParam
	Lhs   *DimExpr // DimAdd/DimSub/DimMul
	Rhs   *DimExpr
}

func ConstDim(v uint32) DimExpr { return DimExpr{Kind: DimConst, Value: v} }
func ParamDim(name string) DimExpr { return DimExpr{Kind: DimParam, Name: name} }

func AddDim(lhs, rhs DimExpr) DimExpr { return DimExpr{Kind: DimAdd, Lhs: &lhs, Rhs: &rhs} }
func SubDim(lhs, rhs DimExpr) DimExpr { return DimExpr{Kind: DimSub, Lhs: &lhs, Rhs: &rhs} }
func MulDim(lhs, rhs DimExpr) DimExpr { return DimExpr{Kind: DimMul, Lhs: &lhs, Rhs: &rhs} }

// SurfaceKind mirrors ConcreteKind but dimensions may still be free.
type SurfaceKind uint8

const (
	SurfaceBits SurfaceKind = iota
	SurfaceEnum
	SurfaceArray
	SurfaceTuple
)

// SurfaceType is an unresolved type annotation: the shape the type
// checker assigned an AST node, with dimensions left as DimExpr until
// ResolveType walks them against a specific function's symbolic
// bindings.
type SurfaceType struct {
	Kind SurfaceKind

	WidthDim DimExpr
	Signed   bool
	EnumName string

	Elem    *SurfaceType
	SizeDim DimExpr

	Elems      []SurfaceType
	StructName string // set when the Tuple is a struct instance's shape
}

func SurfaceBitsOf(width DimExpr, signed bool) SurfaceType {
	return SurfaceType{Kind: SurfaceBits, WidthDim: width, Signed: signed}
}

func SurfaceEnumOf(name string, width DimExpr, signed bool) SurfaceType {
	return SurfaceType{Kind: SurfaceEnum, EnumName: name, WidthDim: width, Signed: signed}
}

func SurfaceArrayOf(elem SurfaceType, size DimExpr) SurfaceType {
	return SurfaceType{Kind: SurfaceArray, Elem: &elem, SizeDim: size}
}

func SurfaceTupleOf(elems []SurfaceType) SurfaceType {
	return SurfaceType{Kind: SurfaceTuple, Elems: elems}
}

func SurfaceStructTupleOf(name string, elems []SurfaceType) SurfaceType {
	return SurfaceType{Kind: SurfaceTuple, Elems: elems, StructName: name}
}

// TypeInfo is the fully-populated type-information table supplied to the
// lowering engine read-only (spec.md §1: "together with a fully-populated
// type-information table"). A driver builds one TypeInfo per module
// before lowering any function in it.
type TypeInfo struct {
	// Types maps every type-bearing AST node (expressions, name-defs)
	// to its surface type, as assigned by the (external) type checker.
	Types map[ast.NodeID]SurfaceType

	// Annotations maps a syntactic TypeRefID (cast targets, param/result
	// type annotations) to its surface type.
	Annotations map[ast.TypeRefID]SurfaceType

	Structs  map[string]*ast.StructDef
	Enums    map[string]*ast.EnumDef
	TypeDefs map[string]*ast.TypeDef

	// Imports maps an import alias to the already-loaded module it
	// names, consulted by ColonRef lowering (spec.md §4.E).
	Imports map[string]*ast.Module
}

func NewTypeInfo() *TypeInfo {
	return &TypeInfo{
		Types:       make(map[ast.NodeID]SurfaceType),
		Annotations: make(map[ast.TypeRefID]SurfaceType),
		Structs:     make(map[string]*ast.StructDef),
		Enums:       make(map[string]*ast.EnumDef),
		TypeDefs:    make(map[string]*ast.TypeDef),
		Imports:     make(map[string]*ast.Module),
	}
}

// EnumDefByName resolves an enum name through a possible chain of
// typedef aliases, as ColonRef lowering requires (spec.md §4.E:
// "denotes an EnumDef (directly or via typedef chain)").
func (ti *TypeInfo) EnumDefByName(name string) *ast.EnumDef {
	seen := make(map[string]bool)
	for {
		if e, ok := ti.Enums[name]; ok {
			return e
		}
		if seen[name] {
			return nil
		}
		seen[name] = true
		td, ok := ti.TypeDefs[name]
		if !ok {
			return nil
		}
		// A typedef's Target is a TypeRefID; its surface annotation
		// names the next hop only when it is itself an enum alias.
		ann, ok := ti.Annotations[td.Target]
		if !ok || ann.Kind != SurfaceEnum {
			return nil
		}
		name = ann.EnumName
	}
}
