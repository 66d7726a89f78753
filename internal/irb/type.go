// Package irb is the narrow IR package / function-builder API the
// lowering engine consumes (spec.md §6). It owns node handles, IR types,
// and op construction; it never inspects the surface AST.
package irb

import "fmt"

// TypeKind enumerates the three IR type shapes (spec.md §9: "Type {
// Bits(n), Array(elem, n), Tuple(Vec<Type>) }" — Enum is not a distinct
// IR-level shape, it lowers to Bits per §4.B).
type TypeKind uint8

const (
	TypeBits TypeKind = iota
	TypeArray
	TypeTuple
)

// Type is an IR-level type: every dimension is a ground integer, there
// is no parametric shape left by the time a ConcreteType reaches here.
type Type struct {
	Kind TypeKind

	Width uint32 // TypeBits

	Elem *Type // TypeArray
	Size uint32

	Elems []Type // TypeTuple
}

func BitsType(width uint32) Type           { return Type{Kind: TypeBits, Width: width} }
func ArrayType(elem Type, size uint32) Type { return Type{Kind: TypeArray, Elem: &elem, Size: size} }
func TupleType(elems []Type) Type          { return Type{Kind: TypeTuple, Elems: elems} }

func (t Type) String() string {
	switch t.Kind {
	case TypeBits:
		return fmt.Sprintf("bits[%d]", t.Width)
	case TypeArray:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Size)
	case TypeTuple:
		return fmt.Sprintf("(%v)", t.Elems)
	default:
		return "<invalid type>"
	}
}

// BitCount returns the flattened bit width of a Bits type only; callers
// must already have dispatched on Kind.
func (t Type) BitCount() uint32 {
	if t.Kind != TypeBits {
		panic("irb: BitCount on non-bits Type")
	}
	return t.Width
}
