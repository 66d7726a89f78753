package lower

import (
	"math/big"
	"strings"

	"hdlower/internal/ast"
	"hdlower/internal/diagx"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/source"
)

// encodeLiteralText parses a Number literal's decimal- or 0x-prefixed
// text into a big.Int (spec.md §4.E: "Number. Resolve type, extract
// bit-count, encode bits, DefConst"). Width and signedness come from
// type resolution, never from the text itself.
func encodeLiteralText(text string) (*big.Int, error) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		base = 16
		clean = clean[2:]
	} else if strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B") {
		base = 2
		clean = clean[2:]
	}
	v, ok := new(big.Int).SetString(clean, base)
	if !ok {
		return nil, diagx.InvalidArgumentf(noSpan, "malformed numeric literal %q", text)
	}
	return v, nil
}

// lowerNumber implements the Number handler: resolve the literal's
// target type, encode its text to bits, and DefConst it.
func (e *Engine) lowerNumber(node ast.ExprID, text string, span source.Span) (irb.Handle, error) {
	irType, _, err := e.resolveIrType(node.Node())
	if err != nil {
		return irb.Handle{}, err
	}
	value, err := encodeLiteralText(text)
	if err != nil {
		return irb.Handle{}, err
	}
	h := e.builder.Literal(value, irType, e.span(span))
	e.env.DefConst(node.Node(), value, irType, h)
	return h, nil
}

// InterpValueToValue converts an external interpreter-value
// representation to a flat IR value: bits kinds (sbits/ubits/enum)
// become raw bits; arrays/tuples recurse (spec.md §4.C). Conversion of
// an unsupported tag fails InvalidArgument.
func InterpValueToValue(iv InterpValue) (*big.Int, error) {
	switch iv.Tag {
	case TagUBits, TagSBits, TagEnum:
		return iv.Bits, nil
	case TagArray, TagTuple:
		// Flatten elements MSB-first into one bit-packed integer, the
		// same convention the Cast handler's array<->bits conversion
		// uses (lower_expr_ops.go).
		acc := new(big.Int)
		for _, elem := range iv.Elements {
			bits, err := InterpValueToValue(elem)
			if err != nil {
				return nil, err
			}
			acc.Lsh(acc, uint(elem.Width))
			acc.Or(acc, bits)
		}
		return acc, nil
	default:
		return nil, diagx.InvalidArgumentf(noSpan, "unsupported interpreter-value tag %d", iv.Tag)
	}
}

// ValueToInterpValue is InterpValueToValue's inverse: it wraps a flat
// bit-packed value back into a tagged InterpValue under the target
// ConcreteType's shape. For KindArray/KindTuple it slices v MSB-first by
// each element's FlatWidth and recurses, mirroring flattenConstMembers'
// (lower_expr_place.go) packing order so that
// InterpValueToValue(ValueToInterpValue(v, ct)) is identity.
func ValueToInterpValue(v *big.Int, ct hirtypes.ConcreteType) (InterpValue, error) {
	switch ct.Kind {
	case hirtypes.KindBits:
		tag := TagUBits
		if ct.Signed {
			tag = TagSBits
		}
		return InterpValue{Tag: tag, Bits: v, Width: ct.Width}, nil
	case hirtypes.KindEnum:
		return InterpValue{Tag: TagEnum, Bits: v, Width: ct.Width}, nil
	case hirtypes.KindArray:
		elemTypes := make([]hirtypes.ConcreteType, ct.Size)
		for i := range elemTypes {
			elemTypes[i] = *ct.Elem
		}
		return unflattenElements(v, elemTypes, ct.FlatWidth(), TagArray)
	case hirtypes.KindTuple:
		return unflattenElements(v, ct.Elems, ct.FlatWidth(), TagTuple)
	default:
		return InterpValue{}, diagx.InvalidArgumentf(noSpan, "ValueToInterpValue: unsupported type kind %d", ct.Kind)
	}
}

// unflattenElements peels elemTypes off v from the most-significant end
// (the reverse of flattenConstMembers' accumulate-then-shift packing) and
// recurses ValueToInterpValue on each slice.
func unflattenElements(v *big.Int, elemTypes []hirtypes.ConcreteType, totalWidth uint32, tag InterpValueTag) (InterpValue, error) {
	elements := make([]InterpValue, len(elemTypes))
	remaining := totalWidth
	for i, et := range elemTypes {
		w := et.FlatWidth()
		remaining -= w
		mask := new(big.Int).Lsh(big.NewInt(1), uint(w))
		mask.Sub(mask, big.NewInt(1))
		slice := new(big.Int).Rsh(v, uint(remaining))
		slice.And(slice, mask)
		elem, err := ValueToInterpValue(slice, et)
		if err != nil {
			return InterpValue{}, err
		}
		elements[i] = elem
	}
	return InterpValue{Tag: tag, Width: totalWidth, Elements: elements}, nil
}

// InterpValueTag enumerates the interpreter-value shapes the engine can
// round-trip through InterpValueToValue / ValueToInterpValue.
type InterpValueTag uint8

const (
	TagUBits InterpValueTag = iota
	TagSBits
	TagEnum
	TagArray
	TagTuple
)

// InterpValue is the external interpreter-value representation the
// engine converts to and from IR values (spec.md §4.C, §6).
type InterpValue struct {
	Tag      InterpValueTag
	Bits     *big.Int // UBits/SBits/Enum
	Width    uint32
	Elements []InterpValue // Array/Tuple
}

func bigFromInt64(v int64) *big.Int {
	return big.NewInt(v)
}
