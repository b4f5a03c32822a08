// Package ctf describes the closed set of CTF field types a tracepoint field
// may carry and maps each of them to the C type used for a wrapper parameter.
package ctf

import (
	"fmt"
	"strconv"
)

// Kind enumerates the supported field kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindFloat
	KindString
	KindArray
	KindArrayText
	KindSequence
	KindSequenceText
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindArrayText:
		return "array_text"
	case KindSequence:
		return "sequence"
	case KindSequenceText:
		return "sequence_text"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for a field type.
type Type struct {
	Kind    Kind
	Width   Width  // scalar width; element width for arrays/sequences; underlying width for enums
	Signed  bool   // for integer-backed kinds
	Hex     bool   // display in base 16
	Network bool   // network byte order on the wire
	Count   uint32 // element count of fixed arrays
	NoWrite bool   // recorded in the event description but not serialized
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInteger, Width: width, Signed: true}
}

// MakeUint describes an unsigned integer of the given width.
func MakeUint(width Width) Type {
	return Type{Kind: KindInteger, Width: width}
}

// MakeFloat describes a float (Width32) or double (Width64).
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeString describes a NUL-terminated string.
func MakeString() Type {
	return Type{Kind: KindString}
}

// MakeArray describes a fixed-length array of integer elements.
func MakeArray(elem Type, count uint32) Type {
	return Type{Kind: KindArray, Width: elem.Width, Signed: elem.Signed, Hex: elem.Hex, Count: count}
}

// MakeArrayText describes a fixed-length character array.
func MakeArrayText(count uint32) Type {
	return Type{Kind: KindArrayText, Width: Width8, Count: count}
}

// MakeSequence describes a variable-length run of integer elements.
func MakeSequence(elem Type) Type {
	return Type{Kind: KindSequence, Width: elem.Width, Signed: elem.Signed, Hex: elem.Hex}
}

// MakeSequenceText describes a variable-length run of characters.
func MakeSequenceText() Type {
	return Type{Kind: KindSequenceText, Width: Width8}
}

// MakeEnum describes an enumeration stored as the given integer type.
func MakeEnum(underlying Type) Type {
	return Type{Kind: KindEnum, Width: underlying.Width, Signed: underlying.Signed}
}

// IsSequence reports whether values of t need a companion length argument.
func (t Type) IsSequence() bool {
	return t.Kind == KindSequence || t.Kind == KindSequenceText
}

// CType returns the C spelling of a parameter carrying a value of type t.
// Every valid descriptor has a spelling; anything else is a programming error
// and panics.
func (t Type) CType() string {
	switch t.Kind {
	case KindInteger, KindEnum:
		return intCType(t)
	case KindFloat:
		switch t.Width {
		case Width32:
			return "float"
		case Width64:
			return "double"
		}
	case KindString, KindArrayText, KindSequenceText:
		return "const char*"
	case KindArray, KindSequence:
		return "const " + intCType(t) + "*"
	}
	panic(fmt.Sprintf("ctf: no C type for %s", t.describe()))
}

func intCType(t Type) string {
	switch t.Width {
	case Width8, Width16, Width32, Width64:
	default:
		panic(fmt.Sprintf("ctf: no C type for %s", t.describe()))
	}
	prefix := "uint"
	if t.Signed {
		prefix = "int"
	}
	return prefix + strconv.Itoa(int(t.Width)) + "_t"
}

// describe is used in panics, where String may itself be unable to render t.
func (t Type) describe() string {
	return fmt.Sprintf("%s(width=%d signed=%t count=%d)", t.Kind, t.Width, t.Signed, t.Count)
}
