package ctf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownTag is returned by Parse for text that names no field type.
var ErrUnknownTag = errors.New("unknown type tag")

// Parse converts a type tag such as "u32_hex", "sequence<u8>" or
// "array_text<16>" into a descriptor. The result has NoWrite unset; callers
// record that flag separately.
func Parse(tag string) (Type, error) {
	s := strings.TrimSpace(tag)
	switch s {
	case "string":
		return MakeString(), nil
	case "sequence_text":
		return MakeSequenceText(), nil
	case "f32":
		return MakeFloat(Width32), nil
	case "f64":
		return MakeFloat(Width64), nil
	}

	if name, args, ok := splitGeneric(s); ok {
		switch name {
		case "sequence":
			elem, err := parseElem(tag, args, 1)
			if err != nil {
				return Type{}, err
			}
			return MakeSequence(elem), nil
		case "enum":
			elem, err := parseElem(tag, args, 1)
			if err != nil {
				return Type{}, err
			}
			if elem.Hex || elem.Network {
				return Type{}, fmt.Errorf("%w %q: enum storage must be a plain integer", ErrUnknownTag, tag)
			}
			return MakeEnum(elem), nil
		case "array":
			elem, err := parseElem(tag, args, 2)
			if err != nil {
				return Type{}, err
			}
			count, err := parseCount(tag, args[1])
			if err != nil {
				return Type{}, err
			}
			return MakeArray(elem, count), nil
		case "array_text":
			if len(args) != 1 {
				return Type{}, fmt.Errorf("%w %q: expected array_text<N>", ErrUnknownTag, tag)
			}
			count, err := parseCount(tag, args[0])
			if err != nil {
				return Type{}, err
			}
			return MakeArrayText(count), nil
		}
		return Type{}, fmt.Errorf("%w %q", ErrUnknownTag, tag)
	}

	if t, ok := parseInteger(s); ok {
		return t, nil
	}
	return Type{}, fmt.Errorf("%w %q", ErrUnknownTag, tag)
}

// splitGeneric splits "name<a,b>" into name and trimmed arguments.
func splitGeneric(s string) (name string, args []string, ok bool) {
	open := strings.IndexByte(s, '<')
	if open <= 0 || !strings.HasSuffix(s, ">") {
		return "", nil, false
	}
	name = strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	for _, part := range strings.Split(inner, ",") {
		args = append(args, strings.TrimSpace(part))
	}
	return name, args, true
}

func parseElem(tag string, args []string, want int) (Type, error) {
	if len(args) != want {
		return Type{}, fmt.Errorf("%w %q: expected %d type argument(s), got %d", ErrUnknownTag, tag, want, len(args))
	}
	elem, ok := parseInteger(args[0])
	if !ok {
		return Type{}, fmt.Errorf("%w %q: element type %q is not an integer", ErrUnknownTag, tag, args[0])
	}
	if elem.Network {
		return Type{}, fmt.Errorf("%w %q: element type %q cannot be network ordered", ErrUnknownTag, tag, args[0])
	}
	return elem, nil
}

func parseCount(tag, s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w %q: bad element count %q", ErrUnknownTag, tag, s)
	}
	return uint32(n), nil
}

// parseInteger accepts i8..u64 with optional "_net" and "_hex" suffixes in
// that order.
func parseInteger(s string) (Type, bool) {
	var t Type
	base, hex := strings.CutSuffix(s, "_hex")
	base, network := strings.CutSuffix(base, "_net")
	if len(base) < 2 {
		return Type{}, false
	}
	switch base[0] {
	case 'i':
		t = MakeInt(WidthAny)
	case 'u':
		t = MakeUint(WidthAny)
	default:
		return Type{}, false
	}
	switch base[1:] {
	case "8":
		t.Width = Width8
	case "16":
		t.Width = Width16
	case "32":
		t.Width = Width32
	case "64":
		t.Width = Width64
	default:
		return Type{}, false
	}
	t.Hex = hex
	t.Network = network
	return t, true
}

// String renders the canonical tag, the inverse of Parse.
func (t Type) String() string {
	switch t.Kind {
	case KindInteger:
		return integerTag(t, true)
	case KindFloat:
		return "f" + strconv.Itoa(int(t.Width))
	case KindString:
		return "string"
	case KindArray:
		return fmt.Sprintf("array<%s,%d>", integerTag(t, false), t.Count)
	case KindArrayText:
		return fmt.Sprintf("array_text<%d>", t.Count)
	case KindSequence:
		return "sequence<" + integerTag(t, false) + ">"
	case KindSequenceText:
		return "sequence_text"
	case KindEnum:
		return "enum<" + integerTag(t, false) + ">"
	default:
		return t.Kind.String()
	}
}

func integerTag(t Type, withNetwork bool) string {
	var sb strings.Builder
	if t.Signed {
		sb.WriteByte('i')
	} else {
		sb.WriteByte('u')
	}
	sb.WriteString(strconv.Itoa(int(t.Width)))
	if withNetwork && t.Network {
		sb.WriteString("_net")
	}
	if t.Hex {
		sb.WriteString("_hex")
	}
	return sb.String()
}
