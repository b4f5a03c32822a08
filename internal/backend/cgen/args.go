package cgen

import (
	"strings"

	"tpgen/internal/ctf"
	"tpgen/internal/schema"
)

// Mode selects how RenderArgs prints a parameter.
type Mode uint8

const (
	// Typed renders "<c type> <name>", for declarations and definitions.
	Typed Mode = iota + 1
	// Bare renders "<name>", for call sites.
	Bare
)

// SlotKind tells how many physical parameters a field occupies.
type SlotKind uint8

const (
	// SlotValue is a single value parameter.
	SlotValue SlotKind = iota + 1
	// SlotValueLen is a value parameter followed by its size_t length.
	SlotValueLen
)

// Slot is one logical field expanded for a C parameter list.
type Slot struct {
	Kind  SlotKind
	Field schema.Field
}

// Param is a single physical C parameter.
type Param struct {
	Name  string
	Type  ctf.Type
	IsLen bool
}

// CType returns the parameter's C type spelling.
func (p Param) CType() string {
	if p.IsLen {
		return "size_t"
	}
	return p.Type.CType()
}

// Slots expands fields, in order, into parameter slots. Sequence fields get
// a SlotValueLen slot so their length always travels right behind them.
func Slots(fields []schema.Field) []Slot {
	slots := make([]Slot, 0, len(fields))
	for _, f := range fields {
		kind := SlotValue
		if f.Type.IsSequence() {
			kind = SlotValueLen
		}
		slots = append(slots, Slot{Kind: kind, Field: f})
	}
	return slots
}

// Params returns the physical parameters of the slot.
func (s Slot) Params() []Param {
	value := Param{Name: s.Field.Name + "_arg", Type: s.Field.Type}
	if s.Kind != SlotValueLen {
		return []Param{value}
	}
	return []Param{value, {Name: s.Field.Name + "_len", IsLen: true}}
}

// Params flattens fields into the physical parameter list shared by every
// rendering mode.
func Params(fields []schema.Field) []Param {
	var params []Param
	for _, s := range Slots(fields) {
		params = append(params, s.Params()...)
	}
	return params
}

// RenderArgs renders the comma separated parameter (Typed) or argument (Bare)
// list for fields. An empty field list renders as "".
func RenderArgs(fields []schema.Field, mode Mode) string {
	params := Params(fields)
	parts := make([]string, 0, len(params))
	for _, p := range params {
		switch mode {
		case Typed:
			parts = append(parts, p.CType()+" "+p.Name)
		case Bare:
			parts = append(parts, p.Name)
		default:
			panic("cgen: unknown argument mode")
		}
	}
	return strings.Join(parts, ", ")
}
