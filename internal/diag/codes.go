package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Schema structure
	SchDuplicateFunc   Code = 3001
	SchBadIdentifier   Code = 3002
	SchDuplicateField  Code = 3003
	SchDuplicateEvent  Code = 3004
	SchEmptyProvider   Code = 3005
	SchEmptyClass      Code = 3006
	SchDecode          Code = 3007
	SchUnsupportedFile Code = 3008
	SchNameTooLong     Code = 3009

	// Field type tags
	TypUnknownTag Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	SchDuplicateFunc:   "Duplicate generated function",
	SchBadIdentifier:   "Name is not a C identifier",
	SchDuplicateField:  "Duplicate field name",
	SchDuplicateEvent:  "Duplicate event name within provider",
	SchEmptyProvider:   "Provider declares no event classes",
	SchEmptyClass:      "Event class declares no instances",
	SchDecode:          "Schema file cannot be decoded",
	SchUnsupportedFile: "Unsupported schema file format",
	SchNameTooLong:     "Event name exceeds the tracer limit",
	TypUnknownTag:      "Unknown field type tag",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCH%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TYP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
