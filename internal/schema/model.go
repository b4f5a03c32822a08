// Package schema holds the in-memory provider model the generators consume
// and the loader that builds it from TOML or YAML files.
package schema

import "tpgen/internal/ctf"

// Provider is a named collection of event classes. Name is used verbatim in
// generated identifiers and as the first argument of the tracing macro.
type Provider struct {
	Name    string
	Classes []EventClass
}

// EventClass is a field layout shared by one or more event instances.
// Field order is significant: it fixes the parameter order of every wrapper
// generated for the class.
type EventClass struct {
	Name      string
	Fields    []Field
	Instances []EventInstance
}

// EventInstance is one concrete emission point of its class.
type EventInstance struct {
	Name string
}

// Field is a named, typed event payload member.
type Field struct {
	Name string
	Type ctf.Type
}
