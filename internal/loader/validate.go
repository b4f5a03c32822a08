package loader

import (
	"fmt"

	"tpgen/internal/backend/cgen"
	"tpgen/internal/diag"
	"tpgen/internal/schema"
)

// maxEventNameLen bounds "<provider>:<event>"; LTTng-UST stores event names
// in a 256 byte buffer including the terminating NUL.
const maxEventNameLen = 255

func providerPath(pi int) string { return fmt.Sprintf("provider[%d]", pi) }

func classPath(pi, ci int) string { return fmt.Sprintf("provider[%d].class[%d]", pi, ci) }

func fieldPath(pi, ci, fi int) string {
	return fmt.Sprintf("provider[%d].class[%d].field[%d]", pi, ci, fi)
}

func instancePath(pi, ci, ii int) string {
	return fmt.Sprintf("provider[%d].class[%d].instance[%d]", pi, ci, ii)
}

// Validate checks what the generators take for granted: every name is a C
// identifier, generated wrapper names are unique, field names are unique per
// class, and each provider:event pair names one event. It returns true when
// no error was reported.
func Validate(providers []schema.Provider, r diag.Reporter) bool {
	ok := true
	fail := func(code diag.Code, path, msg string) *diag.ReportBuilder {
		ok = false
		return diag.ReportError(r, code, diag.Location{Path: path}, msg)
	}

	for pi := range providers {
		p := &providers[pi]
		if !isIdent(p.Name) {
			fail(diag.SchBadIdentifier, providerPath(pi), fmt.Sprintf("provider name %q is not a C identifier", p.Name)).Emit()
		}
		if len(p.Classes) == 0 {
			diag.ReportWarning(r, diag.SchEmptyProvider, diag.Location{Path: providerPath(pi)},
				fmt.Sprintf("provider %q declares no event classes", p.Name)).Emit()
		}
		for ci := range p.Classes {
			c := &p.Classes[ci]
			if !isIdent(c.Name) {
				fail(diag.SchBadIdentifier, classPath(pi, ci), fmt.Sprintf("class name %q is not a C identifier", c.Name)).Emit()
			}
			if len(c.Instances) == 0 {
				diag.ReportWarning(r, diag.SchEmptyClass, diag.Location{Path: classPath(pi, ci)},
					fmt.Sprintf("class %q declares no instances and generates nothing", c.Name)).Emit()
			}
			seenFields := make(map[string]int, len(c.Fields))
			for fi, f := range c.Fields {
				if !isIdent(f.Name) {
					fail(diag.SchBadIdentifier, fieldPath(pi, ci, fi), fmt.Sprintf("field name %q is not a C identifier", f.Name)).Emit()
					continue
				}
				if first, dup := seenFields[f.Name]; dup {
					fail(diag.SchDuplicateField, fieldPath(pi, ci, fi), fmt.Sprintf("field %q repeated in class %q", f.Name, c.Name)).
						WithNote(diag.Location{Path: fieldPath(pi, ci, first)}, "first declared here").
						Emit()
					continue
				}
				seenFields[f.Name] = fi
			}
			for ii, inst := range c.Instances {
				if !isIdent(inst.Name) {
					fail(diag.SchBadIdentifier, instancePath(pi, ci, ii), fmt.Sprintf("instance name %q is not a C identifier", inst.Name)).Emit()
				}
			}
		}
	}

	funcs := make(map[string]string)
	events := make(map[string]string)
	schema.Walk(providers, func(in schema.Instance) {
		path := instancePath(in.ProviderIndex, in.ClassIndex, in.InstanceIndex)

		name := cgen.FuncName(in.Provider, in.Class, in.Instance)
		if first, dup := funcs[name]; dup {
			fail(diag.SchDuplicateFunc, path, fmt.Sprintf("generated function %s is already produced by another instance", name)).
				WithNote(diag.Location{Path: first}, "first generated here").
				Emit()
		} else {
			funcs[name] = path
		}

		event := in.Provider.Name + ":" + in.Instance.Name
		if first, dup := events[event]; dup {
			fail(diag.SchDuplicateEvent, path, fmt.Sprintf("event %s is defined by more than one instance", event)).
				WithNote(diag.Location{Path: first}, "first defined here").
				Emit()
		} else {
			events[event] = path
		}
		if len(event) > maxEventNameLen {
			fail(diag.SchNameTooLong, path, fmt.Sprintf("event %s is %d bytes long, the limit is %d", event, len(event), maxEventNameLen)).Emit()
		}
	})
	return ok
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
