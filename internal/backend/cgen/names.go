package cgen

import "tpgen/internal/schema"

// funcSuffix marks every generated wrapper.
const funcSuffix = "_tp"

// FuncName returns the exported wrapper name for one instance:
// <provider>_<class>_<instance>_tp. Header, implementation and allowlist all
// derive names through this function and nothing else.
func FuncName(p *schema.Provider, c *schema.EventClass, i *schema.EventInstance) string {
	return p.Name + "_" + c.Name + "_" + i.Name + funcSuffix
}

// FunctionNames lists the wrapper names of every instance in schema order.
func FunctionNames(providers []schema.Provider) []string {
	names := make([]string, 0, schema.CountInstances(providers))
	schema.Walk(providers, func(in schema.Instance) {
		names = append(names, FuncName(in.Provider, in.Class, in.Instance))
	})
	return names
}
