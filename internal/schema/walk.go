package schema

// Instance identifies one (provider, class, instance) triple by position.
type Instance struct {
	Provider *Provider
	Class    *EventClass
	Instance *EventInstance

	ProviderIndex int
	ClassIndex    int
	InstanceIndex int
}

// Walk calls fn for every instance of every class of every provider in
// schema order. The pointers refer into providers and must not be retained
// past the schema snapshot.
func Walk(providers []Provider, fn func(Instance)) {
	for pi := range providers {
		p := &providers[pi]
		for ci := range p.Classes {
			c := &p.Classes[ci]
			for ii := range c.Instances {
				fn(Instance{
					Provider:      p,
					Class:         c,
					Instance:      &c.Instances[ii],
					ProviderIndex: pi,
					ClassIndex:    ci,
					InstanceIndex: ii,
				})
			}
		}
	}
}

// CountInstances returns how many triples Walk would visit.
func CountInstances(providers []Provider) int {
	n := 0
	for pi := range providers {
		for ci := range providers[pi].Classes {
			n += len(providers[pi].Classes[ci].Instances)
		}
	}
	return n
}
