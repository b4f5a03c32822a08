package loader

// Raw document shape shared by the TOML and YAML front ends. Keys mirror the
// array-of-tables layout:
//
//	[[provider]]
//	name = "app"
//	  [[provider.class]]
//	  name = "net"
//	  instances = ["send"]
//	    [[provider.class.field]]
//	    name = "payload"
//	    type = "sequence<u8>"
type rawDocument struct {
	Providers []rawProvider `toml:"provider" yaml:"provider"`
}

type rawProvider struct {
	Name    string     `toml:"name" yaml:"name"`
	Classes []rawClass `toml:"class" yaml:"class"`
}

type rawClass struct {
	Name      string     `toml:"name" yaml:"name"`
	Instances []string   `toml:"instances" yaml:"instances"`
	Fields    []rawField `toml:"field" yaml:"field"`
}

type rawField struct {
	Name    string `toml:"name" yaml:"name"`
	Type    string `toml:"type" yaml:"type"`
	NoWrite bool   `toml:"nowrite" yaml:"nowrite"`
}
