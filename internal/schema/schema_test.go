package schema

import (
	"strings"
	"testing"

	"tpgen/internal/ctf"
)

func sample() []Provider {
	return []Provider{
		{
			Name: "app",
			Classes: []EventClass{
				{
					Name: "net",
					Fields: []Field{
						{Name: "addr", Type: ctf.MakeInt(ctf.Width32)},
						{Name: "payload", Type: ctf.MakeSequence(ctf.MakeUint(ctf.Width8))},
					},
					Instances: []EventInstance{{Name: "send"}, {Name: "recv"}},
				},
				{Name: "idle"},
			},
		},
		{
			Name: "db",
			Classes: []EventClass{
				{Name: "query", Instances: []EventInstance{{Name: "start"}}},
			},
		},
	}
}

func TestWalkOrder(t *testing.T) {
	var got []string
	Walk(sample(), func(in Instance) {
		got = append(got, in.Provider.Name+"/"+in.Class.Name+"/"+in.Instance.Name)
	})
	want := "app/net/send app/net/recv db/query/start"
	if strings.Join(got, " ") != want {
		t.Fatalf("walk order: want %q, got %q", want, strings.Join(got, " "))
	}
	if n := CountInstances(sample()); n != 3 {
		t.Fatalf("expected 3 instances, got %d", n)
	}
}

func TestWalkIndices(t *testing.T) {
	var last Instance
	Walk(sample(), func(in Instance) { last = in })
	if last.ProviderIndex != 1 || last.ClassIndex != 0 || last.InstanceIndex != 0 {
		t.Fatalf("unexpected indices %d/%d/%d", last.ProviderIndex, last.ClassIndex, last.InstanceIndex)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(sample())
	b := Fingerprint(sample())
	if a != b {
		t.Fatalf("fingerprint is not deterministic")
	}
	if a.IsZero() {
		t.Fatalf("fingerprint must not be zero")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(sample())
	mutations := map[string]func([]Provider){
		"provider name":  func(p []Provider) { p[0].Name = "ap" },
		"field order":    func(p []Provider) { f := p[0].Classes[0].Fields; f[0], f[1] = f[1], f[0] },
		"field type":     func(p []Provider) { p[0].Classes[0].Fields[0].Type = ctf.MakeUint(ctf.Width32) },
		"nowrite":        func(p []Provider) { p[0].Classes[0].Fields[0].Type.NoWrite = true },
		"instance name":  func(p []Provider) { p[1].Classes[0].Instances[0].Name = "stop" },
		"name boundary":  func(p []Provider) { p[0].Name = "appn"; p[0].Classes[0].Name = "et" },
		"extra instance": func(p []Provider) { p[0].Classes[1].Instances = []EventInstance{{Name: "tick"}} },
	}
	for name, mutate := range mutations {
		providers := sample()
		mutate(providers)
		if Fingerprint(providers) == base {
			t.Fatalf("%s: fingerprint did not change", name)
		}
	}
}
