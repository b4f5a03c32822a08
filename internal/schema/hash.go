package schema

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
)

// Digest - фиксированный 256 битный хеш
type Digest [32]byte

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Combine строит общий хеш: H( first || d1 || d2 ... ).
// Порядок должен быть детерминированным.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes everything that influences generated output: names,
// field order, and field types. Each provider is hashed on its own and the
// results are combined in schema order.
func Fingerprint(providers []Provider) Digest {
	var header Digest
	binary.LittleEndian.PutUint64(header[:8], uint64(len(providers)))
	parts := make([]Digest, 0, len(providers))
	for i := range providers {
		parts = append(parts, providerDigest(&providers[i]))
	}
	return Combine(header, parts...)
}

func providerDigest(p *Provider) Digest {
	h := sha256.New()
	writeString(h, p.Name)
	writeLen(h, len(p.Classes))
	for ci := range p.Classes {
		c := &p.Classes[ci]
		writeString(h, c.Name)
		writeLen(h, len(c.Fields))
		for _, f := range c.Fields {
			writeString(h, f.Name)
			writeString(h, f.Type.String())
			if f.Type.NoWrite {
				_, _ = h.Write([]byte{1})
			} else {
				_, _ = h.Write([]byte{0})
			}
		}
		writeLen(h, len(c.Instances))
		for _, inst := range c.Instances {
			writeString(h, inst.Name)
		}
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// writeString length-prefixes s so that ("ab","c") and ("a","bc") differ.
func writeString(h hash.Hash, s string) {
	writeLen(h, len(s))
	_, _ = h.Write([]byte(s))
}

func writeLen(h hash.Hash, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, _ = h.Write(buf[:])
}
