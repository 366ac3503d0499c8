package memo

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Fingerprinter lets a query value participate in early cutoff. Two
// values with equal fingerprints are treated as the same value; the
// implementation must cover everything dependents can observe.
type Fingerprinter interface {
	Fingerprint() uint64
}

func fingerprintOf(v any) (uint64, bool) {
	f, ok := v.(Fingerprinter)
	if !ok {
		return 0, false
	}
	return f.Fingerprint(), true
}

// Digest accumulates fields into a single xxh3 fingerprint. Write order
// is significant; writers prefix variable-length data with its length so
// adjacent fields cannot alias.
type Digest struct {
	buf []byte
}

// NewDigest returns a digest with capacity for small values preallocated.
func NewDigest() *Digest {
	return &Digest{buf: make([]byte, 0, 64)}
}

func (d *Digest) Uint64(v uint64) *Digest {
	d.buf = binary.LittleEndian.AppendUint64(d.buf, v)
	return d
}

func (d *Digest) Uint32(v uint32) *Digest {
	d.buf = binary.LittleEndian.AppendUint32(d.buf, v)
	return d
}

func (d *Digest) Byte(v byte) *Digest {
	d.buf = append(d.buf, v)
	return d
}

func (d *Digest) Bool(v bool) *Digest {
	if v {
		return d.Byte(1)
	}
	return d.Byte(0)
}

func (d *Digest) String(s string) *Digest {
	d.Uint64(uint64(len(s)))
	d.buf = append(d.buf, s...)
	return d
}

func (d *Digest) Bytes(b []byte) *Digest {
	d.Uint64(uint64(len(b)))
	d.buf = append(d.buf, b...)
	return d
}

// Sum finalizes the fingerprint.
func (d *Digest) Sum() uint64 {
	return xxh3.Hash(d.buf)
}

// HashString fingerprints a single string.
func HashString(s string) uint64 {
	return xxh3.HashString(s)
}

// HashBytes fingerprints a byte slice.
func HashBytes(b []byte) uint64 {
	return xxh3.Hash(b)
}
